package acceptlang

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Wildcard is the language value matching any locale.
const Wildcard = "*"

// LanguageRange is one parsed preference from an Accept-Language style header.
type LanguageRange struct {
	Language string  `json:"language"`
	Country  string  `json:"country"`
	Priority float64 `json:"priority"`
}

// IsWildcard reports whether the range accepts any language.
func (r LanguageRange) IsWildcard() bool {
	return r.Language == Wildcard
}

// String renders the range in header form, e.g. "de-ch;q=0.7".
func (r LanguageRange) String() string {
	var b strings.Builder
	b.WriteString(r.Language)
	if r.Country != "" {
		b.WriteByte('-')
		b.WriteString(r.Country)
	}
	if r.Priority != 1 {
		b.WriteString(";q=")
		b.WriteString(strconv.FormatFloat(r.Priority, 'f', -1, 64))
	}
	return b.String()
}

var (
	itemSeparator = regexp.MustCompile(`\s*,\s*`)
	itemPattern   = regexp.MustCompile(`(?i)^(\*|[a-z]{2,3})(?:[-_]([a-z]{2,3}))?(?:\s*;\s*q\s*=\s*([0-9]+(?:\.[0-9]*)?|\.[0-9]+))?$`)
)

// ParseRFCPrioritizedHeader parses a raw Accept-Language value into language
// ranges ordered by priority, highest first. Items that do not match the
// grammar are dropped. Ranges with equal priority keep their header order.
func ParseRFCPrioritizedHeader(header string) []LanguageRange {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return nil
	}

	items := itemSeparator.Split(trimmed, -1)
	ranges := make([]LanguageRange, 0, len(items))
	for _, item := range items {
		parsed, ok := parseItem(item)
		if !ok {
			continue
		}
		ranges = append(ranges, parsed)
	}
	if len(ranges) == 0 {
		return nil
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Priority > ranges[j].Priority
	})
	return ranges
}

func parseItem(item string) (LanguageRange, bool) {
	match := itemPattern.FindStringSubmatch(strings.TrimSpace(item))
	if match == nil {
		return LanguageRange{}, false
	}

	priority := 1.0
	if match[3] != "" {
		value, err := strconv.ParseFloat(match[3], 64)
		if err != nil || value < 0 || value > 1 {
			return LanguageRange{}, false
		}
		priority = value
	}

	return LanguageRange{
		Language: strings.ToLower(match[1]),
		Country:  strings.ToLower(match[2]),
		Priority: priority,
	}, true
}
