package acceptlang

import "strings"

// WithDefault returns a new slice holding ranges followed by def. The input
// slice is left untouched so callers can keep logging or reusing it.
func WithDefault(ranges []LanguageRange, def LanguageRange) []LanguageRange {
	out := make([]LanguageRange, 0, len(ranges)+1)
	out = append(out, ranges...)
	return append(out, normalizeRange(def))
}

// Preferences parses header and appends the configured default range, giving
// the complete fallback chain for one request.
func Preferences(header string, def LanguageRange) []LanguageRange {
	return WithDefault(ParseRFCPrioritizedHeader(header), def)
}

func normalizeRange(r LanguageRange) LanguageRange {
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	r.Country = strings.ToLower(strings.TrimSpace(r.Country))
	return r
}
