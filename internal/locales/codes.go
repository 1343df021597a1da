package locales

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeCode lower-cases a locale code and uses "-" as separator.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// SplitCode returns the language and country parts of a locale code such as
// "de-CH". The country is empty when the code does not carry an explicit one.
func SplitCode(code string) (string, string) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return "", ""
	}

	if tag, err := language.Raw.Parse(normalized); err == nil {
		base, _ := tag.Base()
		lang := strings.ToLower(base.String())
		country := ""
		if region, conf := tag.Region(); conf == language.Exact {
			country = strings.ToLower(region.String())
		}
		if lang != "" && lang != "und" {
			return lang, country
		}
	}

	parts := strings.SplitN(normalized, "-", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
