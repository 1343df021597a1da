package locales

import (
	"strings"

	"github.com/google/uuid"
)

// Catalog is an immutable snapshot of the known locales. Lookups compare
// lower-cased codes; the catalog normalizes its records on construction.
type Catalog struct {
	locales []Locale
}

// NewCatalog builds a catalog from records, skipping nil entries. The records
// are copied so later changes to them do not leak into the snapshot.
func NewCatalog(records []*Locale) Catalog {
	locales := make([]Locale, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		locales = append(locales, normalizeLocale(*record))
	}
	return Catalog{locales: locales}
}

// Len returns the number of locales in the catalog.
func (c Catalog) Len() int {
	return len(c.locales)
}

// All returns a copy of the catalog records in catalog order.
func (c Catalog) All() []Locale {
	return append([]Locale(nil), c.locales...)
}

// ByID returns the locale with the given identifier.
func (c Catalog) ByID(id uuid.UUID) (Locale, bool) {
	if id == uuid.Nil {
		return Locale{}, false
	}
	for _, locale := range c.locales {
		if locale.ID == id {
			return locale, true
		}
	}
	return Locale{}, false
}

// Exact returns the first locale matching both language and country.
func (c Catalog) Exact(language, country string) (Locale, bool) {
	language = strings.ToLower(strings.TrimSpace(language))
	country = strings.ToLower(strings.TrimSpace(country))
	if language == "" || country == "" {
		return Locale{}, false
	}
	for _, locale := range c.locales {
		if locale.LanguageCode == language && locale.CountryCode == country {
			return locale, true
		}
	}
	return Locale{}, false
}

// DefaultFor returns the locale flagged as default for language.
func (c Catalog) DefaultFor(language string) (Locale, bool) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return Locale{}, false
	}
	for _, locale := range c.locales {
		if locale.LanguageCode == language && locale.IsDefaultForLanguage {
			return locale, true
		}
	}
	return Locale{}, false
}

func normalizeLocale(locale Locale) Locale {
	locale.Code = NormalizeCode(locale.Code)
	locale.LanguageCode = strings.ToLower(strings.TrimSpace(locale.LanguageCode))
	locale.CountryCode = strings.ToLower(strings.TrimSpace(locale.CountryCode))
	if locale.LanguageCode == "" && locale.Code != "" {
		locale.LanguageCode, locale.CountryCode = SplitCode(locale.Code)
	}
	return locale
}
