package translations

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// ResolveInput groups the values a resolution runs over. Preferences are
// expected to already carry the configured default range as their last entry.
type ResolveInput struct {
	Translations []*Translation
	Preferences  []acceptlang.LanguageRange
	Locales      locales.Catalog
}

// Resolution describes the outcome of a resolution.
type Resolution struct {
	Translation *Translation
	Locale      *locales.Locale
	Range       acceptlang.LanguageRange
	// Index is the position of Range in the preference list, -1 on a miss.
	Index int
	Found bool

	preferences  []acceptlang.LanguageRange
	translations []*Translation
	catalog      locales.Catalog
}

// Resolve returns the best matching translation for the preferences, or nil
// when none of them selects a locale that has a candidate translation.
func Resolve(in ResolveInput) *Translation {
	return ResolveDetailed(in).Translation
}

// ResolveDetailed behaves like Resolve and reports which range and locale
// produced the hit.
//
// For each range, in order:
//   - language and country set: the locale with both codes
//   - language set, country empty: the default locale for the language
//   - otherwise (wildcard): the locale of the first candidate translation
//
// The first candidate whose locale matches wins. Inputs are never mutated.
func ResolveDetailed(in ResolveInput) Resolution {
	res := Resolution{
		Index:        -1,
		preferences:  in.Preferences,
		translations: in.Translations,
		catalog:      in.Locales,
	}

	for i := range in.Preferences {
		pref := in.Preferences[i]
		locale, ok := targetLocale(pref, in.Locales, in.Translations)
		if !ok {
			continue
		}
		translation := findByLocale(in.Translations, locale.ID)
		if translation == nil {
			continue
		}
		res.Translation = translation
		res.Locale = &locale
		res.Range = pref
		res.Index = i
		res.Found = true
		return res
	}
	return res
}

func targetLocale(pref acceptlang.LanguageRange, catalog locales.Catalog, candidates []*Translation) (locales.Locale, bool) {
	switch {
	case pref.Language != "" && pref.Country != "":
		return catalog.Exact(pref.Language, pref.Country)
	case pref.Language != "" && !pref.IsWildcard():
		return catalog.DefaultFor(pref.Language)
	}

	if len(candidates) == 0 || candidates[0] == nil {
		return locales.Locale{}, false
	}
	return catalog.ByID(candidates[0].LocaleID)
}

func findByLocale(candidates []*Translation, localeID uuid.UUID) *Translation {
	for _, candidate := range candidates {
		if candidate != nil && candidate.LocaleID == localeID {
			return candidate
		}
	}
	return nil
}

// FallbackUsed reports whether the hit came from a range other than the
// first preference.
func (r Resolution) FallbackUsed() bool {
	return r.Found && r.Index > 0
}

// Meta summarizes the resolution for API consumers.
func (r Resolution) Meta() interfaces.TranslationMeta {
	meta := interfaces.TranslationMeta{
		AvailableLocales: r.availableLocales(),
		FallbackUsed:     r.FallbackUsed(),
	}
	if len(r.preferences) > 0 {
		meta.RequestedLocale = r.preferences[0].String()
	}
	if r.Locale != nil {
		meta.ResolvedLocale = r.Locale.Code
	}
	meta.MissingRequestedLocale = !r.Found || r.Index != 0
	return meta
}

func (r Resolution) availableLocales() []string {
	out := make([]string, 0, len(r.translations))
	seen := make(map[uuid.UUID]struct{}, len(r.translations))
	for _, candidate := range r.translations {
		if candidate == nil {
			continue
		}
		if _, ok := seen[candidate.LocaleID]; ok {
			continue
		}
		seen[candidate.LocaleID] = struct{}{}
		if locale, ok := r.catalog.ByID(candidate.LocaleID); ok {
			out = append(out, locale.Code)
		}
	}
	return out
}
