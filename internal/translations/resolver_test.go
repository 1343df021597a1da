package translations

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	"github.com/goliatone/go-translatable/internal/locales"
)

var (
	deCH = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	deDE = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	enGB = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	frCH = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

func testCatalog() locales.Catalog {
	return locales.NewCatalog([]*locales.Locale{
		{ID: deCH, Code: "de-ch", LanguageCode: "de", CountryCode: "ch"},
		{ID: deDE, Code: "de-de", LanguageCode: "de", CountryCode: "de", IsDefaultForLanguage: true},
		{ID: enGB, Code: "en-gb", LanguageCode: "en", CountryCode: "gb", IsDefaultForLanguage: true},
		{ID: frCH, Code: "fr-ch", LanguageCode: "fr", CountryCode: "ch", IsDefaultForLanguage: true},
	})
}

func translation(localeID uuid.UUID, name string) *Translation {
	return &Translation{LocaleID: localeID, Fields: map[string]string{"name": name}}
}

func prefs(header string) []acceptlang.LanguageRange {
	return acceptlang.ParseRFCPrioritizedHeader(header)
}

func TestResolve(t *testing.T) {
	catalog := testCatalog()
	deCHTranslation := translation(deCH, "Grüezi")
	deDETranslation := translation(deDE, "Hallo")
	enTranslation := translation(enGB, "Hello")

	cases := []struct {
		name         string
		translations []*Translation
		preferences  []acceptlang.LanguageRange
		want         *Translation
	}{
		{
			name:         "exact locale",
			translations: []*Translation{deDETranslation, deCHTranslation},
			preferences:  prefs("de-ch"),
			want:         deCHTranslation,
		},
		{
			name:         "language default among several locales",
			translations: []*Translation{deCHTranslation, deDETranslation},
			preferences:  prefs("de"),
			want:         deDETranslation,
		},
		{
			name:         "falls through to next range",
			translations: []*Translation{enTranslation},
			preferences:  prefs("fr-ch, de;q=0.9, en-GB;q=0.5"),
			want:         enTranslation,
		},
		{
			name:         "unknown locale in catalog is skipped",
			translations: []*Translation{enTranslation},
			preferences:  prefs("pt-br, en"),
			want:         enTranslation,
		},
		{
			name:         "wildcard picks first candidate",
			translations: []*Translation{deCHTranslation, enTranslation},
			preferences:  prefs("*"),
			want:         deCHTranslation,
		},
		{
			name:         "wildcard ignores later ranges",
			translations: []*Translation{enTranslation, deCHTranslation},
			preferences:  prefs("*, de-ch;q=0.5"),
			want:         enTranslation,
		},
		{
			name:         "wildcard without candidates continues",
			translations: nil,
			preferences:  prefs("*, en"),
			want:         nil,
		},
		{
			name:         "exhaustion",
			translations: []*Translation{deCHTranslation},
			preferences:  prefs("fr-ch, en"),
			want:         nil,
		},
		{
			name:         "no preferences",
			translations: []*Translation{deCHTranslation},
			preferences:  nil,
			want:         nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(ResolveInput{
				Translations: tc.translations,
				Preferences:  tc.preferences,
				Locales:      catalog,
			})
			if got != tc.want {
				t.Fatalf("Resolve() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	catalog := testCatalog()
	translations := []*Translation{translation(enGB, "Hello"), translation(deCH, "Grüezi")}
	preferences := acceptlang.WithDefault(prefs("fr-ch, de-ch;q=0.5"), acceptlang.LanguageRange{Language: "en", Priority: 0.001})

	prefsBefore := append([]acceptlang.LanguageRange(nil), preferences...)
	translationsBefore := append([]*Translation(nil), translations...)
	catalogBefore := catalog.All()

	in := ResolveInput{Translations: translations, Preferences: preferences, Locales: catalog}
	first := Resolve(in)
	second := Resolve(in)

	if first != second || first == nil || first.LocaleID != deCH {
		t.Fatalf("expected repeatable de-ch resolution, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(preferences, prefsBefore) {
		t.Fatalf("preferences mutated: %+v", preferences)
	}
	if !reflect.DeepEqual(translations, translationsBefore) {
		t.Fatalf("translations mutated")
	}
	if !reflect.DeepEqual(catalog.All(), catalogBefore) {
		t.Fatalf("catalog mutated")
	}
}

func TestResolveDetailedReportsRange(t *testing.T) {
	catalog := testCatalog()
	translations := []*Translation{translation(deDE, "Hallo"), translation(enGB, "Hello")}
	preferences := acceptlang.WithDefault(prefs("fr-ch"), acceptlang.LanguageRange{Language: "en", Country: "gb", Priority: 0.001})

	res := ResolveDetailed(ResolveInput{Translations: translations, Preferences: preferences, Locales: catalog})
	if !res.Found || res.Index != 1 || res.Locale == nil || res.Locale.Code != "en-gb" {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if !res.FallbackUsed() {
		t.Fatalf("expected fallback to be reported")
	}

	meta := res.Meta()
	if meta.RequestedLocale != "fr-ch" || meta.ResolvedLocale != "en-gb" {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if !meta.MissingRequestedLocale || !meta.FallbackUsed {
		t.Fatalf("expected missing requested locale and fallback, got %+v", meta)
	}
	if !reflect.DeepEqual(meta.AvailableLocales, []string{"de-de", "en-gb"}) {
		t.Fatalf("unexpected available locales %v", meta.AvailableLocales)
	}

	miss := ResolveDetailed(ResolveInput{Translations: translations, Preferences: prefs("it"), Locales: catalog})
	if miss.Found || miss.Index != -1 || miss.Translation != nil || miss.FallbackUsed() {
		t.Fatalf("unexpected miss %+v", miss)
	}
}

func TestResolveConcurrentCalls(t *testing.T) {
	in := ResolveInput{
		Translations: []*Translation{translation(deCH, "Grüezi"), translation(enGB, "Hello")},
		Preferences:  prefs("en-gb, de-ch;q=0.8"),
		Locales:      testCatalog(),
	}

	var wg sync.WaitGroup
	results := make([]*Translation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Resolve(in)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got == nil || got.LocaleID != enGB {
			t.Fatalf("result %d: expected en-gb translation, got %+v", i, got)
		}
	}
}
