package translatable_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	translatable "github.com/goliatone/go-translatable"
)

func newModule(t *testing.T, cfg translatable.Config) *translatable.Module {
	t.Helper()
	module, err := translatable.New(cfg, translatable.WithDefinitions(translatable.Definition{
		Kind:             "product",
		TranslatedFields: []string{"name", "description"},
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = module.Close(context.Background()) })
	return module
}

func TestModuleResolvesTranslations(t *testing.T) {
	module := newModule(t, translatable.DefaultConfig())
	ctx := context.Background()

	created, err := module.Entities().Create(ctx, translatable.CreateRequest{
		Kind:       "product",
		Attributes: map[string]any{"sku": "X-1", "name": "ignored"},
		Translations: []translatable.TranslationInput{
			{Locale: "de-ch", Fields: map[string]string{"name": "A"}},
			{Locale: "fr-ch", Fields: map[string]string{"name": "B"}},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok := created.Attributes["name"]; ok {
		t.Fatalf("expected translated field stripped from attributes, got %+v", created.Attributes)
	}

	cases := []struct {
		header string
		want   string
	}{
		{header: "de-ch, en-GB", want: "A"},
		{header: "en-GB", want: ""},
		{header: "fr;q=0.9, de;q=0.8", want: "B"},
	}
	for _, tc := range cases {
		got, err := module.Entities().Get(ctx, translatable.GetRequest{
			Kind:        "product",
			ID:          created.ID,
			Preferences: translatable.ParseAcceptLanguage(tc.header),
		})
		if err != nil {
			t.Fatalf("Get(%q) error = %v", tc.header, err)
		}
		if got.Translated["name"] != tc.want {
			t.Fatalf("Get(%q) name = %q, want %q", tc.header, got.Translated["name"], tc.want)
		}
	}
}

func TestModuleWildcardPicksAnyCandidate(t *testing.T) {
	module := newModule(t, translatable.DefaultConfig())
	ctx := context.Background()

	created, err := module.Entities().Create(ctx, translatable.CreateRequest{
		Kind: "product",
		Translations: []translatable.TranslationInput{
			{Locale: "de-ch", Fields: map[string]string{"name": "A"}},
			{Locale: "fr-ch", Fields: map[string]string{"name": "B"}},
		},
		Preferences: translatable.ParseAcceptLanguage("*"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if name := created.Translated["name"]; name != "A" && name != "B" {
		t.Fatalf("expected wildcard to resolve a candidate, got %q", name)
	}
	if created.TranslationMeta == nil || created.TranslationMeta.FallbackUsed {
		t.Fatalf("expected first-range hit, got %+v", created.TranslationMeta)
	}
}

func TestModuleRejectsDuplicateLocales(t *testing.T) {
	module := newModule(t, translatable.DefaultConfig())

	_, err := module.Entities().Create(context.Background(), translatable.CreateRequest{
		Kind: "product",
		Translations: []translatable.TranslationInput{
			{Locale: "it-ch", Fields: map[string]string{"name": "A"}},
			{Locale: "IT-CH", Fields: map[string]string{"name": "B"}},
		},
	})
	var dup *translatable.DuplicateLocaleError
	if !errors.As(err, &dup) || !errors.Is(err, translatable.ErrDuplicateLocale) {
		t.Fatalf("expected duplicate locale error, got %v", err)
	}
}

func TestModuleRegisterDefinitionAndHTTP(t *testing.T) {
	module := newModule(t, translatable.DefaultConfig())
	if err := module.RegisterDefinition(translatable.Definition{Kind: "Page", TranslatedFields: []string{"title"}}); err != nil {
		t.Fatalf("RegisterDefinition() error = %v", err)
	}

	mux := http.NewServeMux()
	if err := module.Register(mux); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	id := uuid.New()
	body := `{"id":"` + id.String() + `","translations":[{"locale":"en-gb","fields":{"title":"Hello"}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/entities/page", strings.NewReader(body))
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"Hello"`) {
		t.Fatalf("expected resolved title in %s", rec.Body.String())
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/entities/unknown", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, missing)
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("expected 406 for unregistered kind, got %d", rec.Code)
	}
}

func TestModuleLocales(t *testing.T) {
	module := newModule(t, translatable.DefaultConfig())
	records, err := module.Locales(context.Background())
	if err != nil {
		t.Fatalf("Locales() error = %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected 6 seeded locales, got %d", len(records))
	}
}
