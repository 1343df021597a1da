package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	entitiescmd "github.com/goliatone/go-translatable/internal/commands/entities"
	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/internal/identity"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/logging/console"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

var (
	localeDECH = identity.LocaleUUID("de-ch")
	localeFRCH = identity.LocaleUUID("fr-ch")
	localeENGB = identity.LocaleUUID("en-gb")
)

type entityEnvelope struct {
	Data         map[string]any              `json:"data"`
	Meta         interfaces.TranslationMeta  `json:"meta"`
	Translations []*translations.Translation `json:"translations"`
}

func setupEntitiesAPI(t *testing.T, withCommands bool, extra ...EntitiesOption) *http.ServeMux {
	t.Helper()

	registry, err := entities.NewRegistry(entities.Definition{Kind: "article", TranslatedFields: []string{"name"}})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	catalog := locales.NewCatalog([]*locales.Locale{
		{ID: localeDECH, Code: "de-ch", IsDefaultForLanguage: true},
		{ID: localeFRCH, Code: "fr-ch", IsDefaultForLanguage: true},
		{ID: localeENGB, Code: "en-gb", IsDefaultForLanguage: true},
	})
	svc := entities.NewService(
		entities.NewMemoryEntityRepository(),
		entities.NewMemoryTranslationRepository(),
		entities.StaticCatalog(catalog),
		registry,
		entities.WithDefaultPreference(acceptlang.LanguageRange{Language: "it", Priority: 0.001}),
	)

	opts := []EntitiesOption{WithBasePath("/api")}
	if withCommands {
		opts = append(opts, WithCommandHandlers(entitiescmd.NewHandlers(svc, nil)))
	}
	opts = append(opts, extra...)
	api := NewEntitiesAPI(svc, opts...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register api: %v", err)
	}
	return mux
}

func doJSONRequest(t *testing.T, mux *http.ServeMux, method, path, acceptLanguage string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if acceptLanguage != "" {
		req.Header.Set(AcceptLanguageHeader, acceptLanguage)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func articleBody(id uuid.UUID) map[string]any {
	return map[string]any{
		"id":         id.String(),
		"attributes": map[string]any{"slug": "hello", "name": "stripped"},
		"translations": []map[string]any{
			{"locale_id": localeDECH.String(), "fields": map[string]string{"name": "A"}},
			{"locale_id": localeFRCH.String(), "fields": map[string]string{"name": "B"}},
		},
	}
}

func TestEntitiesAPI_ResolvesAcceptLanguage(t *testing.T) {
	for _, withCommands := range []bool{false, true} {
		name := "service"
		if withCommands {
			name = "commands"
		}
		t.Run(name, func(t *testing.T) {
			mux := setupEntitiesAPI(t, withCommands)
			id := uuid.New()
			doJSONRequest(t, mux, http.MethodPost, "/api/entities/article", "", articleBody(id), http.StatusCreated)

			path := "/api/entities/article/" + id.String()
			var matched entityEnvelope
			decodeJSONBody(t, doJSONRequest(t, mux, http.MethodGet, path, "de-ch, en-GB", nil, http.StatusOK), &matched)
			if matched.Data["name"] != "A" {
				t.Fatalf("expected name A got %v", matched.Data["name"])
			}
			if matched.Data["slug"] != "hello" {
				t.Fatalf("expected slug attribute, got %v", matched.Data["slug"])
			}
			if matched.Meta.ResolvedLocale != "de-ch" || matched.Meta.FallbackUsed {
				t.Fatalf("unexpected meta %+v", matched.Meta)
			}

			var missing entityEnvelope
			decodeJSONBody(t, doJSONRequest(t, mux, http.MethodGet, path, "en-GB", nil, http.StatusOK), &missing)
			if missing.Data["name"] != "" {
				t.Fatalf("expected empty name got %v", missing.Data["name"])
			}
			if !missing.Meta.MissingRequestedLocale || missing.Meta.RequestedLocale != "en-gb" {
				t.Fatalf("unexpected meta %+v", missing.Meta)
			}
		})
	}
}

func TestEntitiesAPI_Lifecycle(t *testing.T) {
	mux := setupEntitiesAPI(t, true)
	id := uuid.New()
	doJSONRequest(t, mux, http.MethodPost, "/api/entities/article", "", articleBody(id), http.StatusCreated)

	path := "/api/entities/article/" + id.String()
	update := map[string]any{
		"attributes": map[string]any{"slug": "updated"},
		"translations": []map[string]any{
			{"locale": "en-GB", "fields": map[string]string{"name": "C"}},
		},
	}
	var updated entityEnvelope
	decodeJSONBody(t, doJSONRequest(t, mux, http.MethodPatch, path+"?with_translations=true", "en-gb", update, http.StatusOK), &updated)
	if updated.Data["name"] != "C" || updated.Data["slug"] != "updated" {
		t.Fatalf("unexpected updated payload %+v", updated.Data)
	}
	if len(updated.Translations) != 3 {
		t.Fatalf("expected 3 translations got %d", len(updated.Translations))
	}

	var list entityListResponse
	decodeJSONBody(t, doJSONRequest(t, mux, http.MethodGet, "/api/entities/article", "fr", nil, http.StatusOK), &list)
	if list.Count != 1 || list.Items[0].Data["name"] != "B" {
		t.Fatalf("unexpected list %+v", list)
	}

	doJSONRequest(t, mux, http.MethodDelete, path, "", nil, http.StatusNoContent)
	doJSONRequest(t, mux, http.MethodGet, path, "", nil, http.StatusNotFound)
}

func TestEntitiesAPI_RejectsDuplicateLocales(t *testing.T) {
	for _, withCommands := range []bool{false, true} {
		mux := setupEntitiesAPI(t, withCommands)
		body := map[string]any{
			"translations": []map[string]any{
				{"locale_id": localeDECH.String(), "fields": map[string]string{"name": "A"}},
				{"locale_id": localeFRCH.String(), "fields": map[string]string{"name": "B"}},
				{"locale": "de-CH", "fields": map[string]string{"name": "C"}},
			},
		}
		rec := doJSONRequest(t, mux, http.MethodPost, "/api/entities/article", "", body, http.StatusUnprocessableEntity)
		var resp errorResponse
		decodeJSONBody(t, rec, &resp)
		if resp.Error != "validation_failed" || resp.Metadata["locale_id"] != localeDECH.String() {
			t.Fatalf("unexpected error response %+v", resp)
		}

		var list entityListResponse
		decodeJSONBody(t, doJSONRequest(t, mux, http.MethodGet, "/api/entities/article", "", nil, http.StatusOK), &list)
		if list.Count != 0 {
			t.Fatalf("expected nothing persisted, got %d entities", list.Count)
		}
	}
}

func TestEntitiesAPI_ErrorMapping(t *testing.T) {
	mux := setupEntitiesAPI(t, true)

	doJSONRequest(t, mux, http.MethodGet, "/api/entities/unknown", "", nil, http.StatusNotAcceptable)
	doJSONRequest(t, mux, http.MethodGet, "/api/entities/article/not-a-uuid", "", nil, http.StatusBadRequest)
	doJSONRequest(t, mux, http.MethodGet, "/api/entities/article/"+uuid.NewString(), "", nil, http.StatusNotFound)
	doJSONRequest(t, mux, http.MethodPatch, "/api/entities/article/"+uuid.NewString(), "", map[string]any{}, http.StatusBadRequest)

	unknownLocale := map[string]any{
		"translations": []map[string]any{{"locale": "pt-br", "fields": map[string]string{"name": "X"}}},
	}
	doJSONRequest(t, mux, http.MethodPost, "/api/entities/article", "", unknownLocale, http.StatusUnprocessableEntity)
}

func TestEntitiesAPILogsRejectedRequests(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})
	mux := setupEntitiesAPI(t, false, WithLogger(logging.HTTPLogger(provider)))

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/entities/article/"+uuid.NewString(), "fr-ch", nil, http.StatusNotFound)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "not_found" {
		t.Fatalf("unexpected error body %v", body)
	}

	out := buf.String()
	for _, want := range []string{"http.entities.rejected", "status=404", "accept_language=fr-ch"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output %q", want, out)
		}
	}
}

func TestMapErrorFallsBackToInternal(t *testing.T) {
	status, resp := mapError(errors.New("boom"))
	if status != http.StatusInternalServerError || resp.Error != "internal_error" {
		t.Fatalf("unexpected mapping %d %+v", status, resp)
	}
}

func TestAcceptLanguageStoresRangesOnContext(t *testing.T) {
	var (
		raw    string
		ranges []acceptlang.LanguageRange
	)
	handler := AcceptLanguage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = acceptlang.RawFromContext(r.Context())
		ranges, _ = acceptlang.RangesFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AcceptLanguageHeader, "en-US;q=0.7,de-ch")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if raw != "en-US;q=0.7,de-ch" {
		t.Fatalf("unexpected raw header %q", raw)
	}
	want := []acceptlang.LanguageRange{
		{Language: "de", Country: "ch", Priority: 1},
		{Language: "en", Country: "us", Priority: 0.7},
	}
	if !reflect.DeepEqual(ranges, want) {
		t.Fatalf("unexpected ranges %+v", ranges)
	}
}

func TestAcceptLanguageAddsLoggingField(t *testing.T) {
	var fields map[string]any
	handler := AcceptLanguage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields = logging.ContextFields(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AcceptLanguageHeader, "fr-ch")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if fields[logging.FieldAcceptLanguage] != "fr-ch" {
		t.Fatalf("expected accept_language field, got %v", fields)
	}

	fields = nil
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if _, ok := fields[logging.FieldAcceptLanguage]; ok {
		t.Fatalf("expected no accept_language field without a header, got %v", fields)
	}
}

func TestRequestPreferencesWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	req.Header.Set(AcceptLanguageHeader, "fr-ch")
	got := requestPreferences(req)
	if len(got) != 1 || got[0].Language != "fr" {
		t.Fatalf("unexpected preferences %+v", got)
	}
}

func TestJoinPath(t *testing.T) {
	cases := map[[2]string]string{
		{"/api", "entities"}:  "/api/entities",
		{"api/", "/entities"}: "/api/entities",
		{"", "entities"}:      "/entities",
		{"/", "entities"}:     "/entities",
		{"", ""}:              "/",
	}
	for in, want := range cases {
		if got := joinPath(in[0], in[1]); got != want {
			t.Fatalf("joinPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
