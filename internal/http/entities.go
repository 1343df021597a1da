package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	entitiescmd "github.com/goliatone/go-translatable/internal/commands/entities"
	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// EntitiesAPI registers translated entity endpoints.
type EntitiesAPI struct {
	basePath string
	service  entities.Service
	commands *entitiescmd.Handlers
	logger   interfaces.Logger
	id       func() uuid.UUID
}

// EntitiesOption mutates the EntitiesAPI configuration.
type EntitiesOption func(*EntitiesAPI)

// NewEntitiesAPI constructs an EntitiesAPI instance.
func NewEntitiesAPI(service entities.Service, opts ...EntitiesOption) *EntitiesAPI {
	api := &EntitiesAPI{
		basePath: "/api",
		service:  service,
		logger:   logging.NoOp(),
		id:       uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) EntitiesOption {
	return func(api *EntitiesAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithCommandHandlers routes writes through the entity command handlers
// instead of calling the service directly.
func WithCommandHandlers(handlers entitiescmd.Handlers) EntitiesOption {
	return func(api *EntitiesAPI) {
		api.commands = &handlers
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(logger interfaces.Logger) EntitiesOption {
	return func(api *EntitiesAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithIDGenerator overrides how ids are assigned to entities created without one.
func WithIDGenerator(generator func() uuid.UUID) EntitiesOption {
	return func(api *EntitiesAPI) {
		if generator != nil {
			api.id = generator
		}
	}
}

// Register attaches the entity endpoints to the provided mux. Routes are
// wrapped with AcceptLanguage.
func (api *EntitiesAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: entities api is nil")
	}

	root := joinPath(api.basePath, "entities")
	mux.Handle("GET "+root+"/{kind}", AcceptLanguage(http.HandlerFunc(api.handleList)))
	mux.Handle("POST "+root+"/{kind}", AcceptLanguage(http.HandlerFunc(api.handleCreate)))
	mux.Handle("GET "+root+"/{kind}/{id}", AcceptLanguage(http.HandlerFunc(api.handleGet)))
	mux.Handle("PATCH "+root+"/{kind}/{id}", AcceptLanguage(http.HandlerFunc(api.handleUpdate)))
	mux.Handle("DELETE "+root+"/{kind}/{id}", AcceptLanguage(http.HandlerFunc(api.handleDelete)))
	return nil
}

type entityWritePayload struct {
	ID           uuid.UUID                   `json:"id,omitempty"`
	Attributes   map[string]any              `json:"attributes,omitempty"`
	Translations []entities.TranslationInput `json:"translations,omitempty"`
}

type entityResponse struct {
	Data         map[string]any              `json:"data"`
	Meta         *interfaces.TranslationMeta `json:"meta,omitempty"`
	Translations any                         `json:"translations,omitempty"`
}

type entityListResponse struct {
	Items []entityResponse `json:"items"`
	Count int              `json:"count"`
}

func (api *EntitiesAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	records, err := api.service.List(r.Context(), entities.ListRequest{
		Kind:        r.PathValue("kind"),
		Preferences: requestPreferences(r),
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	withTranslations := api.includeTranslations(r)
	items := make([]entityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, presentEntity(record, withTranslations))
	}
	writeJSON(w, http.StatusOK, entityListResponse{Items: items, Count: len(items)})
}

func (api *EntitiesAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	if api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	api.respondWithEntity(w, r, http.StatusOK, r.PathValue("kind"), id)
}

func (api *EntitiesAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	if api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload entityWritePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	kind := r.PathValue("kind")
	id := payload.ID
	if id == uuid.Nil {
		id = api.id()
	}

	if api.commands != nil && api.commands.Create != nil {
		err := api.commands.Create.Execute(r.Context(), entitiescmd.CreateEntityCommand{
			Kind:         kind,
			ID:           id,
			Attributes:   payload.Attributes,
			Translations: payload.Translations,
		})
		if err != nil {
			api.fail(w, r, err)
			return
		}
		api.respondWithEntity(w, r, http.StatusCreated, kind, id)
		return
	}

	created, err := api.service.Create(r.Context(), entities.CreateRequest{
		Kind:         kind,
		ID:           id,
		Attributes:   payload.Attributes,
		Translations: payload.Translations,
		Preferences:  requestPreferences(r),
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentEntity(created, api.includeTranslations(r)))
}

func (api *EntitiesAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload entityWritePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	kind := r.PathValue("kind")

	if api.commands != nil && api.commands.Update != nil {
		err := api.commands.Update.Execute(r.Context(), entitiescmd.UpdateEntityCommand{
			Kind:         kind,
			ID:           id,
			Attributes:   payload.Attributes,
			Translations: payload.Translations,
		})
		if err != nil {
			api.fail(w, r, err)
			return
		}
		api.respondWithEntity(w, r, http.StatusOK, kind, id)
		return
	}

	updated, err := api.service.Update(r.Context(), entities.UpdateRequest{
		Kind:         kind,
		ID:           id,
		Attributes:   payload.Attributes,
		Translations: payload.Translations,
		Preferences:  requestPreferences(r),
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentEntity(updated, api.includeTranslations(r)))
}

func (api *EntitiesAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	kind := r.PathValue("kind")
	if api.commands != nil && api.commands.Delete != nil {
		err = api.commands.Delete.Execute(r.Context(), entitiescmd.DeleteEntityCommand{Kind: kind, ID: id})
	} else {
		err = api.service.Delete(r.Context(), entities.DeleteRequest{Kind: kind, ID: id})
	}
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *EntitiesAPI) respondWithEntity(w http.ResponseWriter, r *http.Request, status int, kind string, id uuid.UUID) {
	record, err := api.service.Get(r.Context(), entities.GetRequest{
		Kind:        kind,
		ID:          id,
		Preferences: requestPreferences(r),
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, status, presentEntity(record, api.includeTranslations(r)))
}

func (api *EntitiesAPI) includeTranslations(r *http.Request) bool {
	return parseBoolQuery(r.URL.Query().Get("with_translations"), false)
}

func (api *EntitiesAPI) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.ForContext(api.logger, r.Context())
	status := writeError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("http.entities.failed", "method", r.Method, "path", r.URL.Path, "error", err)
		return
	}
	logger.Debug("http.entities.rejected", "method", r.Method, "path", r.URL.Path, "status", status)
}

func presentEntity(record *entities.Entity, withTranslations bool) entityResponse {
	resp := entityResponse{
		Data: record.View(),
		Meta: record.TranslationMeta,
	}
	if withTranslations && len(record.Translations) > 0 {
		resp.Translations = record.Translations
	}
	return resp
}
