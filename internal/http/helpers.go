package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/translations"
)

type errorResponse struct {
	Error    string         `json:"error"`
	Message  string         `json:"message,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if baseClean == "/" {
		return joinPath("", trimmedSuffix)
	}
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders err as a JSON error body and returns the status sent.
func writeError(w http.ResponseWriter, err error) int {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
	return status
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var duplicate *translations.DuplicateLocaleError
	if errors.As(err, &duplicate) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:    "validation_failed",
			Message:  duplicate.Error(),
			TextCode: translations.TextCodeDuplicateLocale,
			Metadata: map[string]any{"locale_id": duplicate.LocaleID.String()},
		}
	}

	if errors.Is(err, entities.ErrDefinitionMissing) {
		return http.StatusNotAcceptable, errorResponse{
			Error:   "not_acceptable",
			Message: err.Error(),
		}
	}

	var entityNotFound *entities.NotFoundError
	if errors.As(err, &entityNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: entityNotFound.Error(),
		}
	}

	var localeNotFound *locales.NotFoundError
	if errors.As(err, &localeNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: localeNotFound.Error(),
		}
	}

	if errors.Is(err, entities.ErrUnknownLocale) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	}

	if errors.Is(err, entities.ErrKindRequired) ||
		errors.Is(err, entities.ErrEntityIDRequired) ||
		errors.Is(err, entities.ErrTranslationLocaleRequired) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation) {
		resp := errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
		var categorized *goerrors.Error
		if errors.As(err, &categorized) {
			resp.TextCode = categorized.TextCode
		}
		return http.StatusBadRequest, resp
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
