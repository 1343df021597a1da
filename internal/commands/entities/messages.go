package entitiescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/entities"
)

const (
	createEntityMessageType = "translatable.entities.create"
	updateEntityMessageType = "translatable.entities.update"
	deleteEntityMessageType = "translatable.entities.delete"
)

// CreateEntityCommand creates an entity with its translations.
type CreateEntityCommand struct {
	Kind         string                      `json:"kind"`
	ID           uuid.UUID                   `json:"id,omitempty"`
	Attributes   map[string]any              `json:"attributes,omitempty"`
	Translations []entities.TranslationInput `json:"translations,omitempty"`
}

// Type implements command.Message.
func (CreateEntityCommand) Type() string { return createEntityMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CreateEntityCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Kind) == "" {
		errs["kind"] = validation.NewError(createEntityMessageType+".kind_required", "kind is required")
	}
	validateTranslations(errs, createEntityMessageType, m.Translations)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntityCommand merges attributes and upserts translations.
type UpdateEntityCommand struct {
	Kind         string                      `json:"kind"`
	ID           uuid.UUID                   `json:"id"`
	Attributes   map[string]any              `json:"attributes,omitempty"`
	Translations []entities.TranslationInput `json:"translations,omitempty"`
}

// Type implements command.Message.
func (UpdateEntityCommand) Type() string { return updateEntityMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UpdateEntityCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Kind) == "" {
		errs["kind"] = validation.NewError(updateEntityMessageType+".kind_required", "kind is required")
	}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError(updateEntityMessageType+".id_required", "id is required")
	}
	if m.Attributes == nil && len(m.Translations) == 0 {
		errs["attributes"] = validation.NewError(updateEntityMessageType+".empty", "attributes or translations are required")
	}
	validateTranslations(errs, updateEntityMessageType, m.Translations)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteEntityCommand removes an entity and all of its translations.
type DeleteEntityCommand struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// Type implements command.Message.
func (DeleteEntityCommand) Type() string { return deleteEntityMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteEntityCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Kind) == "" {
		errs["kind"] = validation.NewError(deleteEntityMessageType+".kind_required", "kind is required")
	}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError(deleteEntityMessageType+".id_required", "id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTranslations(errs validation.Errors, messageType string, inputs []entities.TranslationInput) {
	for _, input := range inputs {
		if input.LocaleID == uuid.Nil && strings.TrimSpace(input.Locale) == "" {
			errs["translations"] = validation.NewError(messageType+".locale_required", "every translation needs locale_id or locale")
			return
		}
	}
}
