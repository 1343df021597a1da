package entities

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

var (
	ErrKindRequired              = errors.New("entities: kind is required")
	ErrEntityIDRequired          = errors.New("entities: entity id is required")
	ErrDefinitionMissing         = errors.New("entities: no translation definition for kind")
	ErrTranslatedFieldsRequired  = errors.New("entities: definition requires at least one translated field")
	ErrDefinitionExists          = errors.New("entities: definition already registered")
	ErrTranslationLocaleRequired = errors.New("entities: translation locale is required")
	ErrUnknownLocale             = errors.New("entities: unknown locale")
	ErrCatalogRequired           = errors.New("entities: locale catalog is required")
)

// Entity is a persisted record whose translated fields live in separate
// per-locale translation rows.
type Entity struct {
	bun.BaseModel `bun:"table:translatable_entities,alias:te"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Kind       string         `bun:"kind,notnull" json:"kind"`
	Attributes map[string]any `bun:"attributes,type:jsonb" json:"attributes,omitempty"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	// Translated holds the resolved value of every translated field.
	Translated map[string]string `bun:"-" json:"translated,omitempty"`
	// Translations carries the candidate rows of the entity.
	Translations    []*translations.Translation `bun:"-" json:"translations,omitempty"`
	TranslationMeta *interfaces.TranslationMeta `bun:"-" json:"translation_meta,omitempty"`
}

var _ translations.Translatable = (*Entity)(nil)

// TranslationOwnerID satisfies translations.Translatable.
func (e *Entity) TranslationOwnerID() uuid.UUID {
	return e.ID
}

// SetTranslatedField satisfies translations.Translatable.
func (e *Entity) SetTranslatedField(name, value string) {
	if e.Translated == nil {
		e.Translated = make(map[string]string)
	}
	e.Translated[name] = value
}

// View flattens the entity into its public shape: attributes and translated
// fields side by side with the record identifiers.
func (e *Entity) View() map[string]any {
	if e == nil {
		return nil
	}
	out := make(map[string]any, len(e.Attributes)+len(e.Translated)+4)
	maps.Copy(out, e.Attributes)
	for name, value := range e.Translated {
		out[name] = value
	}
	out["id"] = e.ID
	out["kind"] = e.Kind
	out["created_at"] = e.CreatedAt
	out["updated_at"] = e.UpdatedAt
	return out
}

func cloneEntity(src *Entity) *Entity {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Attributes = maps.Clone(src.Attributes)
	copied.Translated = maps.Clone(src.Translated)
	if src.Translations != nil {
		copied.Translations = make([]*translations.Translation, len(src.Translations))
		for i, tr := range src.Translations {
			copied.Translations[i] = tr.Clone()
		}
	}
	return &copied
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
