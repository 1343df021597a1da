package translations

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Translation stores the translated field values of one entity in one locale.
type Translation struct {
	bun.BaseModel `bun:"table:entity_translations,alias:et"`

	ID        uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	EntityID  uuid.UUID         `bun:"entity_id,notnull,type:uuid" json:"entity_id"`
	LocaleID  uuid.UUID         `bun:"locale_id,notnull,type:uuid" json:"locale_id"`
	Fields    map[string]string `bun:"fields,type:jsonb,notnull" json:"fields"`
	CreatedAt time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Value returns the translated value for field, or "" when absent.
func (t *Translation) Value(field string) string {
	if t == nil || t.Fields == nil {
		return ""
	}
	return t.Fields[field]
}

// Clone returns a deep copy of the translation.
func (t *Translation) Clone() *Translation {
	if t == nil {
		return nil
	}
	copied := *t
	copied.Fields = maps.Clone(t.Fields)
	return &copied
}

// Translatable is implemented by records exposing translated fields.
type Translatable interface {
	TranslationOwnerID() uuid.UUID
	SetTranslatedField(name, value string)
}

// ResolveFunc returns the translation chosen for an entity, or nil.
type ResolveFunc func(entity Translatable) *Translation
