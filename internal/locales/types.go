package locales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrLocaleCodeRequired = errors.New("locales: locale code is required")
	ErrLocaleIDRequired   = errors.New("locales: locale id is required")
)

// Locale is a configured language/country pair. Codes are stored lower-case.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	ID                   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Code                 string    `bun:"code,notnull,unique" json:"code"`
	LanguageCode         string    `bun:"language_code,notnull" json:"language_code"`
	CountryCode          string    `bun:"country_code" json:"country_code"`
	IsDefaultForLanguage bool      `bun:"is_default_for_language,notnull,default:false" json:"is_default_for_language"`
	DisplayName          string    `bun:"display_name" json:"display_name,omitempty"`
	CreatedAt            time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NotFoundError represents missing locale lookups.
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

func cloneLocale(src *Locale) *Locale {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
