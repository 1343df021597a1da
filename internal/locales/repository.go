package locales

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists locales and notifies subscribers about changes.
type Repository interface {
	List(ctx context.Context) ([]*Locale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Locale, error)
	GetByCode(ctx context.Context, code string) (*Locale, error)
	Upsert(ctx context.Context, locale *Locale) (*Locale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// NewLocaleRepository builds the generic go-repository-bun repository for locales.
func NewLocaleRepository(db *bun.DB) repository.Repository[*Locale] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Locale]{
		NewRecord: func() *Locale { return &Locale{} },
		GetID: func(l *Locale) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Locale, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *Locale) string {
			return l.Code
		},
	})
}
