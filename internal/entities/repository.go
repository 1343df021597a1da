package entities

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/translations"
)

// EntityRepository abstracts storage of base records.
type EntityRepository interface {
	Create(ctx context.Context, record *Entity) (*Entity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entity, error)
	ListByKind(ctx context.Context, kind string) ([]*Entity, error)
	Update(ctx context.Context, record *Entity) (*Entity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TranslationRepository abstracts storage of translation rows. Listings are
// ordered by locale id ascending within an entity.
type TranslationRepository interface {
	CreateMany(ctx context.Context, records []*translations.Translation) ([]*translations.Translation, error)
	Upsert(ctx context.Context, record *translations.Translation) (*translations.Translation, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*translations.Translation, error)
	ListByEntities(ctx context.Context, entityIDs []uuid.UUID) ([]*translations.Translation, error)
	DeleteByEntity(ctx context.Context, entityID uuid.UUID) (int, error)
}

// TxFunc receives repositories that share one unit of work.
type TxFunc func(ctx context.Context, entities EntityRepository, translations TranslationRepository) error

// Transactor runs a TxFunc so that a failing call leaves no partial writes
// behind, when the storage supports it.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// directTransactor calls fn with the service repositories. The memory
// repositories have no rollback.
type directTransactor struct {
	entities     EntityRepository
	translations TranslationRepository
}

func (t directTransactor) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, t.entities, t.translations)
}

func NewEntityRepository(db *bun.DB) repository.Repository[*Entity] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entity]{
		NewRecord: func() *Entity { return &Entity{} },
		GetID: func(e *Entity) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entity, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(e *Entity) string {
			if e == nil {
				return ""
			}
			return e.ID.String()
		},
	})
}

func NewTranslationRepository(db *bun.DB) repository.Repository[*translations.Translation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*translations.Translation]{
		NewRecord: func() *translations.Translation { return &translations.Translation{} },
		GetID: func(t *translations.Translation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *translations.Translation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *translations.Translation) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}
