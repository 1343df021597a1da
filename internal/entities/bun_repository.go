package entities

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/translations"
)

// BunEntityRepository stores entities with bun. Lookups by id go through the
// optional cache; scoped listings always hit the database because the cache
// keys a query processor by its code pointer, not by the values it captures.
type BunEntityRepository struct {
	db   *bun.DB
	tx   bun.IDB
	repo repository.Repository[*Entity]
}

func NewBunEntityRepository(db *bun.DB) *BunEntityRepository {
	return NewBunEntityRepositoryWithCache(db, nil, nil)
}

// NewBunEntityRepositoryWithCache constructs an EntityRepository backed by bun with optional caching.
func NewBunEntityRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunEntityRepository {
	return &BunEntityRepository{
		db:   db,
		repo: wrapWithCache(NewEntityRepository(db), cacheService, keySerializer),
	}
}

// WithTx returns a copy of the repository bound to tx.
func (r *BunEntityRepository) WithTx(tx bun.IDB) *BunEntityRepository {
	next := *r
	next.tx = tx
	return &next
}

func (r *BunEntityRepository) idb() bun.IDB {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *BunEntityRepository) Create(ctx context.Context, record *Entity) (*Entity, error) {
	created, err := r.repo.CreateTx(ctx, r.idb(), record)
	if err != nil {
		return nil, fmt.Errorf("entity repository error: %w", err)
	}
	return created, nil
}

func (r *BunEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entity, error) {
	var (
		result *Entity
		err    error
	)
	if r.tx != nil {
		result, err = r.repo.GetByIDTx(ctx, r.tx, id.String())
	} else {
		result, err = r.repo.GetByID(ctx, id.String())
	}
	if err != nil {
		return nil, mapRepositoryError(err, "entity", id.String())
	}
	return result, nil
}

func (r *BunEntityRepository) ListByKind(ctx context.Context, kind string) ([]*Entity, error) {
	records, _, err := r.repo.ListTx(ctx, r.idb(), repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.kind = ?", kind).
			OrderExpr("?TableAlias.created_at ASC").
			OrderExpr("?TableAlias.id ASC").
			Limit(0)
	}))
	if err != nil {
		return nil, fmt.Errorf("entity repository error: %w", err)
	}
	return records, nil
}

func (r *BunEntityRepository) Update(ctx context.Context, record *Entity) (*Entity, error) {
	updated, err := r.repo.UpdateTx(ctx, r.idb(), record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"attributes",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "entity", record.ID.String())
	}
	return updated, nil
}

func (r *BunEntityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.repo.DeleteTx(ctx, r.idb(), &Entity{ID: id}); err != nil {
		return fmt.Errorf("entity repository error: %w", err)
	}
	return nil
}

// BunTranslationRepository stores translation rows with bun. Listings by
// entity bypass the cache for the same reason as BunEntityRepository.ListByKind.
type BunTranslationRepository struct {
	db   *bun.DB
	tx   bun.IDB
	repo repository.Repository[*translations.Translation]
}

func NewBunTranslationRepository(db *bun.DB) *BunTranslationRepository {
	return NewBunTranslationRepositoryWithCache(db, nil, nil)
}

// NewBunTranslationRepositoryWithCache constructs a TranslationRepository backed by bun with optional caching.
func NewBunTranslationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTranslationRepository {
	return &BunTranslationRepository{
		db:   db,
		repo: wrapWithCache(NewTranslationRepository(db), cacheService, keySerializer),
	}
}

// WithTx returns a copy of the repository bound to tx.
func (r *BunTranslationRepository) WithTx(tx bun.IDB) *BunTranslationRepository {
	next := *r
	next.tx = tx
	return &next
}

func (r *BunTranslationRepository) idb() bun.IDB {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *BunTranslationRepository) CreateMany(ctx context.Context, records []*translations.Translation) ([]*translations.Translation, error) {
	toInsert := make([]*translations.Translation, 0, len(records))
	for _, record := range records {
		if record != nil {
			toInsert = append(toInsert, record.Clone())
		}
	}
	if len(toInsert) == 0 {
		return toInsert, nil
	}

	created, err := r.repo.CreateManyTx(ctx, r.idb(), toInsert)
	if err != nil {
		return nil, fmt.Errorf("insert entity translations: %w", err)
	}
	return created, nil
}

func (r *BunTranslationRepository) Upsert(ctx context.Context, record *translations.Translation) (*translations.Translation, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	existing, err := r.repo.GetByIDTx(ctx, r.idb(), record.ID.String())
	if err != nil {
		mapped := mapRepositoryError(err, "translation", record.ID.String())
		if _, ok := mapped.(*NotFoundError); !ok {
			return nil, mapped
		}
		created, createErr := r.repo.CreateTx(ctx, r.idb(), record.Clone())
		if createErr != nil {
			return nil, fmt.Errorf("translation repository error: %w", createErr)
		}
		return created, nil
	}

	next := record.Clone()
	next.CreatedAt = existing.CreatedAt
	updated, err := r.repo.UpdateTx(ctx, r.idb(), next,
		repository.UpdateByID(next.ID.String()),
		repository.UpdateColumns(
			"fields",
			"updated_at",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return updated, nil
}

func (r *BunTranslationRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*translations.Translation, error) {
	return r.ListByEntities(ctx, []uuid.UUID{entityID})
}

func (r *BunTranslationRepository) ListByEntities(ctx context.Context, entityIDs []uuid.UUID) ([]*translations.Translation, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	records, _, err := r.repo.ListTx(ctx, r.idb(), repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.entity_id IN (?)", bun.In(entityIDs)).
			OrderExpr("?TableAlias.entity_id ASC").
			OrderExpr("?TableAlias.locale_id ASC").
			Limit(0)
	}))
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return records, nil
}

func (r *BunTranslationRepository) DeleteByEntity(ctx context.Context, entityID uuid.UUID) (int, error) {
	count, err := r.repo.CountTx(ctx, r.idb(), repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.entity_id = ?", entityID)
	}))
	if err != nil {
		return 0, fmt.Errorf("count entity translations: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := r.repo.DeleteManyTx(ctx, r.idb(), repository.DeleteBy("entity_id", "=", entityID.String())); err != nil {
		return 0, fmt.Errorf("delete entity translations: %w", err)
	}
	return count, nil
}

// BunTransactor runs service writes in one bun transaction.
type BunTransactor struct {
	db           *bun.DB
	entities     *BunEntityRepository
	translations *BunTranslationRepository
}

// NewBunTransactor binds the repositories to transactions opened on db.
func NewBunTransactor(db *bun.DB, entityRepo *BunEntityRepository, translationRepo *BunTranslationRepository) *BunTransactor {
	return &BunTransactor{db: db, entities: entityRepo, translations: translationRepo}
}

func (t *BunTransactor) WithinTx(ctx context.Context, fn TxFunc) error {
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, t.entities.WithTx(tx), t.translations.WithTx(tx))
	})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
