package locales

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists locales with Bun, optionally behind a read cache.
type BunRepository struct {
	repo        repository.Repository[*Locale]
	now         func() time.Time
	broadcaster *changeBroadcaster
}

// NewBunRepository creates a locale repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a locale repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewLocaleRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{
		repo:        base,
		now:         time.Now,
		broadcaster: newChangeBroadcaster(),
	}
}

func (r *BunRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.code ASC").Limit(0)
	}))
	if err != nil {
		return nil, fmt.Errorf("locale repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Locale, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "locale", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrLocaleCodeRequired
	}
	record, err := r.repo.GetByIdentifier(ctx, normalized)
	if err != nil {
		return nil, mapRepositoryError(err, "locale", normalized)
	}
	return record, nil
}

func (r *BunRepository) Upsert(ctx context.Context, locale *Locale) (*Locale, error) {
	if locale == nil || locale.ID == uuid.Nil {
		return nil, ErrLocaleIDRequired
	}
	record := normalizeLocale(*locale)
	if record.Code == "" {
		return nil, ErrLocaleCodeRequired
	}

	now := r.now().UTC()
	record.UpdatedAt = now

	_, err := r.GetByID(ctx, record.ID)
	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		record.CreatedAt = now
		created, createErr := r.repo.Create(ctx, &record)
		if createErr != nil {
			return nil, fmt.Errorf("locale repository error: %w", createErr)
		}
		r.broadcaster.Broadcast(newChangeEvent(ChangeCreated, created))
		return created, nil
	case err != nil:
		return nil, err
	}

	updated, err := r.repo.Update(ctx, &record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"code",
			"language_code",
			"country_code",
			"is_default_for_language",
			"display_name",
			"updated_at",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("locale repository error: %w", err)
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeUpdated, updated))
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Locale{ID: id}); err != nil {
		return fmt.Errorf("locale repository error: %w", err)
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, existing))
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
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
