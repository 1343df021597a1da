package locales

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// ErrCatalogSourceRequired indicates a cache was built without a locale source.
var ErrCatalogSourceRequired = errors.New("locales: catalog source is required")

// Lister loads the locale records backing a catalog.
type Lister interface {
	List(ctx context.Context) ([]*Locale, error)
}

// Subscriber emits locale change events.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// CatalogCache keeps a catalog snapshot between requests. The snapshot is
// loaded on first use and stays valid until Invalidate is called, either by
// the owner directly or by a Watch loop reacting to repository changes.
type CatalogCache struct {
	source Lister
	logger interfaces.Logger

	mu       sync.RWMutex
	snapshot *Catalog
}

// CacheOption configures a CatalogCache.
type CacheOption func(*CatalogCache)

// WithCacheLogger injects the logger used for load and invalidation entries.
func WithCacheLogger(logger interfaces.Logger) CacheOption {
	return func(c *CatalogCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalogCache constructs an empty cache backed by source.
func NewCatalogCache(source Lister, opts ...CacheOption) *CatalogCache {
	c := &CatalogCache{
		source: source,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the cached catalog, loading it from the source when absent.
func (c *CatalogCache) Snapshot(ctx context.Context) (Catalog, error) {
	c.mu.RLock()
	if c.snapshot != nil {
		snapshot := *c.snapshot
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	if c.source == nil {
		return Catalog{}, ErrCatalogSourceRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return *c.snapshot, nil
	}

	records, err := c.source.List(ctx)
	if err != nil {
		return Catalog{}, err
	}
	catalog := NewCatalog(records)
	c.snapshot = &catalog
	c.logger.Debug("locales.catalog.loaded", "count", catalog.Len())
	return catalog, nil
}

// Loaded reports whether a snapshot is currently cached.
func (c *CatalogCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot != nil
}

// Invalidate drops the cached snapshot; the next Snapshot call reloads it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}

// Watch invalidates the cache on every change event emitted by events until
// ctx is cancelled. It returns once the subscription is established.
func (c *CatalogCache) Watch(ctx context.Context, events Subscriber) error {
	if events == nil {
		return ErrCatalogSourceRequired
	}
	ch, err := events.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for evt := range ch {
			c.Invalidate()
			c.logger.Debug("locales.catalog.invalidated", "change", string(evt.Type), "locale", evt.Locale.Code)
		}
	}()
	return nil
}
