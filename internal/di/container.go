package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	entitiescmd "github.com/goliatone/go-translatable/internal/commands/entities"
	"github.com/goliatone/go-translatable/internal/entities"
	translatablehttp "github.com/goliatone/go-translatable/internal/http"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/logging/console"
	"github.com/goliatone/go-translatable/internal/logging/gologger"
	"github.com/goliatone/go-translatable/internal/runtimeconfig"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// ErrSQLDBRequired indicates the postgres driver was selected without a connection.
var ErrSQLDBRequired = errors.New("di: postgres storage requires a *sql.DB (use WithSQLDB or WithBunDB)")

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB   *bun.DB
	sqlDB   *sql.DB
	ownsDB  bool
	fixture *locales.Fixture

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	localeRepo      locales.Repository
	entityRepo      entities.EntityRepository
	translationRepo entities.TranslationRepository
	transactor      entities.Transactor

	catalog     *locales.CatalogCache
	definitions []entities.Definition
	registry    *entities.Registry

	entitySvc   entities.Service
	commands    entitiescmd.Handlers
	entitiesAPI *translatablehttp.EntitiesAPI

	closeOnce   sync.Once
	watchCancel context.CancelFunc
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBunDB binds an existing Bun database; the container never closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB binds a database/sql connection; the dialect follows Storage.Driver.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithDefinitions registers translated field definitions for entity kinds.
func WithDefinitions(defs ...entities.Definition) Option {
	return func(c *Container) {
		c.definitions = append(c.definitions, defs...)
	}
}

// WithLocaleFixture overrides the fixture used to seed locales.
func WithLocaleFixture(fixture *locales.Fixture) Option {
	return func(c *Container) {
		c.fixture = fixture
	}
}

// WithLocaleRepository overrides the locale repository binding.
func WithLocaleRepository(repo locales.Repository) Option {
	return func(c *Container) {
		c.localeRepo = repo
	}
}

// WithEntityService overrides the default entity service binding.
func WithEntityService(svc entities.Service) Option {
	return func(c *Container) {
		c.entitySvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "translatable")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	if err := c.seedLocales(ctx); err != nil {
		c.Close(context.Background())
		return nil, err
	}
	if err := c.configureCatalog(); err != nil {
		c.Close(context.Background())
		return nil, err
	}

	registry, err := entities.NewRegistry(c.definitions...)
	if err != nil {
		c.Close(context.Background())
		return nil, err
	}
	c.registry = registry

	if c.entitySvc == nil {
		c.entitySvc = entities.NewService(
			c.entityRepo,
			c.translationRepo,
			c.catalog,
			c.registry,
			entities.WithDefaultPreference(cfg.DefaultPreference.Range()),
			entities.WithLogger(logging.EntitiesLogger(c.loggerProvider)),
			entities.WithTransactor(c.transactor),
		)
	}
	if defs := c.entitySvc.Definitions(); defs != nil {
		c.registry = defs
	}
	c.commands = entitiescmd.NewHandlers(c.entitySvc, c.loggerProvider)
	c.entitiesAPI = translatablehttp.NewEntitiesAPI(
		c.entitySvc,
		translatablehttp.WithBasePath(cfg.HTTP.BasePath),
		translatablehttp.WithCommandHandlers(c.commands),
		translatablehttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)

	c.logger.Info("translatable.container.ready",
		"storage", c.storageName(),
		"definitions", len(c.registry.Kinds()),
		"default_preference", cfg.DefaultPreference.Range().String(),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil && c.sqlDB == nil && !c.usesBun() {
		return nil
	}

	if c.bunDB == nil {
		driver := normalizeDriver(c.Config.Storage.Driver)
		if c.sqlDB == nil {
			if driver == "postgres" {
				return ErrSQLDBRequired
			}
			dsn := strings.TrimSpace(c.Config.Storage.DSN)
			if dsn == "" {
				dsn = fmt.Sprintf("file:translatable_%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
			}
			sqlDB, err := sql.Open("sqlite3", dsn)
			if err != nil {
				return fmt.Errorf("di: open sqlite: %w", err)
			}
			c.sqlDB = sqlDB
			c.ownsDB = true
		}
		c.bunDB = bun.NewDB(c.sqlDB, dialectFor(driver))
		if driver == "sqlite" {
			c.bunDB.SetMaxOpenConns(1)
		}
	}

	if err := CreateSchema(ctx, c.bunDB); err != nil {
		c.Close(context.Background())
		return err
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || !c.Config.Features.RepositoryCache {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("translatable.cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.localeRepo == nil {
			c.localeRepo = locales.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		entityRepo := entities.NewBunEntityRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		translationRepo := entities.NewBunTranslationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.entityRepo = entityRepo
		c.translationRepo = translationRepo
		c.transactor = entities.NewBunTransactor(c.bunDB, entityRepo, translationRepo)
		return
	}

	if c.localeRepo == nil {
		c.localeRepo = locales.NewMemoryRepository()
	}
	c.entityRepo = entities.NewMemoryEntityRepository()
	c.translationRepo = entities.NewMemoryTranslationRepository()
}

func (c *Container) seedLocales(ctx context.Context) error {
	if !c.Config.Locales.Seed {
		return nil
	}

	fixture := c.fixture
	if fixture == nil {
		var err error
		if path := strings.TrimSpace(c.Config.Locales.Fixture); path != "" {
			fixture, err = locales.NewLoader(path).Load(ctx)
		} else {
			fixture, err = locales.DefaultFixture()
		}
		if err != nil {
			return err
		}
	}

	count, err := locales.Seed(ctx, c.localeRepo, fixture)
	if err != nil {
		return err
	}
	logging.LocalesLogger(c.loggerProvider).Debug("locales.seeded", "count", count)
	return nil
}

func (c *Container) configureCatalog() error {
	c.catalog = locales.NewCatalogCache(c.localeRepo, locales.WithCacheLogger(logging.LocalesLogger(c.loggerProvider)))
	if !c.Config.Features.WatchLocales {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.catalog.Watch(ctx, c.localeRepo); err != nil {
		cancel()
		return err
	}
	c.watchCancel = cancel
	return nil
}

// Close stops the locale watcher and closes connections the container opened.
func (c *Container) Close(context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		if c.watchCancel != nil {
			c.watchCancel()
		}
		if c.ownsDB {
			if c.bunDB != nil {
				err = c.bunDB.Close()
			} else if c.sqlDB != nil {
				err = c.sqlDB.Close()
			}
		}
	})
	return err
}

// Register mounts the HTTP adapter on mux.
func (c *Container) Register(mux *http.ServeMux) error {
	return c.entitiesAPI.Register(mux)
}

// LoggerProvider exposes the configured logger provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the Bun database, nil with memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// LocaleRepository exposes the configured locale repository.
func (c *Container) LocaleRepository() locales.Repository {
	return c.localeRepo
}

// Catalog exposes the locale catalog cache.
func (c *Container) Catalog() *locales.CatalogCache {
	return c.catalog
}

// Definitions exposes the translated field registry.
func (c *Container) Definitions() *entities.Registry {
	return c.registry
}

// EntityService returns the configured entity service.
func (c *Container) EntityService() entities.Service {
	return c.entitySvc
}

// CommandHandlers returns the entity command handlers.
func (c *Container) CommandHandlers() entitiescmd.Handlers {
	return c.commands
}

// EntitiesAPI returns the HTTP adapter.
func (c *Container) EntitiesAPI() *translatablehttp.EntitiesAPI {
	return c.entitiesAPI
}

func (c *Container) usesBun() bool {
	return strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun")
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return "memory"
	}
	return "bun/" + c.bunDB.Dialect().Name().String()
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	default:
		return "sqlite"
	}
}

func dialectFor(driver string) schema.Dialect {
	if driver == "postgres" {
		return pgdialect.New()
	}
	return sqlitedialect.New()
}
