package translatable

import (
	"context"
	"net/http"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	entitiescmd "github.com/goliatone/go-translatable/internal/commands/entities"
	"github.com/goliatone/go-translatable/internal/di"
	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// LanguageRange is one parsed Accept-Language preference.
type LanguageRange = acceptlang.LanguageRange

// Locale is a configured language/country pair.
type Locale = locales.Locale

// Translation is one per-locale set of translated fields.
type Translation = translations.Translation

// DuplicateLocaleError reports a write carrying two translations for one locale.
type DuplicateLocaleError = translations.DuplicateLocaleError

// Definition names the translated fields of an entity kind.
type Definition = entities.Definition

// Entity is a translatable record.
type Entity = entities.Entity

// EntityService exports the entity service contract.
type EntityService = entities.Service

// TranslationInput carries translated fields for one locale on writes.
type TranslationInput = entities.TranslationInput

type (
	CreateRequest = entities.CreateRequest
	UpdateRequest = entities.UpdateRequest
	DeleteRequest = entities.DeleteRequest
	GetRequest    = entities.GetRequest
	ListRequest   = entities.ListRequest
)

// CommandHandlers groups the create, update and delete command handlers.
type CommandHandlers = entitiescmd.Handlers

// TranslationMeta describes how a record was resolved.
type TranslationMeta = interfaces.TranslationMeta

// Option customises the module container.
type Option = di.Option

var (
	WithDefinitions       = di.WithDefinitions
	WithBunDB             = di.WithBunDB
	WithSQLDB             = di.WithSQLDB
	WithCache             = di.WithCache
	WithLoggerProvider    = di.WithLoggerProvider
	WithLocaleFixture     = di.WithLocaleFixture
	WithLocaleRepository  = di.WithLocaleRepository
	WithEntityService     = di.WithEntityService
	ErrDuplicateLocale    = translations.ErrDuplicateLocale
	ErrDefinitionMissing  = entities.ErrDefinitionMissing
	ErrUnknownLocale      = entities.ErrUnknownLocale
	ParseAcceptLanguage   = acceptlang.ParseRFCPrioritizedHeader
	WithDefaultPreference = acceptlang.WithDefault
)

// Module represents the top level translatable runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Entities returns the configured entity service.
func (m *Module) Entities() EntityService {
	return m.container.EntityService()
}

// Commands returns the entity command handlers.
func (m *Module) Commands() CommandHandlers {
	return m.container.CommandHandlers()
}

// SubscribeCommands registers the command handlers with the go-command
// dispatcher. Call the returned function to unsubscribe.
func (m *Module) SubscribeCommands() func() {
	return m.container.CommandHandlers().Subscribe()
}

// Register mounts the HTTP API on mux under the configured base path.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.container.Register(mux)
}

// Locales returns the current locale catalog records.
func (m *Module) Locales(ctx context.Context) ([]Locale, error) {
	catalog, err := m.container.Catalog().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.All(), nil
}

// RegisterDefinition adds translated field names for a kind after construction.
func (m *Module) RegisterDefinition(def Definition) error {
	return m.container.Definitions().Register(def)
}

// Close releases resources owned by the module.
func (m *Module) Close(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close(ctx)
}
