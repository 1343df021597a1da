package entities

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	"github.com/goliatone/go-translatable/internal/identity"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Service exposes translatable entity use-cases.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Entity, error)
	Update(ctx context.Context, req UpdateRequest) (*Entity, error)
	Delete(ctx context.Context, req DeleteRequest) error
	Get(ctx context.Context, req GetRequest) (*Entity, error)
	List(ctx context.Context, req ListRequest) ([]*Entity, error)
	Definitions() *Registry
}

// TranslationInput carries the translated fields for one locale. Either
// LocaleID or Locale (a code such as "de-ch") identifies the locale.
type TranslationInput struct {
	LocaleID uuid.UUID         `json:"locale_id"`
	Locale   string            `json:"locale,omitempty"`
	Fields   map[string]string `json:"fields"`
}

// CreateRequest captures the information required to create an entity.
type CreateRequest struct {
	Kind         string
	ID           uuid.UUID
	Attributes   map[string]any
	Translations []TranslationInput
	Preferences  []acceptlang.LanguageRange
}

// UpdateRequest merges attributes into an entity and upserts translations.
type UpdateRequest struct {
	Kind         string
	ID           uuid.UUID
	Attributes   map[string]any
	Translations []TranslationInput
	Preferences  []acceptlang.LanguageRange
}

// DeleteRequest removes an entity and its translations.
type DeleteRequest struct {
	Kind string
	ID   uuid.UUID
}

// GetRequest fetches one entity translated for Preferences.
type GetRequest struct {
	Kind        string
	ID          uuid.UUID
	Preferences []acceptlang.LanguageRange
}

// ListRequest fetches every entity of a kind translated for Preferences.
type ListRequest struct {
	Kind        string
	Preferences []acceptlang.LanguageRange
}

// LocaleCatalog supplies the catalog snapshot used for resolution.
type LocaleCatalog interface {
	Snapshot(ctx context.Context) (locales.Catalog, error)
}

// StaticCatalog adapts a fixed catalog to LocaleCatalog.
type StaticCatalog locales.Catalog

func (c StaticCatalog) Snapshot(context.Context) (locales.Catalog, error) {
	return locales.Catalog(c), nil
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDefaultPreference sets the range appended to every preference list.
func WithDefaultPreference(def acceptlang.LanguageRange) ServiceOption {
	return func(s *service) {
		s.defaultRange = def
	}
}

// WithLogger injects the logger used for resolution and rejection entries.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrictAttributes toggles removal of translated field names from the
// base attributes on write. Enabled by default.
func WithStrictAttributes(strict bool) ServiceOption {
	return func(s *service) {
		s.strict = strict
	}
}

// WithTransactor runs every write of a request through t.
func WithTransactor(t Transactor) ServiceOption {
	return func(s *service) {
		if t != nil {
			s.tx = t
		}
	}
}

// service implements Service.
type service struct {
	entities     EntityRepository
	translations TranslationRepository
	tx           Transactor
	catalog      LocaleCatalog
	definitions  *Registry
	defaultRange acceptlang.LanguageRange
	now          func() time.Time
	id           IDGenerator
	logger       interfaces.Logger
	strict       bool
}

// NewService constructs the entity service.
func NewService(entities EntityRepository, translationRepo TranslationRepository, catalog LocaleCatalog, definitions *Registry, opts ...ServiceOption) Service {
	if definitions == nil {
		definitions, _ = NewRegistry()
	}
	s := &service{
		entities:     entities,
		translations: translationRepo,
		catalog:      catalog,
		definitions:  definitions,
		defaultRange: acceptlang.LanguageRange{Language: "en", Priority: 0.001},
		now:          time.Now,
		id:           uuid.New,
		logger:       logging.NoOp(),
		strict:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = directTransactor{entities: s.entities, translations: s.translations}
	}
	return s
}

func (s *service) Definitions() *Registry {
	return s.definitions
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Entity, error) {
	def, err := s.definitions.Lookup(req.Kind)
	if err != nil {
		return nil, err
	}
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entityID := req.ID
	if entityID == uuid.Nil {
		entityID = s.id()
	}
	logger := logging.WithEntityContext(logging.ForContext(s.logger, ctx), def.Kind, entityID.String(), "create")

	pending, err := s.buildTranslations(entityID, req.Translations, catalog)
	if err != nil {
		return nil, err
	}
	if err := s.guard(logger, pending); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Entity{
		ID:         entityID,
		Kind:       def.Kind,
		Attributes: s.prepareAttributes(def, req.Attributes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var created *Entity
	err = s.tx.WithinTx(ctx, func(ctx context.Context, entityRepo EntityRepository, translationRepo TranslationRepository) error {
		var err error
		created, err = entityRepo.Create(ctx, record)
		if err != nil {
			return err
		}
		for _, tr := range pending {
			tr.CreatedAt = now
			tr.UpdatedAt = now
		}
		stored, err := translationRepo.CreateMany(ctx, pending)
		if err != nil {
			return err
		}
		sortTranslations(stored)
		created.Translations = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("entities.created", "translations", len(created.Translations))

	s.apply(logger, created, def, catalog, req.Preferences)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Entity, error) {
	def, err := s.definitions.Lookup(req.Kind)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, def, req.ID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	logger := logging.WithEntityContext(logging.ForContext(s.logger, ctx), def.Kind, existing.ID.String(), "update")

	pending, err := s.buildTranslations(existing.ID, req.Translations, catalog)
	if err != nil {
		return nil, err
	}
	if err := s.guard(logger, pending); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if req.Attributes != nil {
		merged := maps.Clone(existing.Attributes)
		if merged == nil {
			merged = make(map[string]any, len(req.Attributes))
		}
		maps.Copy(merged, s.prepareAttributes(def, req.Attributes))
		existing.Attributes = merged
	}
	existing.UpdatedAt = now
	var updated *Entity
	err = s.tx.WithinTx(ctx, func(ctx context.Context, entityRepo EntityRepository, translationRepo TranslationRepository) error {
		var err error
		updated, err = entityRepo.Update(ctx, existing)
		if err != nil {
			return err
		}
		for _, tr := range pending {
			tr.CreatedAt = now
			tr.UpdatedAt = now
			if _, err := translationRepo.Upsert(ctx, tr); err != nil {
				return err
			}
		}
		current, err := translationRepo.ListByEntity(ctx, updated.ID)
		if err != nil {
			return err
		}
		updated.Translations = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("entities.updated", "translations_upserted", len(pending))

	s.apply(logger, updated, def, catalog, req.Preferences)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, req DeleteRequest) error {
	def, err := s.definitions.Lookup(req.Kind)
	if err != nil {
		return err
	}
	existing, err := s.load(ctx, def, req.ID)
	if err != nil {
		return err
	}

	removed := 0
	err = s.tx.WithinTx(ctx, func(ctx context.Context, entityRepo EntityRepository, translationRepo TranslationRepository) error {
		var err error
		removed, err = translationRepo.DeleteByEntity(ctx, existing.ID)
		if err != nil {
			return err
		}
		return entityRepo.Delete(ctx, existing.ID)
	})
	if err != nil {
		return err
	}
	logging.WithEntityContext(logging.ForContext(s.logger, ctx), def.Kind, existing.ID.String(), "delete").
		Debug("entities.deleted", "translations_removed", removed)
	return nil
}

func (s *service) Get(ctx context.Context, req GetRequest) (*Entity, error) {
	def, err := s.definitions.Lookup(req.Kind)
	if err != nil {
		return nil, err
	}
	record, err := s.load(ctx, def, req.ID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.translations.ListByEntity(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Translations = candidates

	logger := logging.WithEntityContext(logging.ForContext(s.logger, ctx), def.Kind, record.ID.String(), "get")
	s.apply(logger, record, def, catalog, req.Preferences)
	return record, nil
}

func (s *service) List(ctx context.Context, req ListRequest) ([]*Entity, error) {
	def, err := s.definitions.Lookup(req.Kind)
	if err != nil {
		return nil, err
	}
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.entities.ListByKind(ctx, def.Kind)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	rows, err := s.translations.ListByEntities(ctx, ids)
	if err != nil {
		return nil, err
	}
	byEntity := make(map[uuid.UUID][]*translations.Translation, len(records))
	for _, row := range rows {
		byEntity[row.EntityID] = append(byEntity[row.EntityID], row)
	}
	for _, record := range records {
		record.Translations = byEntity[record.ID]
	}

	chain := acceptlang.WithDefault(req.Preferences, s.defaultRange)
	logger := logging.WithEntityContext(logging.ForContext(s.logger, ctx), def.Kind, "", "list")
	translations.ApplyToMany(records, s.resolver(logger, catalog, chain), def.TranslatedFields)
	return records, nil
}

func (s *service) load(ctx context.Context, def Definition, id uuid.UUID) (*Entity, error) {
	if id == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	record, err := s.entities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Kind != def.Kind {
		return nil, &NotFoundError{Resource: def.Kind, Key: id.String()}
	}
	return record, nil
}

func (s *service) snapshot(ctx context.Context) (locales.Catalog, error) {
	if s.catalog == nil {
		return locales.Catalog{}, ErrCatalogRequired
	}
	return s.catalog.Snapshot(ctx)
}

// buildTranslations turns inputs into translation rows owned by entityID,
// resolving locale codes through the catalog.
func (s *service) buildTranslations(entityID uuid.UUID, inputs []TranslationInput, catalog locales.Catalog) ([]*translations.Translation, error) {
	out := make([]*translations.Translation, 0, len(inputs))
	for _, input := range inputs {
		localeID, err := resolveLocaleID(input, catalog)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(input.Fields))
		maps.Copy(fields, input.Fields)
		out = append(out, &translations.Translation{
			ID:       identity.TranslationUUID(entityID, localeID),
			EntityID: entityID,
			LocaleID: localeID,
			Fields:   fields,
		})
	}
	return out, nil
}

func resolveLocaleID(input TranslationInput, catalog locales.Catalog) (uuid.UUID, error) {
	if input.LocaleID != uuid.Nil {
		if _, ok := catalog.ByID(input.LocaleID); !ok {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownLocale, input.LocaleID)
		}
		return input.LocaleID, nil
	}
	code := locales.NormalizeCode(input.Locale)
	if code == "" {
		return uuid.Nil, ErrTranslationLocaleRequired
	}
	for _, locale := range catalog.All() {
		if locale.Code == code {
			return locale.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownLocale, code)
}

func (s *service) guard(logger interfaces.Logger, pending []*translations.Translation) error {
	if err := translations.CheckForDuplicateLocales(pending); err != nil {
		var dup *translations.DuplicateLocaleError
		if errors.As(err, &dup) {
			logger.Warn("entities.duplicate_locale", "locale_id", dup.LocaleID)
		}
		return err
	}
	return nil
}

// prepareAttributes copies attrs, dropping translated field names when the
// service runs in strict mode.
func (s *service) prepareAttributes(def Definition, attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		if s.strict && def.Translates(key) {
			continue
		}
		out[key] = value
	}
	return out
}

func (s *service) apply(logger interfaces.Logger, record *Entity, def Definition, catalog locales.Catalog, preferences []acceptlang.LanguageRange) {
	chain := acceptlang.WithDefault(preferences, s.defaultRange)
	translations.ApplyToOne(record, s.resolver(logger, catalog, chain), def.TranslatedFields)
}

// resolver returns a ResolveFunc over the candidates already attached to
// each entity. It records the resolution metadata on the entity.
func (s *service) resolver(logger interfaces.Logger, catalog locales.Catalog, chain []acceptlang.LanguageRange) translations.ResolveFunc {
	return func(target translations.Translatable) *translations.Translation {
		record, ok := target.(*Entity)
		if !ok {
			return nil
		}
		res := translations.ResolveDetailed(translations.ResolveInput{
			Translations: record.Translations,
			Preferences:  chain,
			Locales:      catalog,
		})
		meta := res.Meta()
		record.TranslationMeta = &meta

		localeID, matched := "", ""
		if res.Found {
			localeID = res.Locale.ID.String()
			matched = res.Range.String()
		}
		logger.Debug("entities.resolve",
			"entity_id", record.ID,
			"locale_id", localeID,
			"range", matched,
			"fallback_used", res.FallbackUsed(),
		)
		return res.Translation
	}
}
