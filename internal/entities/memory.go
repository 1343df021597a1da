package entities

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/translations"
)

// NewMemoryEntityRepository constructs an in-memory entity repository.
func NewMemoryEntityRepository() *MemoryEntityRepository {
	return &MemoryEntityRepository{byID: make(map[uuid.UUID]*Entity)}
}

// MemoryEntityRepository stores entities in memory, mainly for tests and
// the memory storage provider.
type MemoryEntityRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Entity
}

func (m *MemoryEntityRepository) Create(_ context.Context, record *Entity) (*Entity, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := storedEntity(record)
	m.byID[stored.ID] = stored
	return cloneEntity(stored), nil
}

func (m *MemoryEntityRepository) GetByID(_ context.Context, id uuid.UUID) (*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "entity", Key: id.String()}
	}
	return cloneEntity(record), nil
}

func (m *MemoryEntityRepository) ListByKind(_ context.Context, kind string) ([]*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entity, 0, len(m.byID))
	for _, record := range m.byID {
		if record.Kind == kind {
			out = append(out, cloneEntity(record))
		}
	}
	slices.SortFunc(out, func(a, b *Entity) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (m *MemoryEntityRepository) Update(_ context.Context, record *Entity) (*Entity, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "entity", Key: record.ID.String()}
	}
	stored := storedEntity(record)
	m.byID[stored.ID] = stored
	return cloneEntity(stored), nil
}

func (m *MemoryEntityRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "entity", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

// storedEntity drops the transient parts of a record before it is stored.
func storedEntity(record *Entity) *Entity {
	stored := cloneEntity(record)
	stored.Translated = nil
	stored.Translations = nil
	stored.TranslationMeta = nil
	return stored
}

// NewMemoryTranslationRepository constructs an in-memory translation repository.
func NewMemoryTranslationRepository() *MemoryTranslationRepository {
	return &MemoryTranslationRepository{byID: make(map[uuid.UUID]*translations.Translation)}
}

// MemoryTranslationRepository stores translation rows in memory.
type MemoryTranslationRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*translations.Translation
}

func (m *MemoryTranslationRepository) CreateMany(_ context.Context, records []*translations.Translation) ([]*translations.Translation, error) {
	for _, record := range records {
		if record != nil && (record.ID == uuid.Nil || record.EntityID == uuid.Nil) {
			return nil, ErrEntityIDRequired
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*translations.Translation, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		stored := record.Clone()
		m.byID[stored.ID] = stored
		out = append(out, stored.Clone())
	}
	return out, nil
}

func (m *MemoryTranslationRepository) Upsert(_ context.Context, record *translations.Translation) (*translations.Translation, error) {
	if record == nil || record.ID == uuid.Nil || record.EntityID == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := record.Clone()
	if existing, ok := m.byID[stored.ID]; ok && !existing.CreatedAt.IsZero() {
		stored.CreatedAt = existing.CreatedAt
	}
	m.byID[stored.ID] = stored
	return stored.Clone(), nil
}

func (m *MemoryTranslationRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*translations.Translation, error) {
	return m.ListByEntities(ctx, []uuid.UUID{entityID})
}

func (m *MemoryTranslationRepository) ListByEntities(_ context.Context, entityIDs []uuid.UUID) ([]*translations.Translation, error) {
	wanted := make(map[uuid.UUID]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		wanted[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*translations.Translation, 0)
	for _, record := range m.byID {
		if _, ok := wanted[record.EntityID]; ok {
			out = append(out, record.Clone())
		}
	}
	sortTranslations(out)
	return out, nil
}

func (m *MemoryTranslationRepository) DeleteByEntity(_ context.Context, entityID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, record := range m.byID {
		if record.EntityID == entityID {
			delete(m.byID, id)
			removed++
		}
	}
	return removed, nil
}

// sortTranslations orders rows by entity then locale id, matching the text
// ordering the SQL repositories apply to uuid columns.
func sortTranslations(records []*translations.Translation) {
	slices.SortFunc(records, func(a, b *translations.Translation) int {
		if c := strings.Compare(a.EntityID.String(), b.EntityID.String()); c != 0 {
			return c
		}
		return strings.Compare(a.LocaleID.String(), b.LocaleID.String())
	})
}
