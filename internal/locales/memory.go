package locales

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository stores locales in-memory for tests and scaffolding.
type MemoryRepository struct {
	mu          sync.RWMutex
	locales     map[uuid.UUID]*Locale
	codeIndex   map[string]uuid.UUID
	broadcaster *changeBroadcaster
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		locales:     make(map[uuid.UUID]*Locale),
		codeIndex:   make(map[string]uuid.UUID),
		broadcaster: newChangeBroadcaster(),
	}
}

// List returns all locales ordered by code.
func (m *MemoryRepository) List(context.Context) ([]*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Locale, 0, len(m.locales))
	for _, locale := range m.locales {
		out = append(out, cloneLocale(locale))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// GetByID fetches a locale by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locale, ok := m.locales[id]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: id.String()}
	}
	return cloneLocale(locale), nil
}

// GetByCode fetches a locale by code, ignoring case.
func (m *MemoryRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrLocaleCodeRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codeIndex[normalized]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: normalized}
	}
	return cloneLocale(m.locales[id]), nil
}

// Upsert inserts or replaces the locale and emits a change event.
func (m *MemoryRepository) Upsert(_ context.Context, locale *Locale) (*Locale, error) {
	if locale == nil || locale.ID == uuid.Nil {
		return nil, ErrLocaleIDRequired
	}
	normalized := normalizeLocale(*locale)
	if normalized.Code == "" {
		return nil, ErrLocaleCodeRequired
	}

	m.mu.Lock()
	previous, exists := m.locales[normalized.ID]
	if exists && previous.Code != normalized.Code {
		delete(m.codeIndex, previous.Code)
	}
	m.locales[normalized.ID] = cloneLocale(&normalized)
	m.codeIndex[normalized.Code] = normalized.ID
	m.mu.Unlock()

	changeType := ChangeCreated
	if exists {
		changeType = ChangeUpdated
	}
	m.broadcaster.Broadcast(newChangeEvent(changeType, &normalized))
	return cloneLocale(&normalized), nil
}

// Delete removes the locale and emits a change event.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	locale, ok := m.locales[id]
	if !ok {
		m.mu.Unlock()
		return &NotFoundError{Resource: "locale", Key: id.String()}
	}
	delete(m.locales, id)
	delete(m.codeIndex, locale.Code)
	m.mu.Unlock()

	m.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, locale))
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (m *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return m.broadcaster.Subscribe(ctx)
}
