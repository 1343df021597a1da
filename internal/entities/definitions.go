package entities

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
)

// Definition declares which fields of an entity kind are translated.
type Definition struct {
	Kind             string   `json:"kind"`
	TranslatedFields []string `json:"translated_fields"`
}

// Translates reports whether field is one of the translated fields.
func (d Definition) Translates(field string) bool {
	return slices.Contains(d.TranslatedFields, field)
}

// NormalizeKind canonicalizes an entity kind so "Blog Post" and "blog-post"
// address the same definition.
func NormalizeKind(kind string) (string, error) {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "", ErrKindRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil {
		return "", fmt.Errorf("entities: normalize kind %q: %w", kind, err)
	}
	if normalized == "" {
		return "", ErrKindRequired
	}
	return normalized, nil
}

// Registry keeps the definitions known to the service.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry returns a registry preloaded with defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a definition. Field names are trimmed and de-duplicated.
func (r *Registry) Register(def Definition) error {
	kind, err := NormalizeKind(def.Kind)
	if err != nil {
		return err
	}
	fields := make([]string, 0, len(def.TranslatedFields))
	for _, field := range def.TranslatedFields {
		field = strings.TrimSpace(field)
		if field == "" || slices.Contains(fields, field) {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return ErrTranslatedFieldsRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDefinitionExists, kind)
	}
	r.definitions[kind] = Definition{Kind: kind, TranslatedFields: fields}
	return nil
}

// Lookup returns the definition registered for kind.
func (r *Registry) Lookup(kind string) (Definition, error) {
	normalized, err := NormalizeKind(kind)
	if err != nil {
		return Definition{}, err
	}
	r.mu.RLock()
	def, ok := r.definitions[normalized]
	r.mu.RUnlock()
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrDefinitionMissing, normalized)
	}
	def.TranslatedFields = slices.Clone(def.TranslatedFields)
	return def, nil
}

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.definitions))
	for kind := range r.definitions {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
