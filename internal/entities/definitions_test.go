package entities

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryNormalizesKindsAndFields(t *testing.T) {
	registry, err := NewRegistry(Definition{Kind: "Article", TranslatedFields: []string{" name ", "name", "", "summary"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	def, err := registry.Lookup("ARTICLE")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if def.Kind != "article" {
		t.Fatalf("expected normalized kind, got %q", def.Kind)
	}
	if !reflect.DeepEqual(def.TranslatedFields, []string{"name", "summary"}) {
		t.Fatalf("unexpected fields %v", def.TranslatedFields)
	}
	if !def.Translates("summary") || def.Translates("slug") {
		t.Fatalf("unexpected Translates result for %+v", def)
	}

	def.TranslatedFields[0] = "mutated"
	again, _ := registry.Lookup("article")
	if again.TranslatedFields[0] != "name" {
		t.Fatalf("lookup result shares state with registry")
	}
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if err := registry.Register(Definition{Kind: "", TranslatedFields: []string{"name"}}); !errors.Is(err, ErrKindRequired) {
		t.Fatalf("expected ErrKindRequired, got %v", err)
	}
	if err := registry.Register(Definition{Kind: "article"}); !errors.Is(err, ErrTranslatedFieldsRequired) {
		t.Fatalf("expected ErrTranslatedFieldsRequired, got %v", err)
	}
	if err := registry.Register(Definition{Kind: "article", TranslatedFields: []string{"name"}}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := registry.Register(Definition{Kind: "Article", TranslatedFields: []string{"title"}}); !errors.Is(err, ErrDefinitionExists) {
		t.Fatalf("expected ErrDefinitionExists, got %v", err)
	}
	if _, err := registry.Lookup("missing"); !errors.Is(err, ErrDefinitionMissing) {
		t.Fatalf("expected ErrDefinitionMissing, got %v", err)
	}
	if got := registry.Kinds(); !reflect.DeepEqual(got, []string{"article"}) {
		t.Fatalf("unexpected kinds %v", got)
	}
}
