package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestLocaleUUIDIsStableAndCaseInsensitive(t *testing.T) {
	first := LocaleUUID("de-CH")
	second := LocaleUUID(" de-ch ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil locale id")
	}
	if first != second {
		t.Fatalf("expected identical ids, got %s and %s", first, second)
	}
	if first == LocaleUUID("de-de") {
		t.Fatalf("expected distinct ids for distinct codes")
	}
}

func TestTranslationUUIDDependsOnBothKeys(t *testing.T) {
	entity := uuid.New()
	de := LocaleUUID("de-ch")
	en := LocaleUUID("en-gb")

	if TranslationUUID(entity, de) != TranslationUUID(entity, de) {
		t.Fatalf("expected stable translation id")
	}
	if TranslationUUID(entity, de) == TranslationUUID(entity, en) {
		t.Fatalf("expected translation id to change with locale")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("  "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}
