package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by domain so different record kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LocaleUUID returns the stable identifier for a locale code such as "de-ch".
func LocaleUUID(localeCode string) uuid.UUID {
	return UUID("go-translatable:locale:" + strings.ToLower(strings.TrimSpace(localeCode)))
}

// TranslationUUID returns the stable identifier for the translation of an
// entity in a locale. Upserts rely on it to address the same row twice.
func TranslationUUID(entityID, localeID uuid.UUID) uuid.UUID {
	return UUID("go-translatable:translation:" + entityID.String() + ":" + localeID.String())
}
