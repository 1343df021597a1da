package translations

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrDuplicateLocale indicates a write payload carries two translations for
// the same locale.
var ErrDuplicateLocale = errors.New("translations: duplicate locale in payload")

// TextCodeDuplicateLocale is the text code attached to validation errors
// derived from DuplicateLocaleError.
const TextCodeDuplicateLocale = "TRANSLATION_DUPLICATE_LOCALE"

// DuplicateLocaleError reports the first translation that repeats a locale.
type DuplicateLocaleError struct {
	LocaleID    uuid.UUID
	Translation *Translation
}

func (e *DuplicateLocaleError) Error() string {
	return fmt.Sprintf("translations: locale %s appears more than once", e.LocaleID)
}

func (e *DuplicateLocaleError) Unwrap() error {
	return ErrDuplicateLocale
}

// ValidationError converts the error into a go-errors validation error so
// transports can map it to a client error.
func (e *DuplicateLocaleError) ValidationError() *goerrors.Error {
	return goerrors.Wrap(e, goerrors.CategoryValidation, "duplicate translation locale").
		WithTextCode(TextCodeDuplicateLocale).
		WithMetadata(map[string]any{"locale_id": e.LocaleID.String()})
}

// CheckForDuplicateLocales scans translations in order and fails on the first
// one whose locale was already seen.
func CheckForDuplicateLocales(translations []*Translation) error {
	seen := make(map[uuid.UUID]struct{}, len(translations))
	for _, translation := range translations {
		if translation == nil {
			continue
		}
		if _, ok := seen[translation.LocaleID]; ok {
			return &DuplicateLocaleError{
				LocaleID:    translation.LocaleID,
				Translation: translation,
			}
		}
		seen[translation.LocaleID] = struct{}{}
	}
	return nil
}
