package locales

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-translatable/internal/identity"
)

// Fixture is a serialised list of locales used to seed a catalog.
type Fixture struct {
	Locales []LocaleFixture `json:"locales"`
}

// LocaleFixture describes one locale. Language and Country default to the
// parts of Code when omitted.
type LocaleFixture struct {
	Code               string `json:"code"`
	Language           string `json:"language,omitempty"`
	Country            string `json:"country,omitempty"`
	DefaultForLanguage bool   `json:"default_for_language,omitempty"`
	DisplayName        string `json:"display_name,omitempty"`
}

//go:embed data/default_locales.json
var defaultFixtureData embed.FS

// DefaultFixture loads the built-in locale fixture.
func DefaultFixture() (*Fixture, error) {
	data, err := defaultFixtureData.ReadFile("data/default_locales.json")
	if err != nil {
		return nil, fmt.Errorf("locales: read embedded fixture: %w", err)
	}
	return decodeFixture(bytes.NewReader(data))
}

// Loader reads locale fixtures from disk.
type Loader struct {
	path string
}

// NewLoader constructs a loader that reads the provided file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the configured fixture file.
func (l *Loader) Load(ctx context.Context) (*Fixture, error) {
	if l == nil || strings.TrimSpace(l.path) == "" {
		return nil, errors.New("locales: loader path cannot be empty")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("locales: open fixture %q: %w", l.path, err)
	}
	defer file.Close()

	return decodeFixture(file)
}

// Records converts the fixture into locale records with deterministic IDs.
func (f *Fixture) Records() []*Locale {
	if f == nil {
		return nil
	}
	records := make([]*Locale, 0, len(f.Locales))
	for _, entry := range f.Locales {
		code := NormalizeCode(entry.Code)
		if code == "" {
			continue
		}
		language, country := SplitCode(code)
		if trimmed := strings.TrimSpace(entry.Language); trimmed != "" {
			language = strings.ToLower(trimmed)
		}
		if trimmed := strings.TrimSpace(entry.Country); trimmed != "" {
			country = strings.ToLower(trimmed)
		}
		records = append(records, &Locale{
			ID:                   identity.LocaleUUID(code),
			Code:                 code,
			LanguageCode:         language,
			CountryCode:          country,
			IsDefaultForLanguage: entry.DefaultForLanguage,
			DisplayName:          strings.TrimSpace(entry.DisplayName),
		})
	}
	return records
}

func decodeFixture(r io.Reader) (*Fixture, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var fx Fixture
	if err := decoder.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("locales: decode fixture: %w", err)
	}
	return &fx, nil
}

// Upserter stores locale records.
type Upserter interface {
	Upsert(ctx context.Context, locale *Locale) (*Locale, error)
}

// Seed upserts every fixture record into repo and returns how many were stored.
func Seed(ctx context.Context, repo Upserter, fixture *Fixture) (int, error) {
	if repo == nil {
		return 0, errors.New("locales: seed repository is required")
	}
	count := 0
	for _, record := range fixture.Records() {
		if _, err := repo.Upsert(ctx, record); err != nil {
			return count, fmt.Errorf("locales: seed %q: %w", record.Code, err)
		}
		count++
	}
	return count, nil
}
