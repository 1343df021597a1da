package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-translatable/internal/acceptlang"
)

var ErrDefaultPreferenceInvalid = errors.New("translatable config: default preference is invalid")
var ErrLoggingProviderRequired = errors.New("translatable config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("translatable config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("translatable config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("translatable config: logging format is invalid")
var ErrStorageProviderUnknown = errors.New("translatable config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("translatable config: storage driver is invalid")

// ErrCacheTTLInvalid rejects negative cache lifetimes.
var ErrCacheTTLInvalid = errors.New("translatable config: cache ttl must be zero or positive")

// ErrRepositoryCacheRequiresCache keeps the repository cache behind the cache toggle.
var ErrRepositoryCacheRequiresCache = errors.New("translatable config: repository cache feature requires cache to be enabled")

// DefaultEnvPrefix is the variable prefix used by FromEnv when none is given.
const DefaultEnvPrefix = "TRANSLATABLE_"

// Config aggregates feature flags and adapter bindings for the translatable module.
type Config struct {
	Enabled           bool             `env:"ENABLED"`
	DefaultPreference PreferenceConfig `envPrefix:"DEFAULT_"`
	Locales           LocalesConfig    `envPrefix:"LOCALES_"`
	Storage           StorageConfig    `envPrefix:"STORAGE_"`
	Cache             CacheConfig      `envPrefix:"CACHE_"`
	Logging           LoggingConfig    `envPrefix:"LOGGING_"`
	Features          Features         `envPrefix:"FEATURES_"`
	HTTP              HTTPConfig       `envPrefix:"HTTP_"`
}

// PreferenceConfig is the language range appended to every client preference
// list as the terminal fallback.
type PreferenceConfig struct {
	Language string  `env:"LANGUAGE"`
	Country  string  `env:"COUNTRY"`
	Priority float64 `env:"PRIORITY"`
}

// LocalesConfig controls how the locale catalog is seeded at boot.
type LocalesConfig struct {
	Seed    bool   `env:"SEED"`
	Fixture string `env:"FIXTURE"`
}

// StorageConfig selects the repository backend. DSN is only read by the bun
// provider; an empty DSN with the sqlite driver opens a private in-memory database.
type StorageConfig struct {
	Provider string `env:"PROVIDER"`
	Driver   string `env:"DRIVER"`
	DSN      string `env:"DSN"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `env:"ENABLED"`
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`
}

// Features toggles module functionality.
type Features struct {
	Logger          bool `env:"LOGGER"`
	RepositoryCache bool `env:"REPOSITORY_CACHE"`
	WatchLocales    bool `env:"WATCH_LOCALES"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `env:"PROVIDER"`
	Level     string   `env:"LEVEL"`
	Format    string   `env:"FORMAT"`
	AddSource bool     `env:"ADD_SOURCE"`
	Focus     []string `env:"FOCUS" envSeparator:","`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	BasePath string `env:"BASE_PATH"`
}

// DefaultConfig returns opinionated defaults: memory storage, seeded
// locales and English as the terminal fallback.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		DefaultPreference: PreferenceConfig{
			Language: "en",
			Country:  "",
			Priority: 0.001,
		},
		Locales: LocalesConfig{
			Seed: true,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			WatchLocales: true,
		},
		HTTP: HTTPConfig{
			BasePath: "/api",
		},
	}
}

// FromEnv overlays environment variables named prefix+FIELD onto the
// defaults, e.g. TRANSLATABLE_DEFAULT_LANGUAGE or TRANSLATABLE_STORAGE_DRIVER.
func FromEnv(prefix string) (Config, error) {
	return FromEnvironment(prefix, nil)
}

// FromEnvironment behaves like FromEnv reading from environ instead of the
// process environment when environ is non-nil.
func FromEnvironment(prefix string, environ map[string]string) (Config, error) {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultEnvPrefix
	}
	cfg := DefaultConfig()
	opts := env.Options{Prefix: prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("translatable config: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := cfg.DefaultPreference.validate(); err != nil {
		return err
	}
	switch normalize(cfg.Storage.Provider) {
	case "memory", "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if normalize(cfg.Storage.Provider) == "bun" {
		switch normalize(cfg.Storage.Driver) {
		case "sqlite", "sqlite3", "postgres", "pg":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.RepositoryCache && !cfg.Cache.Enabled {
		return ErrRepositoryCacheRequiresCache
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// Range converts the preference into the language range appended to every
// request's preference list.
func (p PreferenceConfig) Range() acceptlang.LanguageRange {
	return acceptlang.LanguageRange{
		Language: strings.ToLower(strings.TrimSpace(p.Language)),
		Country:  strings.ToLower(strings.TrimSpace(p.Country)),
		Priority: p.Priority,
	}
}

func (p PreferenceConfig) validate() error {
	language := strings.TrimSpace(p.Language)
	if language == "" {
		return fmt.Errorf("%w: language is required", ErrDefaultPreferenceInvalid)
	}
	if language != "*" && !isLetters(language, 2, 3) {
		return fmt.Errorf("%w: language %q", ErrDefaultPreferenceInvalid, p.Language)
	}
	if country := strings.TrimSpace(p.Country); country != "" && !isLetters(country, 2, 3) {
		return fmt.Errorf("%w: country %q", ErrDefaultPreferenceInvalid, p.Country)
	}
	if p.Priority < 0 || p.Priority > 1 {
		return fmt.Errorf("%w: priority %v", ErrDefaultPreferenceInvalid, p.Priority)
	}
	return nil
}

func isLetters(value string, minLen, maxLen int) bool {
	if len(value) < minLen || len(value) > maxLen {
		return false
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
