package translatable

import "github.com/goliatone/go-translatable/internal/runtimeconfig"

var (
	ErrDefaultPreferenceInvalid     = runtimeconfig.ErrDefaultPreferenceInvalid
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown       = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrCacheTTLInvalid              = runtimeconfig.ErrCacheTTLInvalid
	ErrRepositoryCacheRequiresCache = runtimeconfig.ErrRepositoryCacheRequiresCache
)

type (
	Config           = runtimeconfig.Config
	PreferenceConfig = runtimeconfig.PreferenceConfig
	LocalesConfig    = runtimeconfig.LocalesConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	Features         = runtimeconfig.Features
	HTTPConfig       = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv overlays prefixed environment variables onto DefaultConfig.
func ConfigFromEnv(prefix string) (Config, error) {
	return runtimeconfig.FromEnv(prefix)
}
