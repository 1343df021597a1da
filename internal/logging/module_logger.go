package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

const (
	rootModule     = "translatable"
	entitiesModule = "translatable.entities"
	localesModule  = "translatable.locales"
	httpModule     = "translatable.http"
)

// FieldAcceptLanguage carries the raw Accept-Language header of a request.
const FieldAcceptLanguage = "accept_language"

const (
	fieldEntityKind = "entity_kind"
	fieldEntityID   = "entity_id"
	fieldOperation  = "operation"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EntitiesLogger returns the logger namespace reserved for the entity service.
func EntitiesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, entitiesModule)
}

// LocalesLogger returns the logger namespace reserved for locale storage and caching.
func LocalesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localesModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithEntityContext enriches the provided logger with the entity kind, id and
// operation being processed. Empty values are ignored.
func WithEntityContext(logger interfaces.Logger, kind, id, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldEntityKind] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldEntityID] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
