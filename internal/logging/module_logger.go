package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

const (
	rootModule      = "pagination"
	coreModule      = "pagination.core"
	markdownModule  = "pagination.markdown"
	generatorModule = "pagination.generator"
	cliModule       = "pagination.cli"
)

const (
	fieldAnchor     = "anchor"
	fieldCollection = "collection"
	fieldPath       = "path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PaginationLogger returns the logger namespace reserved for the yearly paginator.
func PaginationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, coreModule)
}

// MarkdownLogger returns the logger namespace reserved for content loading.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger namespace reserved for site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CLILogger returns the logger namespace reserved for command line entry points.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithAnchorContext enriches logger with the anchor document and collection
// being paginated. Empty values are ignored.
func WithAnchorContext(logger interfaces.Logger, anchor, collection string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(anchor); trimmed != "" {
		fields[fieldAnchor] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	return WithFields(logger, fields)
}

// WithPathContext attaches the content path a loader or writer is handling.
func WithPathContext(logger interfaces.Logger, path string) interfaces.Logger {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return WithFields(logger, map[string]any{fieldPath: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every log entry.
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
