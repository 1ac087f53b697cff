package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-cms-modular/pkg/interfaces"
)

const (
	rootModule     = "cms"
	modulesModule  = "cms.modules"
	entriesModule  = "cms.entries"
	pagesModule    = "cms.pages"
	renderModule   = "cms.render"
	markdownModule = "cms.markdown"
)

// ModuleLogger returns a subsystem-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The subsystem identifier is
// attached as a structured field so entries can be filtered downstream.
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

	return WithFields(logger, map[string]any{"module": module})
}

// ModulesLogger returns the logger namespace reserved for module services.
func ModulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, modulesModule)
}

// EntriesLogger returns the logger namespace reserved for entry services.
func EntriesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, entriesModule)
}

// PagesLogger returns the logger namespace reserved for page services.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// RenderLogger returns the logger namespace reserved for the renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown imports.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every entry. It satisfies the Logger
// contract so services can operate when logging is disabled.
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
