// Package cms is a headless, schema-driven content engine: admins define
// modules (record types with a field schema) and page sections (reusable HTML
// fragments with placeholder syntax); entries store records conforming to a
// module's schema, and published pages compose ordered sections bound to
// per-instance content.
package cms

import (
	"context"
	"database/sql"

	markdowncmd "github.com/goliatone/go-cms-modular/internal/commands/markdown"
	"github.com/goliatone/go-cms-modular/internal/database"
	"github.com/goliatone/go-cms-modular/internal/entries"
	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/logging/gologger"
	"github.com/goliatone/go-cms-modular/internal/markdown"
	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/internal/pages"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/goliatone/go-cms-modular/internal/storage"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// ModuleService exports the module service contract for consumers of the cms
// package.
type ModuleService = modules.Service

// EntryService exports the entry service contract.
type EntryService = entries.Service

// SectionService exports the section service contract.
type SectionService = sections.Service

// PageService exports the page service contract.
type PageService = pages.Service

// Engine is the top level runtime façade: it owns the wired services and the
// shared logger provider.
type Engine struct {
	cfg      Config
	provider interfaces.LoggerProvider

	modules       modules.Service
	entries       entries.Service
	sections      sections.Service
	pages         pages.Service
	importer      *markdown.Importer
	importHandler *markdowncmd.ImportDirectoryHandler
}

// New wires an engine from the provided configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := gologger.NewProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}

	var (
		moduleRepo   modules.Repository
		entryRepo    entries.Repository
		relationRepo entries.RelationRepository
		sectionRepo  sections.Repository
		pageRepo     pages.Repository
		bindingRepo  pages.BindingRepository
	)
	if db := cfg.Database.DB; db != nil {
		var (
			cacheSvc cache.CacheService
			keySer   cache.KeySerializer
		)
		if cfg.Cache.Enabled {
			cacheSvc = cfg.Cache.Service
			keySer = cfg.Cache.Serializer
		}
		moduleRepo = modules.NewBunRepositoryWithCache(db, cacheSvc, keySer)
		entryRepo = entries.NewBunRepositoryWithCache(db, cacheSvc, keySer)
		relationRepo = entries.NewBunRelationRepository(db)
		sectionRepo = sections.NewBunRepositoryWithCache(db, cacheSvc, keySer)
		pageRepo = pages.NewBunRepositoryWithCache(db, cacheSvc, keySer)
		bindingRepo = pages.NewBunBindingRepository(db)
	} else {
		moduleRepo = modules.NewMemoryRepository()
		entryRepo = entries.NewMemoryRepository()
		relationRepo = entries.NewMemoryRelationRepository()
		sectionRepo = sections.NewMemoryRepository()
		pageRepo = pages.NewMemoryRepository()
		bindingRepo = pages.NewMemoryBindingRepository()
	}

	var store interfaces.FileStore
	if cfg.Uploads.Enabled {
		fsOpts := []storage.FSOption{
			storage.WithLogger(logging.ModuleLogger(provider, "storage")),
		}
		if cfg.Uploads.BaseURL != "" {
			fsOpts = append(fsOpts, storage.WithBaseURL(cfg.Uploads.BaseURL))
		}
		store = storage.NewFSStore(cfg.Uploads.Root, fsOpts...)
	}

	pageSvc := pages.NewService(pageRepo, bindingRepo, sectionRepo,
		pages.WithLogger(logging.PagesLogger(provider)),
	)

	entryOpts := []entries.ServiceOption{
		entries.WithLogger(logging.EntriesLogger(provider)),
		entries.WithPageResolver(pageSvc),
	}
	if store != nil {
		entryOpts = append(entryOpts, entries.WithFileStore(store))
	}
	entrySvc := entries.NewService(entryRepo, relationRepo, moduleRepo, sectionRepo, entryOpts...)

	importer := markdown.NewImporter(entrySvc, moduleRepo,
		markdown.WithLogger(logging.MarkdownLogger(provider)),
		markdown.WithParser(markdown.NewParser(markdown.ParseOptions{
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
			Extensions: cfg.Markdown.Extensions,
		})),
	)

	return &Engine{
		cfg:      cfg,
		provider: provider,
		modules: modules.NewService(moduleRepo,
			modules.WithLogger(logging.ModulesLogger(provider)),
		),
		entries:  entrySvc,
		sections: sections.NewService(sectionRepo),
		pages:    pageSvc,
		importer: importer,
		importHandler: markdowncmd.NewImportDirectoryHandler(importer,
			logging.ModuleLogger(provider, "commands"),
		),
	}, nil
}

// Modules returns the configured module service.
func (e *Engine) Modules() ModuleService {
	return e.modules
}

// Entries returns the configured entry service.
func (e *Engine) Entries() EntryService {
	return e.entries
}

// Sections returns the configured section service.
func (e *Engine) Sections() SectionService {
	return e.sections
}

// Pages returns the configured page service.
func (e *Engine) Pages() PageService {
	return e.pages
}

// MarkdownImporter returns the directory importer.
func (e *Engine) MarkdownImporter() *markdown.Importer {
	return e.importer
}

// ImportMarkdown imports a directory of Markdown documents into the named
// module using the configured body field.
func (e *Engine) ImportMarkdown(ctx context.Context, dir, moduleSlug string, dryRun bool) (*markdown.ImportResult, error) {
	return e.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{
		ModuleSlug: moduleSlug,
		BodyField:  e.cfg.Markdown.BodyField,
		DryRun:     dryRun,
	})
}

// LoggerProvider exposes the shared logger provider for integrations that
// want to log under the engine's namespaces.
func (e *Engine) LoggerProvider() interfaces.LoggerProvider {
	return e.provider
}

// OpenSQLite builds a SQLite-backed bun handle ready for Config.Database,
// with the engine's join-table models registered.
func OpenSQLite(dsn string) (*bun.DB, error) {
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	registerModels(db)
	return db, nil
}

// NewPostgresDB wraps an already-opened Postgres connection pool for
// Config.Database. The caller owns driver selection and pool lifecycle.
func NewPostgresDB(sqlDB *sql.DB) *bun.DB {
	db := database.NewPostgresDB(sqlDB)
	registerModels(db)
	return db
}

func registerModels(db *bun.DB) {
	database.RegisterModels(db,
		(*entries.PageLink)(nil),
		(*entries.Relation)(nil),
		(*pages.SectionBinding)(nil),
	)
}
