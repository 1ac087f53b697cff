package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-cms-modular/internal/entries"
	"github.com/goliatone/go-cms-modular/internal/identity"
	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
)

// DefaultBodyField is the entry field the rendered body is written to when
// the import options do not name one.
const DefaultBodyField = "body"

// ImportOptions shape one directory import.
type ImportOptions struct {
	// ModuleSlug selects the target module.
	ModuleSlug string
	// BodyField names the entry field receiving the rendered HTML body.
	BodyField string
	// DryRun reports what would change without writing anything.
	DryRun bool
	// Parse overrides the importer's default parse options.
	Parse *ParseOptions
}

// ImportResult summarises a directory import.
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  map[string]error
}

// Importer loads Markdown documents into a module's entries. Documents are
// matched to existing entries by slug; matched entries update, the rest
// create.
type Importer struct {
	entries entries.Service
	modules modules.Repository
	parser  *Parser
	logger  interfaces.Logger
}

// ImporterOption configures the importer.
type ImporterOption func(*Importer)

// WithLogger injects the importer logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithParser overrides the default Markdown parser.
func WithParser(parser *Parser) ImporterOption {
	return func(i *Importer) {
		if parser != nil {
			i.parser = parser
		}
	}
}

// NewImporter constructs an importer writing through the entry service so
// every document passes schema validation.
func NewImporter(entrySvc entries.Service, moduleRepo modules.Repository, opts ...ImporterOption) *Importer {
	i := &Importer{
		entries: entrySvc,
		modules: moduleRepo,
		parser:  NewParser(ParseOptions{}),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportDirectory imports every .md file under dir, walking subdirectories in
// lexical order for deterministic results. Per-file failures are collected;
// the walk continues.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	mod, err := i.modules.GetBySlug(ctx, strings.TrimSpace(opts.ModuleSlug))
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: map[string]error{}}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.importFile(ctx, mod, path, opts, result); err != nil {
			result.Errors[path] = err
			i.logger.Warn("markdown import failed", "file", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown import %s: %w", dir, err)
	}

	i.logger.Info("markdown import finished", "module", mod.Slug, "dir", dir,
		"created", len(result.Created), "updated", len(result.Updated),
		"skipped", len(result.Skipped), "errors", len(result.Errors), "dry_run", opts.DryRun)
	return result, nil
}

func (i *Importer) importFile(ctx context.Context, mod *modules.Module, path string, opts ImportOptions, result *ImportResult) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return err
	}

	entrySlug := meta.Slug
	if entrySlug == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		normalized, err := slug.Normalize(base)
		if err != nil || normalized == "" {
			return fmt.Errorf("cannot derive slug from %q", base)
		}
		entrySlug = normalized
	}

	parseOpts := i.parser.defaults
	if opts.Parse != nil {
		parseOpts = *opts.Parse
	}
	rendered, err := i.parser.ParseWithOptions(body, parseOpts)
	if err != nil {
		return err
	}

	bodyField := opts.BodyField
	if bodyField == "" {
		bodyField = DefaultBodyField
	}

	data := make(map[string]any, len(meta.Fields)+1)
	for name, value := range meta.Fields {
		data[name] = value
	}
	if len(strings.TrimSpace(string(rendered))) > 0 {
		data[bodyField] = string(rendered)
	}

	existing, err := i.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		return err
	}
	var match *entries.Entry
	for _, record := range existing {
		if record.Slug == entrySlug {
			match = record
			break
		}
	}

	if opts.DryRun {
		if match != nil {
			result.Updated = append(result.Updated, entrySlug)
		} else {
			result.Created = append(result.Created, entrySlug)
		}
		return nil
	}

	if match != nil {
		_, err = i.entries.Update(ctx, entries.UpdateEntryRequest{
			ModuleID:  mod.ID,
			EntryID:   match.ID,
			Slug:      &entrySlug,
			Type:      meta.Type,
			Data:      data,
			SortOrder: intPointerIf(meta.SortOrder != 0, meta.SortOrder),
			IsActive:  meta.Active,
		})
		if err != nil {
			return err
		}
		result.Updated = append(result.Updated, entrySlug)
		return nil
	}

	// Deterministic ids keep re-imports of the same document tree stable
	// across environments.
	_, err = i.entries.Create(ctx, entries.CreateEntryRequest{
		ModuleID:  mod.ID,
		ID:        identity.EntryUUID(mod.ID, entrySlug),
		Slug:      entrySlug,
		Type:      meta.Type,
		Data:      data,
		SortOrder: meta.SortOrder,
		IsActive:  meta.Active,
	})
	if err != nil {
		return err
	}
	result.Created = append(result.Created, entrySlug)
	return nil
}

func intPointerIf(cond bool, value int) *int {
	if !cond {
		return nil
	}
	return &value
}
