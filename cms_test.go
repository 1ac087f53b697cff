package cms_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cms "github.com/goliatone/go-cms-modular"
	"github.com/goliatone/go-cms-modular/internal/entries"
	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/internal/pages"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
)

func writeMarkdownDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newEngine(t *testing.T) *cms.Engine {
	t.Helper()
	engine, err := cms.New(cms.DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineModuleEntryRoundTrip(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	mod, err := engine.Modules().Create(ctx, modules.CreateModuleRequest{
		Name: "Team Members",
		Slug: "team",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldText, Required: true},
			{Name: "role", Type: schema.FieldText},
		},
	})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}

	created, err := engine.Entries().Create(ctx, entries.CreateEntryRequest{
		ModuleID: mod.ID,
		Slug:     "jane-doe",
		Data:     map[string]any{"name": "Jane Doe", "role": "Engineer"},
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	fetched, err := engine.Entries().Get(ctx, mod.ID, created.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if fetched.Data["name"] != "Jane Doe" {
		t.Fatalf("unexpected entry data %+v", fetched.Data)
	}
}

func TestEnginePageRendering(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	hero, err := engine.Sections().Create(ctx, sections.CreateSectionRequest{
		Identifier:   "hero",
		HTMLTemplate: "<h1>{headline}</h1>",
		CSSStyles:    ".hero { font-size: 2rem; }",
		Fields: []schema.Field{
			{Name: "headline", Type: schema.FieldText, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}

	page, err := engine.Pages().Create(ctx, pages.CreatePageRequest{
		Title:       "Home",
		Slug:        "home",
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	err = engine.Pages().SetSections(ctx, page.ID, []pages.SectionInput{
		{SectionID: hero.ID, Data: map[string]any{"data": map[string]any{"headline": "Welcome"}}},
	})
	if err != nil {
		t.Fatalf("set sections: %v", err)
	}

	rendered, err := engine.Pages().Render(ctx, "home")
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	if !strings.Contains(rendered.HTML, "<h1>Welcome</h1>") {
		t.Fatalf("expected rendered headline, got %q", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, "<style>") {
		t.Fatalf("expected styles appended, got %q", rendered.HTML)
	}
	if rendered.Sections["hero"] != "<h1>Welcome</h1>" {
		t.Fatalf("unexpected partial %q", rendered.Sections["hero"])
	}
}

func TestEngineMarkdownImport(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	mod, err := engine.Modules().Create(ctx, modules.CreateModuleRequest{
		Name: "Posts",
		Slug: "posts",
		Fields: []schema.Field{
			{Name: "title", Type: schema.FieldText},
			{Name: "body", Type: schema.FieldTextarea},
		},
	})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}

	dir := t.TempDir()
	writeMarkdownDoc(t, dir, "hello.md", "---\ntitle: Hello\n---\nA *short* post.\n")

	result, err := engine.ImportMarkdown(ctx, dir, "posts", false)
	if err != nil {
		t.Fatalf("import markdown: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected one created entry, got %+v", result)
	}

	records, err := engine.Entries().List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 1 || records[0].Slug != "hello" {
		t.Fatalf("expected imported entry, got %+v", records)
	}
	if body, _ := records[0].Data["body"].(string); !strings.Contains(body, "<em>short</em>") {
		t.Fatalf("expected rendered body, got %q", body)
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestEngineImportDirectoryCommand(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	mod, err := engine.Modules().Create(ctx, modules.CreateModuleRequest{
		Name: "Posts",
		Slug: "posts",
		Fields: []schema.Field{
			{Name: "title", Type: schema.FieldText},
			{Name: "body", Type: schema.FieldTextarea},
		},
	})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}

	dir := t.TempDir()
	writeMarkdownDoc(t, dir, "hello.md", "---\ntitle: Hello\n---\nBody.\n")

	handler := engine.ImportDirectoryHandler()
	if handler == nil {
		t.Fatal("expected a wired import handler")
	}
	err = handler.Execute(ctx, cms.ImportDirectoryCommand{
		Directory:  dir,
		ModuleSlug: "posts",
	})
	if err != nil {
		t.Fatalf("execute import command: %v", err)
	}

	records, err := engine.Entries().List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 1 || records[0].Slug != "hello" {
		t.Fatalf("expected imported entry, got %+v", records)
	}

	registry := &recordingRegistry{}
	if err := engine.RegisterCommands(registry); err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(registry.handlers) != 1 {
		t.Fatalf("expected one registered handler, got %d", len(registry.handlers))
	}
	if _, ok := registry.handlers[0].(*cms.ImportDirectoryHandler); !ok {
		t.Fatalf("expected the import handler, got %T", registry.handlers[0])
	}
}

func TestEngineConfigValidation(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Uploads.Enabled = true
	if _, err := cms.New(cfg); !errors.Is(err, cms.ErrUploadsRootRequired) {
		t.Fatalf("expected ErrUploadsRootRequired, got %v", err)
	}

	cfg = cms.DefaultConfig()
	cfg.Cache.Enabled = true
	if _, err := cms.New(cfg); !errors.Is(err, cms.ErrCacheServiceMissing) {
		t.Fatalf("expected ErrCacheServiceMissing, got %v", err)
	}
}
