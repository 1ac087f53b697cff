package markdown_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-modular/internal/entries"
	"github.com/goliatone/go-cms-modular/internal/identity"
	"github.com/goliatone/go-cms-modular/internal/markdown"
	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
)

type fixture struct {
	importer *markdown.Importer
	entries  entries.Service
	modules  modules.Repository
	moduleID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	moduleRepo := modules.NewMemoryRepository()
	moduleSvc := modules.NewService(moduleRepo)
	mod, err := moduleSvc.Create(ctx, modules.CreateModuleRequest{
		Name: "Posts",
		Slug: "posts",
		Fields: []schema.Field{
			{Name: "title", Type: schema.FieldText, Required: true},
			{Name: "body", Type: schema.FieldTextarea},
		},
	})
	if err != nil {
		t.Fatalf("seed module: %v", err)
	}

	entrySvc := entries.NewService(
		entries.NewMemoryRepository(),
		entries.NewMemoryRelationRepository(),
		moduleRepo,
		sections.NewMemoryRepository(),
	)

	return &fixture{
		importer: markdown.NewImporter(entrySvc, moduleRepo),
		entries:  entrySvc,
		modules:  moduleRepo,
		moduleID: mod.ID.String(),
	}
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestImportDirectoryCreatesEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "welcome.md", `---
title: Welcome
sort_order: 2
---
# Hello

This is the **first** post.
`)
	writeDoc(t, dir, "about.md", `---
slug: about-us
title: About
---
We build things.
`)

	result, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("expected 2 created, got %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %+v", result.Errors)
	}

	mod, err := f.modules.GetBySlug(ctx, "posts")
	if err != nil {
		t.Fatalf("get module: %v", err)
	}
	records, err := f.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(records))
	}

	var welcome *entries.Entry
	for _, record := range records {
		if record.Slug == "welcome" {
			welcome = record
		}
	}
	if welcome == nil {
		t.Fatalf("expected entry slug derived from filename, got %+v", records)
	}
	body, _ := welcome.Data["body"].(string)
	if !strings.Contains(body, "<strong>first</strong>") {
		t.Fatalf("expected rendered markdown body, got %q", body)
	}
	if !strings.Contains(body, `<h1 id="hello">`) {
		t.Fatalf("expected auto heading id, got %q", body)
	}
	if welcome.SortOrder != 2 {
		t.Fatalf("expected sort order from frontmatter, got %d", welcome.SortOrder)
	}
	if welcome.ID != identity.EntryUUID(mod.ID, "welcome") {
		t.Fatalf("expected deterministic entry id, got %s", welcome.ID)
	}
}

func TestImportDirectoryIDsStableAcrossRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "welcome.md", `---
title: Welcome
---
Body.
`)
	if _, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	mod, _ := f.modules.GetBySlug(ctx, "posts")
	records, err := f.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	firstID := records[0].ID

	if err := f.entries.Delete(ctx, mod.ID, firstID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"}); err != nil {
		t.Fatalf("second import: %v", err)
	}

	records, err = f.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 1 || records[0].ID != firstID {
		t.Fatalf("expected re-import to converge on id %s, got %+v", firstID, records)
	}
}

func TestImportDirectoryUpdatesBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "welcome.md", `---
title: Welcome
---
First version.
`)
	if _, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	writeDoc(t, dir, "welcome.md", `---
title: Welcome Back
---
Second version.
`)
	result, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.Updated) != 1 || len(result.Created) != 0 {
		t.Fatalf("expected one update, got %+v", result)
	}

	mod, _ := f.modules.GetBySlug(ctx, "posts")
	records, err := f.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single entry, got %d", len(records))
	}
	if records[0].Data["title"] != "Welcome Back" {
		t.Fatalf("expected updated title, got %v", records[0].Data["title"])
	}
	if body, _ := records[0].Data["body"].(string); !strings.Contains(body, "Second version") {
		t.Fatalf("expected updated body, got %q", body)
	}
}

func TestImportDirectoryDryRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "welcome.md", `---
title: Welcome
---
Body.
`)

	result, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts", DryRun: true})
	if err != nil {
		t.Fatalf("dry run import: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected planned create, got %+v", result)
	}

	mod, _ := f.modules.GetBySlug(ctx, "posts")
	records, err := f.entries.List(ctx, mod.ID, entries.ListOptions{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no entries written during dry run, got %d", len(records))
	}
}

func TestImportDirectoryCollectsPerFileErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "good.md", `---
title: Good
---
Fine.
`)
	// Missing the required title field; schema validation rejects it.
	writeDoc(t, dir, "bad.md", `---
slug: bad
---
Broken.
`)

	result, err := f.importer.ImportDirectory(ctx, dir, markdown.ImportOptions{ModuleSlug: "posts"})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0] != "good" {
		t.Fatalf("expected good document created, got %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one per-file error, got %+v", result.Errors)
	}
	for path := range result.Errors {
		if filepath.Base(path) != "bad.md" {
			t.Fatalf("expected error for bad.md, got %q", path)
		}
	}
}

func TestParseSafeModeStripsRawHTML(t *testing.T) {
	parser := markdown.NewParser(markdown.ParseOptions{SafeMode: true})
	out, err := parser.Parse([]byte("hello <script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected raw html suppressed, got %q", out)
	}

	unsafe := markdown.NewParser(markdown.ParseOptions{})
	out, err = unsafe.Parse([]byte("hello <em-tag>x</em-tag>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(string(out), "<em-tag>") {
		t.Fatalf("expected raw html passthrough, got %q", out)
	}
}
