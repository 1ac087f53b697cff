package pages_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-modular/internal/pages"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/goliatone/go-cms-modular/internal/validation"
	"github.com/google/uuid"
)

type fixture struct {
	svc      pages.Service
	sections sections.Service
	repo     sections.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sectionRepo := sections.NewMemoryRepository()
	return &fixture{
		svc: pages.NewService(
			pages.NewMemoryRepository(),
			pages.NewMemoryBindingRepository(),
			sectionRepo,
			pages.WithClock(func() time.Time { return time.Unix(0, 0) }),
		),
		sections: sections.NewService(sectionRepo),
		repo:     sectionRepo,
	}
}

func (f *fixture) seedSection(t *testing.T, identifier, template string, fields []schema.Field) *sections.Section {
	t.Helper()
	created, err := f.sections.Create(context.Background(), sections.CreateSectionRequest{
		Identifier:   identifier,
		HTMLTemplate: template,
		Fields:       fields,
	})
	if err != nil {
		t.Fatalf("seed section %s: %v", identifier, err)
	}
	return created
}

func TestCreateNormalizesSlugAndEnforcesUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, pages.CreatePageRequest{
		Title: "About Us",
		Slug:  "About Us!",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "about-us" {
		t.Fatalf("expected normalized slug, got %q", created.Slug)
	}
	if created.PageType != pages.PageTypeCMS {
		t.Fatalf("expected default page type, got %q", created.PageType)
	}

	_, err = f.svc.Create(ctx, pages.CreatePageRequest{Title: "Other", Slug: "about-us"})
	if !errors.Is(err, pages.ErrSlugExists) {
		t.Fatalf("expected slug conflict, got %v", err)
	}
}

func TestRenderRequiresPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, pages.CreatePageRequest{
		Title: "Draft",
		Slug:  "draft",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := f.svc.Render(ctx, "draft")
	var notFound *pages.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("draft page must not resolve, got %v", err)
	}
}

func TestRenderComposesSectionsInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hero := f.seedSection(t, "hero", "<h1>{headline}</h1>", []schema.Field{
		{Name: "headline", Type: schema.FieldText},
	})
	features := f.seedSection(t, "features",
		"<ul><!-- START REPEATABLE ITEM --><li>{item.label}</li><!-- END REPEATABLE ITEM --></ul>", nil)

	page, err := f.svc.Create(ctx, pages.CreatePageRequest{
		Title:       "Home",
		Slug:        "home",
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.SetSections(ctx, page.ID, []pages.SectionInput{
		{SectionID: hero.ID, Data: map[string]any{
			"data": map[string]any{"headline": "Welcome"},
		}},
		{SectionID: features.ID, Data: map[string]any{
			"label": []any{"Fast", "Simple"},
		}},
	}); err != nil {
		t.Fatalf("set sections: %v", err)
	}

	rendered, err := f.svc.Render(ctx, "home")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered.Title != "Home" || rendered.Slug != "home" {
		t.Fatalf("unexpected metadata: %+v", rendered)
	}

	heroAt := strings.Index(rendered.HTML, "<h1>Welcome</h1>")
	featuresAt := strings.Index(rendered.HTML, "<li>Fast</li><li>Simple</li>")
	if heroAt < 0 || featuresAt < 0 || heroAt > featuresAt {
		t.Fatalf("sections out of order or missing: %q", rendered.HTML)
	}

	if rendered.Sections["hero"] != "<h1>Welcome</h1>" {
		t.Fatalf("unexpected hero partial: %q", rendered.Sections["hero"])
	}
	if rendered.Sections["features"] != "<ul><li>Fast</li><li>Simple</li></ul>" {
		t.Fatalf("unexpected features partial: %q", rendered.Sections["features"])
	}
}

func TestSetSectionsValidatesPayloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	contact := f.seedSection(t, "contact", "<p>{email}</p>", []schema.Field{
		{Name: "email", Type: schema.FieldEmail, Required: true},
	})

	page, err := f.svc.Create(ctx, pages.CreatePageRequest{Title: "Contact", Slug: "contact"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = f.svc.SetSections(ctx, page.ID, []pages.SectionInput{
		{SectionID: contact.ID, Data: map[string]any{
			"data": map[string]any{"email": "nope"},
		}},
	})
	ferrs, ok := validation.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if len(ferrs["sections.0.email"]) == 0 {
		t.Fatalf("expected positioned email error, got %v", ferrs)
	}

	// Nothing may be written when any payload fails.
	bindings, err := f.svc.Sections(ctx, page.ID)
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("rejected write must not persist bindings, got %d", len(bindings))
	}
}

func TestUpdateTogglesPublishAndType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	moduleID := uuid.New()
	page, err := f.svc.Create(ctx, pages.CreatePageRequest{Title: "Team", Slug: "team"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	modular := pages.PageTypeModular
	published := true
	updated, err := f.svc.Update(ctx, pages.UpdatePageRequest{
		ID:          page.ID,
		PageType:    &modular,
		ModuleID:    &moduleID,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PageType != pages.PageTypeModular || updated.ModuleID == nil || *updated.ModuleID != moduleID {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.IsPublished {
		t.Fatal("expected published page")
	}

	if _, err := f.svc.Render(ctx, "team"); err != nil {
		t.Fatalf("published page must render: %v", err)
	}
}
