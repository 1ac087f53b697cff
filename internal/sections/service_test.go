package sections_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/google/uuid"
)

func newService() sections.Service {
	counter := 0
	return sections.NewService(sections.NewMemoryRepository(),
		sections.WithClock(func() time.Time {
			return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
		}),
		sections.WithIDGenerator(func() uuid.UUID {
			counter++
			return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", counter))
		}),
	)
}

func heroRequest() sections.CreateSectionRequest {
	return sections.CreateSectionRequest{
		Identifier:   "hero",
		HTMLTemplate: "<h1>{title}</h1>",
		CSSStyles:    ".hero { color: red; }",
		Fields: []schema.Field{
			{Name: "title", Type: schema.FieldText, Required: true},
		},
	}
}

func TestCreateRequiresIdentifierAndTemplate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	req := heroRequest()
	req.Identifier = "  "
	if _, err := svc.Create(ctx, req); !errors.Is(err, sections.ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}

	req = heroRequest()
	req.HTMLTemplate = ""
	if _, err := svc.Create(ctx, req); !errors.Is(err, sections.ErrTemplateRequired) {
		t.Fatalf("expected ErrTemplateRequired, got %v", err)
	}
}

func TestCreateRejectsDuplicateIdentifier(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, heroRequest()); err != nil {
		t.Fatalf("seed section: %v", err)
	}
	if _, err := svc.Create(ctx, heroRequest()); !errors.Is(err, sections.ErrIdentifierExists) {
		t.Fatalf("expected ErrIdentifierExists, got %v", err)
	}
}

func TestCreateValidatesFieldSchema(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	req := heroRequest()
	req.Fields = []schema.Field{
		{Name: "title", Type: schema.FieldText},
		{Name: "title", Type: schema.FieldTextarea},
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, schema.ErrFieldNameDuplicate) {
		t.Fatalf("expected duplicate field name error, got %v", err)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, heroRequest())
	if err != nil {
		t.Fatalf("seed section: %v", err)
	}

	tpl := "<h1>{title}</h1><p>{subtitle}</p>"
	js := "console.log('hero');"
	updated, err := svc.Update(ctx, sections.UpdateSectionRequest{
		ID:           created.ID,
		HTMLTemplate: &tpl,
		JavaScript:   &js,
		Fields: []schema.Field{
			{Name: "title", Type: schema.FieldText, Required: true},
			{Name: "subtitle", Type: schema.FieldText},
		},
	})
	if err != nil {
		t.Fatalf("update section: %v", err)
	}
	if updated.HTMLTemplate != tpl {
		t.Fatalf("expected template update, got %q", updated.HTMLTemplate)
	}
	if updated.JavaScript != js {
		t.Fatalf("expected javascript update, got %q", updated.JavaScript)
	}
	if updated.Identifier != "hero" {
		t.Fatalf("expected identifier untouched, got %q", updated.Identifier)
	}
	if updated.CSSStyles != ".hero { color: red; }" {
		t.Fatalf("expected styles untouched, got %q", updated.CSSStyles)
	}
	if len(updated.Fields) != 2 {
		t.Fatalf("expected fields replaced, got %+v", updated.Fields)
	}
}

func TestUpdateIdentifierEnforcesUniqueness(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	hero, err := svc.Create(ctx, heroRequest())
	if err != nil {
		t.Fatalf("seed hero: %v", err)
	}
	features := heroRequest()
	features.Identifier = "features"
	if _, err := svc.Create(ctx, features); err != nil {
		t.Fatalf("seed features: %v", err)
	}

	taken := "features"
	if _, err := svc.Update(ctx, sections.UpdateSectionRequest{ID: hero.ID, Identifier: &taken}); !errors.Is(err, sections.ErrIdentifierExists) {
		t.Fatalf("expected ErrIdentifierExists, got %v", err)
	}
}

func TestGetByIdentifierAndDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, heroRequest())
	if err != nil {
		t.Fatalf("seed section: %v", err)
	}

	found, err := svc.GetByIdentifier(ctx, "hero")
	if err != nil {
		t.Fatalf("get by identifier: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected lookup to return created section")
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete section: %v", err)
	}
	_, err = svc.Get(ctx, created.ID)
	var notFound *sections.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
