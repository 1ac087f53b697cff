package modules_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/google/uuid"
)

func newService() modules.Service {
	counter := 0
	return modules.NewService(modules.NewMemoryRepository(),
		modules.WithClock(func() time.Time {
			return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
		}),
		modules.WithIDGenerator(func() uuid.UUID {
			counter++
			return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", counter))
		}),
	)
}

func teamFields() []schema.Field {
	return []schema.Field{
		{Name: "name", Type: schema.FieldText, Required: true, IsSlug: true},
		{Name: "bio", Type: schema.FieldTextarea},
	}
}

func TestCreateNormalizesSlug(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, modules.CreateModuleRequest{
		Name:   "Team Members",
		Slug:   "Team Members!",
		Fields: teamFields(),
	})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	if created.Slug != "team-members" {
		t.Fatalf("expected normalized slug, got %q", created.Slug)
	}
	if !created.IsActive {
		t.Fatalf("expected module to default to active")
	}

	found, err := svc.GetBySlug(ctx, "team-members")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected lookup to return created module")
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Team", Slug: "team", Fields: teamFields()}); err != nil {
		t.Fatalf("seed module: %v", err)
	}
	_, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Other Team", Slug: "team", Fields: teamFields()})
	if !errors.Is(err, modules.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestCreateValidatesSchema(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, modules.CreateModuleRequest{
		Name: "Team",
		Slug: "team",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldText},
			{Name: "name", Type: schema.FieldTextarea},
		},
	})
	if !errors.Is(err, schema.ErrFieldNameDuplicate) {
		t.Fatalf("expected duplicate field name error, got %v", err)
	}

	_, err = svc.Create(ctx, modules.CreateModuleRequest{
		Name: "Team",
		Slug: "team",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldText, IsSlug: true},
			{Name: "title", Type: schema.FieldText, IsSlug: true},
		},
	})
	if !errors.Is(err, schema.ErrMultipleSlugFields) {
		t.Fatalf("expected multiple slug fields error, got %v", err)
	}

	_, err = svc.Create(ctx, modules.CreateModuleRequest{
		Name:   "Team",
		Slug:   "team",
		Fields: teamFields(),
		Types:  []string{"leadership", "leadership"},
	})
	if !errors.Is(err, schema.ErrTypeTagDuplicate) {
		t.Fatalf("expected duplicate type tag error, got %v", err)
	}
}

func TestCreateRequiresNameAndSlug(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, modules.CreateModuleRequest{Slug: "team"}); !errors.Is(err, modules.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Team"}); !errors.Is(err, modules.ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, modules.CreateModuleRequest{
		Name:   "Team",
		Slug:   "team",
		Fields: teamFields(),
		Types:  []string{"leadership"},
	})
	if err != nil {
		t.Fatalf("seed module: %v", err)
	}

	name := "People"
	inactive := false
	updated, err := svc.Update(ctx, modules.UpdateModuleRequest{
		ID:       created.ID,
		Name:     &name,
		IsActive: &inactive,
		MappingFields: []schema.Field{
			{Name: "role", Type: schema.FieldText},
		},
	})
	if err != nil {
		t.Fatalf("update module: %v", err)
	}
	if updated.Name != "People" {
		t.Fatalf("expected name update, got %q", updated.Name)
	}
	if updated.Slug != "team" {
		t.Fatalf("expected slug untouched, got %q", updated.Slug)
	}
	if updated.IsActive {
		t.Fatalf("expected module deactivated")
	}
	if len(updated.MappingFields) != 1 || updated.MappingFields[0].Name != "role" {
		t.Fatalf("expected mapping fields replaced, got %+v", updated.MappingFields)
	}
	if len(updated.Types) != 1 || updated.Types[0] != "leadership" {
		t.Fatalf("expected types untouched, got %+v", updated.Types)
	}
}

func TestUpdateSlugEnforcesUniqueness(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Team", Slug: "team", Fields: teamFields()})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if _, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Skills", Slug: "skills", Fields: teamFields()}); err != nil {
		t.Fatalf("seed skills: %v", err)
	}

	taken := "skills"
	if _, err := svc.Update(ctx, modules.UpdateModuleRequest{ID: first.ID, Slug: &taken}); !errors.Is(err, modules.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	// Re-submitting the current slug is not a conflict.
	same := "team"
	if _, err := svc.Update(ctx, modules.UpdateModuleRequest{ID: first.ID, Slug: &same}); err != nil {
		t.Fatalf("update with unchanged slug: %v", err)
	}
}

func TestDeleteRemovesModule(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, modules.CreateModuleRequest{Name: "Team", Slug: "team", Fields: teamFields()})
	if err != nil {
		t.Fatalf("seed module: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	var notFound *modules.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
