package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/render"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/goliatone/go-cms-modular/internal/validation"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

var (
	ErrTitleRequired = errors.New("pages: title is required")
	ErrSlugRequired  = errors.New("pages: slug is required")
	ErrSlugInvalid   = errors.New("pages: slug contains invalid characters")
	ErrSlugExists    = errors.New("pages: slug already exists")
	ErrIDRequired    = errors.New("pages: page id required")
	ErrTypeInvalid   = errors.New("pages: page type must be cms or modular")
)

// NotFoundError represents missing records from repository lookups.
// Unpublished pages addressed through the public render path report
// not-found rather than revealing their draft state.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Service manages pages and composes their published render output.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// SetSections replaces the page's section bindings, validating every
	// payload against its section's field schema first.
	SetSections(ctx context.Context, pageID uuid.UUID, bindings []SectionInput) error
	Sections(ctx context.Context, pageID uuid.UUID) ([]*SectionBinding, error)

	// Render resolves a published page by slug and expands its sections in
	// bound order. Draft pages are not resolvable here.
	Render(ctx context.Context, slug string) (*RenderedPage, error)
}

// CreatePageRequest captures a new page.
type CreatePageRequest struct {
	Title       string
	Slug        string
	PageType    PageType
	ModuleID    *uuid.UUID
	IsPublished bool
}

// UpdatePageRequest mutates an existing page. Nil pointers mean "no change".
type UpdatePageRequest struct {
	ID          uuid.UUID
	Title       *string
	Slug        *string
	PageType    *PageType
	ModuleID    *uuid.UUID
	IsPublished *bool
}

// SectionInput is one section binding submission, in the order submitted.
type SectionInput struct {
	SectionID uuid.UUID
	Data      map[string]any
}

// Repository abstracts page storage.
type Repository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BindingRepository abstracts the page/section join rows.
type BindingRepository interface {
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*SectionBinding, error)
	Replace(ctx context.Context, pageID uuid.UUID, bindings []*SectionBinding) error
	DeleteForPage(ctx context.Context, pageID uuid.UUID) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = clock
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo     Repository
	bindings BindingRepository
	sections sections.Repository
	now      func() time.Time
	id       func() uuid.UUID
	logger   interfaces.Logger
}

// NewService constructs a page service. The sections repository supplies the
// templates and schemas bindings are validated and rendered against.
func NewService(repo Repository, bindings BindingRepository, sectionRepo sections.Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		bindings: bindings,
		sections: sectionRepo,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	normalized, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}
	pageType, err := normalizeType(req.PageType)
	if err != nil {
		return nil, err
	}
	if err := s.slugAvailable(ctx, normalized, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Page{
		ID:          s.id(),
		Title:       title,
		Slug:        normalized,
		PageType:    pageType,
		ModuleID:    req.ModuleID,
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page created", "page", created.ID, "slug", created.Slug, "type", created.PageType)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		current.Title = title
	}
	if req.Slug != nil {
		normalized, err := normalizeSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		if normalized != current.Slug {
			if err := s.slugAvailable(ctx, normalized, current.ID); err != nil {
				return nil, err
			}
			current.Slug = normalized
		}
	}
	if req.PageType != nil {
		pageType, err := normalizeType(*req.PageType)
		if err != nil {
			return nil, err
		}
		current.PageType = pageType
	}
	if req.ModuleID != nil {
		current.ModuleID = req.ModuleID
	}
	if req.IsPublished != nil {
		current.IsPublished = *req.IsPublished
	}
	current.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page updated", "page", updated.ID, "slug", updated.Slug)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Page, error) {
	if strings.TrimSpace(slugValue) == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetBySlug(ctx, slugValue)
}

func (s *service) List(ctx context.Context) ([]*Page, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.bindings.DeleteForPage(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page deleted", "page", id)
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) SetSections(ctx context.Context, pageID uuid.UUID, inputs []SectionInput) error {
	page, err := s.Get(ctx, pageID)
	if err != nil {
		return err
	}

	errs := validation.FieldErrors{}
	rows := make([]*SectionBinding, 0, len(inputs))
	now := s.now()
	for i, input := range inputs {
		section, err := s.sections.GetByID(ctx, input.SectionID)
		if err != nil {
			return err
		}
		validateSectionPayload(errs, "sections."+strconv.Itoa(i), section.Definition(), input.Data)
		rows = append(rows, &SectionBinding{
			ID:        s.id(),
			PageID:    page.ID,
			SectionID: section.ID,
			SortOrder: i,
			Data:      input.Data,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if errs.Any() {
		return errs
	}

	if err := s.bindings.Replace(ctx, page.ID, rows); err != nil {
		return err
	}
	s.logger.Info("page sections replaced", "page", page.ID, "count", len(rows))
	return nil
}

func (s *service) Sections(ctx context.Context, pageID uuid.UUID) ([]*SectionBinding, error) {
	if _, err := s.Get(ctx, pageID); err != nil {
		return nil, err
	}
	return s.bindings.ListByPage(ctx, pageID)
}

func (s *service) Render(ctx context.Context, slugValue string) (*RenderedPage, error) {
	page, err := s.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !page.IsPublished {
		return nil, &NotFoundError{Resource: "page", Key: slugValue}
	}

	bindings, err := s.bindings.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	out := &RenderedPage{
		ID:    page.ID,
		Title: page.Title,
		Slug:  page.Slug,
	}
	if len(bindings) == 0 {
		return out, nil
	}

	var doc strings.Builder
	partials := make(map[string]string, len(bindings))
	for _, binding := range bindings {
		section, err := s.sections.GetByID(ctx, binding.SectionID)
		if err != nil {
			return nil, err
		}
		payload := sectionPayload(binding.Data)
		doc.WriteString(render.RenderSection(section.HTMLTemplate, section.CSSStyles, section.JavaScript, payload))
		partials[section.Identifier] = render.Render(section.HTMLTemplate, payload)
	}
	out.HTML = doc.String()
	out.Sections = partials
	return out, nil
}

// sectionPayload splits a stored binding payload into scalars and repeatable
// items, accepting both column-oriented and legacy row-oriented shapes.
func sectionPayload(data map[string]any) render.Payload {
	scalars, _ := data["data"].(map[string]any)
	return render.Payload{
		Data:  scalars,
		Items: schema.RepeatableItems(data),
	}
}

// validateSectionPayload runs the field validator over one binding payload,
// prefixing error paths with the binding's position.
func validateSectionPayload(errs validation.FieldErrors, prefix string, def schema.Definition, data map[string]any) {
	scalars, _ := data["data"].(map[string]any)
	columns := map[string][]any{}
	for _, field := range def.MappingFields {
		if column, ok := data[field.Name].([]any); ok {
			columns[field.Name] = column
		}
	}

	// Section payloads carry no slug of their own; satisfy the shared
	// validator with a placeholder.
	_, ferrs := validation.Validate(def, validation.Input{
		Slug:        "-",
		Data:        scalars,
		MappingData: columns,
	}, validation.ModeCreate)
	for path, messages := range ferrs {
		for _, message := range messages {
			errs.Add(prefix+"."+path, message)
		}
	}
}

func normalizeSlug(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

func normalizeType(pageType PageType) (PageType, error) {
	switch pageType {
	case "":
		return PageTypeCMS, nil
	case PageTypeCMS, PageTypeModular:
		return pageType, nil
	default:
		return "", ErrTypeInvalid
	}
}

func (s *service) slugAvailable(ctx context.Context, slugValue string, excludeID uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrSlugExists
	}
	return nil
}
