package modules

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes module management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateModuleRequest) (*Module, error)
	Update(ctx context.Context, req UpdateModuleRequest) (*Module, error)
	Get(ctx context.Context, id uuid.UUID) (*Module, error)
	GetBySlug(ctx context.Context, slug string) (*Module, error)
	List(ctx context.Context) ([]*Module, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateModuleRequest captures the information required to define a module.
type CreateModuleRequest struct {
	Name           string
	Slug           string
	Fields         []schema.Field
	MappingFields  []schema.Field
	MapToModuleIDs []uuid.UUID
	PageSectionIDs []uuid.UUID
	Types          []string
	IsActive       *bool
}

// UpdateModuleRequest mirrors CreateModuleRequest for an existing module.
// Nil slices mean "no change"; empty slices clear the list.
type UpdateModuleRequest struct {
	ID             uuid.UUID
	Name           *string
	Slug           *string
	Fields         []schema.Field
	MappingFields  []schema.Field
	MapToModuleIDs []uuid.UUID
	PageSectionIDs []uuid.UUID
	Types          []string
	IsActive       *bool
}

// Repository abstracts storage operations for module definitions.
type Repository interface {
	Create(ctx context.Context, record *Module) (*Module, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Module, error)
	GetBySlug(ctx context.Context, slug string) (*Module, error)
	List(ctx context.Context) ([]*Module, error)
	Update(ctx context.Context, record *Module) (*Module, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = clock
	}
}

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
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
	repo   Repository
	now    func() time.Time
	id     IDGenerator
	logger interfaces.Logger
}

// NewService constructs a module service with the required dependencies.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateModuleRequest) (*Module, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	normalized, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}

	definition := definitionFrom(req.Fields, req.MappingFields, req.Types)
	if err := definition.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	record := &Module{
		ID:             s.id(),
		Name:           name,
		Slug:           normalized,
		Fields:         req.Fields,
		MappingFields:  req.MappingFields,
		MapToModuleIDs: req.MapToModuleIDs,
		PageSectionIDs: req.PageSectionIDs,
		Types:          req.Types,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("module.created", "module_id", created.ID.String(), "slug", created.Slug)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateModuleRequest) (*Module, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
	}

	if req.Slug != nil {
		normalized, err := normalizeSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		if normalized != record.Slug {
			if existing, err := s.repo.GetBySlug(ctx, normalized); err == nil && existing != nil && existing.ID != record.ID {
				return nil, ErrSlugExists
			} else if err != nil {
				var notFound *NotFoundError
				if !errors.As(err, &notFound) {
					return nil, err
				}
			}
			record.Slug = normalized
		}
	}

	if req.Fields != nil {
		record.Fields = req.Fields
	}
	if req.MappingFields != nil {
		record.MappingFields = req.MappingFields
	}
	if req.MapToModuleIDs != nil {
		record.MapToModuleIDs = req.MapToModuleIDs
	}
	if req.PageSectionIDs != nil {
		record.PageSectionIDs = req.PageSectionIDs
	}
	if req.Types != nil {
		record.Types = req.Types
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	if err := record.Definition().Validate(); err != nil {
		return nil, err
	}

	record.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("module.updated", "module_id", updated.ID.String())
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Module, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*Module, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetBySlug(ctx, slugValue)
}

func (s *service) List(ctx context.Context) ([]*Module, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("module.deleted", "module_id", id.String())
	return nil
}

func definitionFrom(fields, mappingFields []schema.Field, types []string) schema.Definition {
	return schema.Definition{
		Fields:        fields,
		MappingFields: mappingFields,
		Types:         types,
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
