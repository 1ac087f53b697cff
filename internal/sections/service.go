package sections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/google/uuid"
)

var (
	ErrIdentifierRequired = errors.New("sections: identifier is required")
	ErrIdentifierExists   = errors.New("sections: identifier already exists")
	ErrTemplateRequired   = errors.New("sections: html template is required")
	ErrIDRequired         = errors.New("sections: section id required")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Service exposes section template management.
type Service interface {
	Create(ctx context.Context, req CreateSectionRequest) (*Section, error)
	Update(ctx context.Context, req UpdateSectionRequest) (*Section, error)
	Get(ctx context.Context, id uuid.UUID) (*Section, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Section, error)
	List(ctx context.Context) ([]*Section, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateSectionRequest captures a new section template.
type CreateSectionRequest struct {
	Identifier    string
	HTMLTemplate  string
	CSSStyles     string
	JavaScript    string
	Fields        []schema.Field
	MappingFields []schema.Field
}

// UpdateSectionRequest mutates an existing section template. Nil string
// pointers mean "no change".
type UpdateSectionRequest struct {
	ID            uuid.UUID
	Identifier    *string
	HTMLTemplate  *string
	CSSStyles     *string
	JavaScript    *string
	Fields        []schema.Field
	MappingFields []schema.Field
}

// Repository abstracts storage operations for section templates.
type Repository interface {
	Create(ctx context.Context, record *Section) (*Section, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Section, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Section, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Section, error)
	List(ctx context.Context) ([]*Section, error)
	Update(ctx context.Context, record *Section) (*Section, error)
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

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	repo Repository
	now  func() time.Time
	id   func() uuid.UUID
}

// NewService constructs a section service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo: repo,
		now:  time.Now,
		id:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func definitionFrom(fields, mappingFields []schema.Field) schema.Definition {
	return schema.Definition{Fields: fields, MappingFields: mappingFields}
}

func (s *service) Create(ctx context.Context, req CreateSectionRequest) (*Section, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return nil, ErrIdentifierRequired
	}
	if strings.TrimSpace(req.HTMLTemplate) == "" {
		return nil, ErrTemplateRequired
	}

	definition := definitionFrom(req.Fields, req.MappingFields)
	if err := definition.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByIdentifier(ctx, identifier); err == nil && existing != nil {
		return nil, ErrIdentifierExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	record := &Section{
		ID:            s.id(),
		Identifier:    identifier,
		HTMLTemplate:  req.HTMLTemplate,
		CSSStyles:     req.CSSStyles,
		JavaScript:    req.JavaScript,
		Fields:        req.Fields,
		MappingFields: req.MappingFields,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.repo.Create(ctx, record)
}

func (s *service) Update(ctx context.Context, req UpdateSectionRequest) (*Section, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Identifier != nil {
		identifier := strings.TrimSpace(*req.Identifier)
		if identifier == "" {
			return nil, ErrIdentifierRequired
		}
		if identifier != record.Identifier {
			if existing, err := s.repo.GetByIdentifier(ctx, identifier); err == nil && existing != nil && existing.ID != record.ID {
				return nil, ErrIdentifierExists
			} else if err != nil {
				var notFound *NotFoundError
				if !errors.As(err, &notFound) {
					return nil, err
				}
			}
			record.Identifier = identifier
		}
	}
	if req.HTMLTemplate != nil {
		if strings.TrimSpace(*req.HTMLTemplate) == "" {
			return nil, ErrTemplateRequired
		}
		record.HTMLTemplate = *req.HTMLTemplate
	}
	if req.CSSStyles != nil {
		record.CSSStyles = *req.CSSStyles
	}
	if req.JavaScript != nil {
		record.JavaScript = *req.JavaScript
	}
	if req.Fields != nil {
		record.Fields = req.Fields
	}
	if req.MappingFields != nil {
		record.MappingFields = req.MappingFields
	}

	if err := record.Definition().Validate(); err != nil {
		return nil, err
	}

	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Section, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIdentifier(ctx context.Context, identifier string) (*Section, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrIdentifierRequired
	}
	return s.repo.GetByIdentifier(ctx, identifier)
}

func (s *service) List(ctx context.Context) ([]*Section, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}
