package entries

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/modules"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/goliatone/go-cms-modular/internal/validation"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages module entries: schema-validated writes, file handling,
// mapping links, and the aggregated reads pages are built from.
type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (*Entry, error)
	Update(ctx context.Context, req UpdateEntryRequest) (*Entry, error)
	Get(ctx context.Context, moduleID, entryID uuid.UUID) (*Entry, error)
	List(ctx context.Context, moduleID uuid.UUID, opts ListOptions) ([]*Entry, error)
	Delete(ctx context.Context, moduleID, entryID uuid.UUID) error

	// MappingOptions returns the selectable {id,label} entries per target
	// module configured on the module's mapping. Inactive entries are
	// excluded.
	MappingOptions(ctx context.Context, moduleID uuid.UUID) (map[uuid.UUID][]PickerOption, error)
	// PickerOptions returns the selectable entries of a single source module,
	// for select and radio fields bound to one.
	PickerOptions(ctx context.Context, sourceModuleID uuid.UUID) ([]PickerOption, error)
	// MappingState reports the entry's current page and related-entry links.
	MappingState(ctx context.Context, moduleID, entryID uuid.UUID) (*MappingState, error)
	// SyncMapping replaces the entry's page and related-entry links with the
	// submitted sets. References outside the allowed scope reject the whole
	// sync before anything is written.
	SyncMapping(ctx context.Context, req SyncMappingRequest) error

	// GetData aggregates every active entry of a module with its related
	// entries' data and its rendered section instances.
	GetData(ctx context.Context, moduleID uuid.UUID) ([]EntryData, error)
}

// CreateEntryRequest is a full entry submission. Data values may be scalars
// or *interfaces.FileUpload; MappingData arrays may mix stored URL strings
// and uploads.
type CreateEntryRequest struct {
	ModuleID uuid.UUID
	// ID assigns the record identifier explicitly; zero lets the service
	// generate one. Importers use deterministic IDs here so repeated runs
	// converge on the same records.
	ID          uuid.UUID
	Slug        string
	Type        string
	Data        map[string]any
	MappingData map[string][]any
	SectionData []map[string]any
	SortOrder   int
	IsActive    *bool
}

// UpdateEntryRequest carries a partial entry submission. Fields absent from
// Data keep their stored value unless named in DeletedFields; mapping arrays
// absent from MappingData keep their stored columns.
type UpdateEntryRequest struct {
	ModuleID uuid.UUID
	EntryID  uuid.UUID

	Slug        *string
	Type        string
	Data        map[string]any
	MappingData map[string][]any

	// DeletedFields names file fields whose stored value must be cleared
	// even though no replacement was uploaded.
	DeletedFields []string

	SectionData []map[string]any
	SortOrder   *int
	IsActive    *bool
}

// MappingState is the current link set of one entry.
type MappingState struct {
	PageIDs []uuid.UUID               `json:"page_ids"`
	Related map[uuid.UUID][]uuid.UUID `json:"related"`
}

// SyncMappingRequest replaces an entry's links. Related is keyed by target
// module id; every key must appear in the module's configured targets.
type SyncMappingRequest struct {
	ModuleID uuid.UUID
	EntryID  uuid.UUID
	PageIDs  []uuid.UUID
	Related  map[uuid.UUID][]uuid.UUID
}

// Repository abstracts entry storage.
type Repository interface {
	Create(ctx context.Context, record *Entry) (*Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetBySlug(ctx context.Context, moduleID uuid.UUID, slug string) (*Entry, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error)
	ListByModule(ctx context.Context, moduleID uuid.UUID, opts ListOptions) ([]*Entry, error)
	Update(ctx context.Context, record *Entry) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RelationRepository abstracts the page and related-entry join rows.
type RelationRepository interface {
	PageIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error)
	ReplacePages(ctx context.Context, entryID uuid.UUID, links []PageLink) error
	RelatedIDs(ctx context.Context, entryID, relatedModuleID uuid.UUID) ([]uuid.UUID, error)
	AllRelatedIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error)
	ReplaceRelated(ctx context.Context, entryID, relatedModuleID uuid.UUID, links []Relation) error
	DeleteForEntry(ctx context.Context, entryID uuid.UUID) error
}

// PageResolver answers page existence for mapping referential checks. Pages
// live in their own package; only the check crosses over.
type PageResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
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

// WithFileStore injects the store backing file and image fields. Writes that
// carry uploads fail without one.
func WithFileStore(store interfaces.FileStore) ServiceOption {
	return func(s *service) {
		s.store = store
	}
}

// WithPageResolver injects the page existence check used by mapping syncs.
func WithPageResolver(resolver PageResolver) ServiceOption {
	return func(s *service) {
		s.pages = resolver
	}
}

type service struct {
	repo      Repository
	relations RelationRepository
	modules   modules.Repository
	sections  sections.Repository
	store     interfaces.FileStore
	pages     PageResolver
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs an entry service. The modules repository supplies the
// schema every write is validated against; the sections repository backs the
// rendered section data in aggregated reads.
func NewService(repo Repository, relations RelationRepository, moduleRepo modules.Repository, sectionRepo sections.Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		relations: relations,
		modules:   moduleRepo,
		sections:  sectionRepo,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	if req.ModuleID == uuid.Nil {
		return nil, ErrModuleRequired
	}
	mod, err := s.modules.GetByID(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	def := mod.Definition()

	result, ferrs := validation.Validate(def, validation.Input{
		Slug:        req.Slug,
		Type:        req.Type,
		Data:        req.Data,
		MappingData: req.MappingData,
	}, validation.ModeCreate)

	errs := validation.FieldErrors{}
	errs.Merge(ferrs)
	if slugVal := strings.TrimSpace(req.Slug); slugVal != "" {
		taken, err := s.slugTaken(ctx, mod.ID, slugVal, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("slug", "slug already exists for this module")
		}
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.storeUploads(ctx, mod, result); err != nil {
		return nil, err
	}

	data := assembleData(def, result, nil, nil)

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}
	now := s.now()
	record := &Entry{
		ID:          id,
		ModuleID:    mod.ID,
		Slug:        result.Slug,
		Data:        data,
		SectionData: req.SectionData,
		SortOrder:   req.SortOrder,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("entry created", "module", mod.Slug, "entry", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateEntryRequest) (*Entry, error) {
	current, mod, err := s.load(ctx, req.ModuleID, req.EntryID)
	if err != nil {
		return nil, err
	}
	def := mod.Definition()

	slugVal := current.Slug
	if req.Slug != nil {
		slugVal = strings.TrimSpace(*req.Slug)
	}

	result, ferrs := validation.Validate(def, validation.Input{
		Slug:        slugVal,
		Type:        req.Type,
		Data:        req.Data,
		MappingData: req.MappingData,
	}, validation.ModeUpdate)

	errs := validation.FieldErrors{}
	errs.Merge(ferrs)
	if slugVal != "" && slugVal != current.Slug {
		taken, err := s.slugTaken(ctx, mod.ID, slugVal, current.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("slug", "slug already exists for this module")
		}
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.storeUploads(ctx, mod, result); err != nil {
		return nil, err
	}

	current.Data = assembleData(def, result, current.Data, req.DeletedFields)
	current.Slug = slugVal
	if req.SectionData != nil {
		current.SectionData = req.SectionData
	}
	if req.SortOrder != nil {
		current.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	current.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	s.logger.Info("entry updated", "module", mod.Slug, "entry", updated.ID, "slug", updated.Slug)
	return updated, nil
}

func (s *service) Get(ctx context.Context, moduleID, entryID uuid.UUID) (*Entry, error) {
	record, _, err := s.load(ctx, moduleID, entryID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) List(ctx context.Context, moduleID uuid.UUID, opts ListOptions) ([]*Entry, error) {
	if moduleID == uuid.Nil {
		return nil, ErrModuleRequired
	}
	if _, err := s.modules.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.repo.ListByModule(ctx, moduleID, opts)
}

func (s *service) Delete(ctx context.Context, moduleID, entryID uuid.UUID) error {
	record, mod, err := s.load(ctx, moduleID, entryID)
	if err != nil {
		return err
	}
	if err := s.relations.DeleteForEntry(ctx, record.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return err
	}
	s.logger.Info("entry deleted", "module", mod.Slug, "entry", record.ID)
	return nil
}

// load fetches an entry through its parent module. An entry reached with the
// wrong module id reports not-found.
func (s *service) load(ctx context.Context, moduleID, entryID uuid.UUID) (*Entry, *modules.Module, error) {
	if moduleID == uuid.Nil {
		return nil, nil, ErrModuleRequired
	}
	if entryID == uuid.Nil {
		return nil, nil, ErrIDRequired
	}
	mod, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}
	record, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	if record.ModuleID != mod.ID {
		return nil, nil, &NotFoundError{Resource: "module entry", Key: entryID.String()}
	}
	return record, mod, nil
}

func (s *service) slugTaken(ctx context.Context, moduleID uuid.UUID, slugVal string, excludeID uuid.UUID) (bool, error) {
	existing, err := s.repo.GetBySlug(ctx, moduleID, slugVal)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

// storeUploads replaces every pending upload in the validated payload with
// its stored URL. Mapping elements keep their submitted positions.
func (s *service) storeUploads(ctx context.Context, mod *modules.Module, result *validation.Result) error {
	for name, value := range result.Data {
		upload, ok := value.(*interfaces.FileUpload)
		if !ok {
			continue
		}
		url, err := s.storeOne(ctx, mod, upload)
		if err != nil {
			return err
		}
		result.Data[name] = url
	}
	for name, column := range result.MappingData {
		for i, element := range column {
			upload, ok := element.(*interfaces.FileUpload)
			if !ok {
				continue
			}
			url, err := s.storeOne(ctx, mod, upload)
			if err != nil {
				return err
			}
			column[i] = url
		}
		result.MappingData[name] = column
	}
	return nil
}

func (s *service) storeOne(ctx context.Context, mod *modules.Module, upload *interfaces.FileUpload) (string, error) {
	if s.store == nil {
		return "", ErrStoreRequired
	}
	url, err := s.store.Store(ctx, *upload, mod.Slug)
	if err != nil {
		return "", err
	}
	s.logger.Debug("file stored", "module", mod.Slug, "url", url)
	return url, nil
}

// assembleData merges a validated payload over the stored data. With nil
// current it builds a create payload. Update rules per plain field: deleted
// wins, then the validated value, then the stored value, then empty string.
// Mapping columns replace wholesale when submitted and are otherwise kept.
// Legacy row-oriented mapping payloads are folded away on every write.
func assembleData(def schema.Definition, result *validation.Result, current map[string]any, deletedFields []string) map[string]any {
	deleted := make(map[string]bool, len(deletedFields))
	for _, name := range deletedFields {
		deleted[name] = true
	}

	data := map[string]any{}
	for _, field := range def.Fields {
		if deleted[field.Name] {
			data[field.Name] = ""
			continue
		}
		if value, ok := result.Data[field.Name]; ok {
			data[field.Name] = value
			continue
		}
		if value, ok := current[field.Name]; ok {
			data[field.Name] = value
			continue
		}
		data[field.Name] = ""
	}

	for _, field := range def.MappingFields {
		if column, ok := result.MappingData[field.Name]; ok {
			data[field.Name] = column
			continue
		}
		if value, ok := current[field.Name]; ok {
			data[field.Name] = value
		}
	}
	if current != nil {
		if legacy, ok := current[schema.LegacyMappingKey]; ok {
			if _, resubmitted := data[schema.LegacyMappingKey]; !resubmitted {
				data[schema.LegacyMappingKey] = legacy
			}
		}
	}

	if result.Type != "" {
		data["type"] = result.Type
	} else if current != nil {
		if tag, ok := current["type"]; ok {
			data["type"] = tag
		}
	}

	return schema.NormalizeMappingData(data, def.MappingFields)
}
