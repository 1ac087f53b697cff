package modules

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository constructs an "in memory" module repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   make(map[uuid.UUID]*Module),
		bySlug: make(map[string]uuid.UUID),
	}
}

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Module
	bySlug map[string]uuid.UUID
}

func (m *memoryRepository) Create(_ context.Context, record *Module) (*Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneModule(record)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneModule(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: id.String()}
	}
	return cloneModule(record), nil
}

func (m *memoryRepository) GetBySlug(_ context.Context, slug string) (*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: slug}
	}
	return cloneModule(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Module, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneModule(record))
	}
	return records, nil
}

func (m *memoryRepository) Update(_ context.Context, record *Module) (*Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "module", Key: record.ID.String()}
	}
	if current.Slug != record.Slug {
		delete(m.bySlug, current.Slug)
	}

	cloned := cloneModule(record)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneModule(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "module", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.bySlug, record.Slug)
	return nil
}

func cloneModule(src *Module) *Module {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Fields = append(src.Fields[:0:0], src.Fields...)
	cloned.MappingFields = append(src.MappingFields[:0:0], src.MappingFields...)
	cloned.MapToModuleIDs = append(src.MapToModuleIDs[:0:0], src.MapToModuleIDs...)
	cloned.PageSectionIDs = append(src.PageSectionIDs[:0:0], src.PageSectionIDs...)
	cloned.Types = append(src.Types[:0:0], src.Types...)
	return &cloned
}
