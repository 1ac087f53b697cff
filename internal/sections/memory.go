package sections

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository constructs an "in memory" section repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:         make(map[uuid.UUID]*Section),
		byIdentifier: make(map[string]uuid.UUID),
	}
}

type memoryRepository struct {
	mu           sync.RWMutex
	byID         map[uuid.UUID]*Section
	byIdentifier map[string]uuid.UUID
}

func (m *memoryRepository) Create(_ context.Context, record *Section) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSection(record)
	m.byID[cloned.ID] = cloned
	if cloned.Identifier != "" {
		m.byIdentifier[cloned.Identifier] = cloned.ID
	}
	return cloneSection(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page_section", Key: id.String()}
	}
	return cloneSection(record), nil
}

func (m *memoryRepository) GetByIdentifier(_ context.Context, identifier string) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byIdentifier[identifier]
	if !ok {
		return nil, &NotFoundError{Resource: "page_section", Key: identifier}
	}
	return cloneSection(m.byID[id]), nil
}

func (m *memoryRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Section, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.byID[id]; ok {
			records = append(records, cloneSection(record))
		}
	}
	return records, nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Section, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneSection(record))
	}
	return records, nil
}

func (m *memoryRepository) Update(_ context.Context, record *Section) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "page_section", Key: record.ID.String()}
	}
	if current.Identifier != record.Identifier {
		delete(m.byIdentifier, current.Identifier)
	}

	cloned := cloneSection(record)
	m.byID[cloned.ID] = cloned
	if cloned.Identifier != "" {
		m.byIdentifier[cloned.Identifier] = cloned.ID
	}
	return cloneSection(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "page_section", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.byIdentifier, record.Identifier)
	return nil
}

func cloneSection(src *Section) *Section {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Fields = append(src.Fields[:0:0], src.Fields...)
	cloned.MappingFields = append(src.MappingFields[:0:0], src.MappingFields...)
	return &cloned
}
