package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Page
	bySlug map[string]uuid.UUID
}

// NewMemoryRepository returns an in-memory page repository for tests and
// local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   map[uuid.UUID]*Page{},
		bySlug: map[string]uuid.UUID{},
	}
}

func (r *memoryRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = clonePage(record)
	r.bySlug[record.Slug] = record.ID
	return clonePage(record), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return clonePage(record), nil
}

func (r *memoryRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return clonePage(r.byID[id]), nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Page, 0, len(r.byID))
	for _, record := range r.byID {
		out = append(out, clonePage(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: record.ID.String()}
	}
	if current.Slug != record.Slug {
		delete(r.bySlug, current.Slug)
		r.bySlug[record.Slug] = record.ID
	}
	r.byID[record.ID] = clonePage(record)
	return clonePage(record), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[id]
	if !ok {
		return &NotFoundError{Resource: "page", Key: id.String()}
	}
	delete(r.bySlug, record.Slug)
	delete(r.byID, id)
	return nil
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	out := *src
	if src.ModuleID != nil {
		id := *src.ModuleID
		out.ModuleID = &id
	}
	return &out
}

type memoryBindingRepository struct {
	mu     sync.RWMutex
	byPage map[uuid.UUID][]*SectionBinding
}

// NewMemoryBindingRepository returns an in-memory binding repository.
func NewMemoryBindingRepository() BindingRepository {
	return &memoryBindingRepository{byPage: map[uuid.UUID][]*SectionBinding{}}
}

func (r *memoryBindingRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*SectionBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.byPage[pageID]
	out := make([]*SectionBinding, len(rows))
	for i, row := range rows {
		out[i] = cloneBinding(row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *memoryBindingRepository) Replace(ctx context.Context, pageID uuid.UUID, bindings []*SectionBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]*SectionBinding, len(bindings))
	for i, row := range bindings {
		rows[i] = cloneBinding(row)
	}
	r.byPage[pageID] = rows
	return nil
}

func (r *memoryBindingRepository) DeleteForPage(ctx context.Context, pageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPage, pageID)
	return nil
}

func cloneBinding(src *SectionBinding) *SectionBinding {
	if src == nil {
		return nil
	}
	out := *src
	if src.Data != nil {
		out.Data = make(map[string]any, len(src.Data))
		for k, v := range src.Data {
			out.Data[k] = v
		}
	}
	return &out
}
