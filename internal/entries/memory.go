package entries

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/google/uuid"
)

type memoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Entry
}

// NewMemoryRepository returns an in-memory entry repository for tests and
// local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: map[uuid.UUID]*Entry{}}
}

func (r *memoryRepository) Create(ctx context.Context, record *Entry) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = cloneEntry(record)
	return cloneEntry(record), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "module entry", Key: id.String()}
	}
	return cloneEntry(record), nil
}

func (r *memoryRepository) GetBySlug(ctx context.Context, moduleID uuid.UUID, slug string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.byID {
		if record.ModuleID == moduleID && record.Slug == slug {
			return cloneEntry(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "module entry", Key: slug}
}

func (r *memoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		if record, ok := r.byID[id]; ok {
			out = append(out, cloneEntry(record))
		}
	}
	return out, nil
}

func (r *memoryRepository) ListByModule(ctx context.Context, moduleID uuid.UUID, opts ListOptions) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0)
	for _, record := range r.byID {
		if record.ModuleID != moduleID {
			continue
		}
		if opts.ActiveOnly && !record.IsActive {
			continue
		}
		if opts.Search != "" && !matchesSearch(record, opts.Search) {
			continue
		}
		out = append(out, cloneEntry(record))
	}
	sortEntries(out)
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, record *Entry) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "module entry", Key: record.ID.String()}
	}
	r.byID[record.ID] = cloneEntry(record)
	return cloneEntry(record), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return &NotFoundError{Resource: "module entry", Key: id.String()}
	}
	delete(r.byID, id)
	return nil
}

// sortEntries orders by sort_order, ties broken by id for a stable listing.
func sortEntries(records []*Entry) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SortOrder != records[j].SortOrder {
			return records[i].SortOrder < records[j].SortOrder
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}

func matchesSearch(record *Entry, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(record.Slug), needle) {
		return true
	}
	for _, value := range record.Data {
		if column, ok := value.([]any); ok {
			for _, element := range column {
				if strings.Contains(strings.ToLower(schema.Stringify(element)), needle) {
					return true
				}
			}
			continue
		}
		if strings.Contains(strings.ToLower(schema.Stringify(value)), needle) {
			return true
		}
	}
	return false
}

func cloneEntry(src *Entry) *Entry {
	if src == nil {
		return nil
	}
	out := *src
	out.Data = cloneData(src.Data)
	if src.SectionData != nil {
		out.SectionData = make([]map[string]any, len(src.SectionData))
		for i, item := range src.SectionData {
			out.SectionData[i] = cloneData(item)
		}
	}
	return &out
}

type memoryRelationRepository struct {
	mu       sync.RWMutex
	pages    map[uuid.UUID][]PageLink
	relation map[uuid.UUID][]Relation
}

// NewMemoryRelationRepository returns an in-memory relation repository.
func NewMemoryRelationRepository() RelationRepository {
	return &memoryRelationRepository{
		pages:    map[uuid.UUID][]PageLink{},
		relation: map[uuid.UUID][]Relation{},
	}
}

func (r *memoryRelationRepository) PageIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	links := r.pages[entryID]
	out := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		out = append(out, link.PageID)
	}
	return out, nil
}

func (r *memoryRelationRepository) ReplacePages(ctx context.Context, entryID uuid.UUID, links []PageLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[entryID] = append([]PageLink(nil), links...)
	return nil
}

func (r *memoryRelationRepository) RelatedIDs(ctx context.Context, entryID, relatedModuleID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []uuid.UUID{}
	for _, link := range r.relation[entryID] {
		if link.RelatedModuleID == relatedModuleID {
			out = append(out, link.RelatedEntryID)
		}
	}
	return out, nil
}

func (r *memoryRelationRepository) AllRelatedIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	links := r.relation[entryID]
	out := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		out = append(out, link.RelatedEntryID)
	}
	return out, nil
}

func (r *memoryRelationRepository) ReplaceRelated(ctx context.Context, entryID, relatedModuleID uuid.UUID, links []Relation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := make([]Relation, 0, len(r.relation[entryID])+len(links))
	for _, link := range r.relation[entryID] {
		if link.RelatedModuleID != relatedModuleID {
			kept = append(kept, link)
		}
	}
	r.relation[entryID] = append(kept, links...)
	return nil
}

func (r *memoryRelationRepository) DeleteForEntry(ctx context.Context, entryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, entryID)
	delete(r.relation, entryID)
	return nil
}
