package entries

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is one record of a module. Data is shaped entirely by the owning
// module's field schema: plain fields hold scalars (file fields hold stored
// URLs), mapping fields hold column-oriented arrays, and an optional "type"
// key carries the entry's type tag.
type Entry struct {
	bun.BaseModel `bun:"table:module_entries,alias:me"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ModuleID uuid.UUID `bun:"module_id,notnull,type:uuid" json:"module_id"`

	// Slug is unique within the owning module, not globally.
	Slug string         `bun:"slug,notnull" json:"slug"`
	Data map[string]any `bun:"data,type:jsonb,notnull" json:"data"`

	// SectionData holds ordered section-instance payloads for entries whose
	// module drives a detail sub-page. Each item carries a "section_id" key,
	// an optional "data" map of scalars, and repeatable columns.
	SectionData []map[string]any `bun:"section_data,type:jsonb" json:"section_data,omitempty"`

	SortOrder int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PageLink joins an entry to a page (many-to-many).
type PageLink struct {
	bun.BaseModel `bun:"table:module_entry_page,alias:mep"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	EntryID   uuid.UUID `bun:"module_entry_id,notnull,type:uuid" json:"module_entry_id"`
	PageID    uuid.UUID `bun:"page_id,notnull,type:uuid" json:"page_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Relation joins an entry to another module's entry. The relation is scoped
// by the related entry's module so replace-writes touch one module's set at
// a time without disturbing the rest.
type Relation struct {
	bun.BaseModel `bun:"table:module_entry_mapping,alias:mem"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	EntryID         uuid.UUID `bun:"module_entry_id,notnull,type:uuid" json:"module_entry_id"`
	RelatedEntryID  uuid.UUID `bun:"related_module_entry_id,notnull,type:uuid" json:"related_module_entry_id"`
	RelatedModuleID uuid.UUID `bun:"related_module_id,notnull,type:uuid" json:"related_module_id"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PickerOption is one selectable entry for picker fields and mapping lists.
type PickerOption struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// EntryData is one row of the aggregated module read used by pages composed
// outside the page/section model.
type EntryData struct {
	ID       uuid.UUID         `json:"id"`
	Slug     string            `json:"slug"`
	Data     map[string]any    `json:"data"`
	Sections map[string]string `json:"sections,omitempty"`
}

// Merged flattens the row into the wire shape consumed by JSON callers:
// the data map and slug plus one key per rendered section identifier.
func (d EntryData) Merged() map[string]any {
	out := map[string]any{
		"data": d.Data,
		"slug": d.Slug,
	}
	for identifier, html := range d.Sections {
		out[identifier] = html
	}
	return out
}

// ListOptions filter and shape module entry listings.
type ListOptions struct {
	// ActiveOnly excludes inactive entries.
	ActiveOnly bool
	// Search matches a free-text term against every plain and mapping field
	// value.
	Search string
}
