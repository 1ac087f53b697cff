package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageType distinguishes section-composed pages from module-driven ones.
type PageType string

const (
	// PageTypeCMS pages are composed from ordered section bindings.
	PageTypeCMS PageType = "cms"
	// PageTypeModular pages are backed by a module; callers render them from
	// the module's aggregated entry data.
	PageTypeModular PageType = "modular"
)

// Page is a publishable document. Only published pages resolve on the
// public render path.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID    uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Title string    `bun:"title,notnull" json:"title"`

	// Slug is globally unique across pages.
	Slug     string   `bun:"slug,notnull,unique" json:"slug"`
	PageType PageType `bun:"page_type,notnull,default:'cms'" json:"page_type"`

	// ModuleID backs modular pages; nil for cms pages.
	ModuleID *uuid.UUID `bun:"module_id,type:uuid" json:"module_id,omitempty"`

	IsPublished bool      `bun:"is_published,notnull,default:false" json:"is_published"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// SectionBinding attaches one section template to a page with the page's own
// payload for that instance. The payload dies with the binding.
type SectionBinding struct {
	bun.BaseModel `bun:"table:page_page_section,alias:pps"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PageID    uuid.UUID `bun:"page_id,notnull,type:uuid" json:"page_id"`
	SectionID uuid.UUID `bun:"page_section_id,notnull,type:uuid" json:"page_section_id"`
	SortOrder int       `bun:"sort_order,notnull,default:0" json:"sort_order"`

	// Data is the section payload: a "data" map of scalars plus repeatable
	// columns, shaped by the section's own field schema.
	Data map[string]any `bun:"section_data,type:jsonb" json:"section_data,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// RenderedPage is the composer output: the concatenated document plus each
// section's own HTML keyed by identifier, for callers that need partials.
type RenderedPage struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	HTML     string            `json:"html"`
	Sections map[string]string `json:"sections,omitempty"`
}
