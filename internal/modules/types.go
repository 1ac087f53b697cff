package modules

import (
	"time"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Module is an admin-defined record type: a named field schema every entry
// of the module conforms to.
type Module struct {
	bun.BaseModel `bun:"table:modules,alias:m"`

	ID   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name string    `bun:"name,notnull" json:"name"`
	Slug string    `bun:"slug,notnull,unique" json:"slug"`

	// Fields shapes every entry's data payload. MappingFields, when present,
	// shape the repeatable column-oriented arrays.
	Fields        []schema.Field `bun:"fields,type:jsonb,notnull" json:"fields"`
	MappingFields []schema.Field `bun:"mapping_fields,type:jsonb" json:"mapping_fields,omitempty"`

	// MapToModuleIDs lists modules this module's entries may relate to.
	MapToModuleIDs []uuid.UUID `bun:"map_to_module_ids,type:jsonb" json:"map_to_module_ids,omitempty"`

	// PageSectionIDs configures the detail sub-page sections available to
	// entries of this module, in render order.
	PageSectionIDs []uuid.UUID `bun:"page_section_ids,type:jsonb" json:"page_section_ids,omitempty"`

	// Types is an optional closed set of tags; when non-empty every entry
	// must declare one.
	Types []string `bun:"types,type:jsonb" json:"types,omitempty"`

	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Definition assembles the schema representation consumed by the validator,
// resolver, and renderer.
func (m *Module) Definition() schema.Definition {
	if m == nil {
		return schema.Definition{}
	}
	return schema.Definition{
		Fields:        m.Fields,
		MappingFields: m.MappingFields,
		Types:         m.Types,
	}
}

// MappingEnabled reports whether entries carry repeatable mapping data.
func (m *Module) MappingEnabled() bool {
	return m != nil && len(m.MappingFields) > 0
}
