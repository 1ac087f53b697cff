package sections

import (
	"time"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Section is a reusable HTML fragment. The template carries `{field}` scalar
// placeholders and at most one repeatable block; Fields and MappingFields
// describe the payload an instance binds to it.
type Section struct {
	bun.BaseModel `bun:"table:page_sections,alias:ps"`

	ID uuid.UUID `bun:",pk,type:uuid" json:"id"`

	// Identifier is the stable key used when exposing rendered output as a
	// named map.
	Identifier string `bun:"identifier,notnull,unique" json:"identifier"`

	HTMLTemplate string `bun:"html_template,notnull" json:"html_template"`
	CSSStyles    string `bun:"css_styles" json:"css_styles,omitempty"`
	JavaScript   string `bun:"javascript" json:"javascript,omitempty"`

	Fields        []schema.Field `bun:"fields,type:jsonb" json:"fields,omitempty"`
	MappingFields []schema.Field `bun:"mapping_fields,type:jsonb" json:"mapping_fields,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Definition assembles the schema representation for instance payloads.
func (s *Section) Definition() schema.Definition {
	if s == nil {
		return schema.Definition{}
	}
	return schema.Definition{
		Fields:        s.Fields,
		MappingFields: s.MappingFields,
	}
}
