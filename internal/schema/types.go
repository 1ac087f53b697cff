package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// FieldType enumerates the closed set of admin-assignable field types.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldCode     FieldType = "code"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldURL      FieldType = "url"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldColor    FieldType = "color"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
	FieldImage    FieldType = "image"
)

// FieldTypes lists every supported field type in a stable order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldText, FieldTextarea, FieldCode, FieldNumber, FieldEmail,
		FieldURL, FieldCheckbox, FieldSelect, FieldRadio, FieldColor,
		FieldDate, FieldFile, FieldImage,
	}
}

// Field is one admin-authored field definition. Name doubles as the storage
// key and the template placeholder token, so it is restricted to
// [a-zA-Z0-9_]+ and must never contain placeholder delimiter characters.
type Field struct {
	Name           string     `json:"name"`
	Label          string     `json:"label,omitempty"`
	Type           FieldType  `json:"type"`
	Required       bool       `json:"required,omitempty"`
	Options        []string   `json:"options,omitempty"`
	SourceModuleID *uuid.UUID `json:"source_module_id,omitempty"`
	IsSlug         bool       `json:"is_slug,omitempty"`
}

// IsPicker reports whether the field references another module's entries.
func (f Field) IsPicker() bool {
	return f.SourceModuleID != nil && *f.SourceModuleID != uuid.Nil
}

// Definition pairs a module's plain fields with its optional mapping fields
// and type tags. It is the single schema representation every consumer
// (validator, store, renderer) interprets.
type Definition struct {
	Fields        []Field
	MappingFields []Field
	Types         []string
}

// MappingEnabled reports whether the definition carries repeatable fields.
func (d Definition) MappingEnabled() bool {
	return len(d.MappingFields) > 0
}

// TypesEnabled reports whether entries must declare a type tag.
func (d Definition) TypesEnabled() bool {
	return len(d.Types) > 0
}

// FieldByName scans the plain fields in declared order.
func (d Definition) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// MappingFieldByName scans the mapping fields in declared order.
func (d Definition) MappingFieldByName(name string) (Field, bool) {
	for _, f := range d.MappingFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SlugField returns the field flagged as the entry slug source, if any.
func (d Definition) SlugField() (Field, bool) {
	for _, f := range d.Fields {
		if f.IsSlug {
			return f, true
		}
	}
	return Field{}, false
}

// Stringify renders a stored value for template output and labels. Strings
// pass through, nil becomes empty, scalars use their Go literal form, and
// composite values fall back to JSON so the output stays deterministic.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", v)
	case json.Number:
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
