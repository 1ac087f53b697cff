package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// fieldDocumentSchema vets admin-authored field-definition documents before
// they are interpreted. Structural rules only; cross-field invariants
// (duplicate names, single slug source) stay in ValidateFields.
const fieldDocumentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "type"],
		"properties": {
			"name": {"type": "string", "pattern": "^[a-zA-Z0-9_]+$"},
			"label": {"type": "string"},
			"type": {
				"type": "string",
				"enum": ["text", "textarea", "code", "number", "email", "url",
					"checkbox", "select", "radio", "color", "date", "file", "image"]
			},
			"required": {"type": "boolean"},
			"options": {"type": "array", "items": {"type": "string"}},
			"source_module_id": {"type": "string"},
			"is_slug": {"type": "boolean"}
		},
		"additionalProperties": false
	}
}`

var (
	metaSchemaOnce sync.Once
	metaSchema     *jsonschema.Schema
	metaSchemaErr  error
)

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("fields.json", bytes.NewReader([]byte(fieldDocumentSchema))); err != nil {
			metaSchemaErr = err
			return
		}
		metaSchema, metaSchemaErr = compiler.Compile("fields.json")
	})
	return metaSchema, metaSchemaErr
}

// ValidateFieldDocument checks a raw field-definition document (as decoded
// from admin input or storage) against the embedded meta-schema.
func ValidateFieldDocument(document []any) error {
	compiled, err := compiledMetaSchema()
	if err != nil {
		return err
	}
	if err := compiled.Validate(document); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return nil
}

// ParseFieldDocument decodes and vets a raw field document, returning typed
// field definitions. Cross-field invariants are enforced after decoding.
func ParseFieldDocument(document []any) ([]Field, error) {
	if err := ValidateFieldDocument(document); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}
	var fields []Field
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	return fields, nil
}
