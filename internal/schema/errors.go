package schema

import "errors"

var (
	ErrFieldNameRequired  = errors.New("schema: field name is required")
	ErrFieldNameInvalid   = errors.New("schema: field name must match [a-zA-Z0-9_]+")
	ErrFieldTypeUnknown   = errors.New("schema: unknown field type")
	ErrFieldNameDuplicate = errors.New("schema: duplicate field name")
	ErrMultipleSlugFields = errors.New("schema: at most one field may be the slug source")
	ErrTypeTagDuplicate   = errors.New("schema: duplicate type tag")
	ErrTypeTagEmpty       = errors.New("schema: type tags must be non-empty")
	ErrDocumentInvalid    = errors.New("schema: field document does not match the meta-schema")
)
