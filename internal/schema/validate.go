package schema

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Validate checks a single field definition.
func (f Field) Validate() error {
	if err := validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error(ErrFieldNameRequired.Error()),
			validation.Match(fieldNamePattern).Error(ErrFieldNameInvalid.Error()),
		),
	); err != nil {
		return err
	}
	if !KnownType(f.Type) {
		return fmt.Errorf("%w: %q", ErrFieldTypeUnknown, f.Type)
	}
	return nil
}

// ValidateFields checks a declared field list: each field valid on its own,
// names unique within the list, and at most one slug source.
func ValidateFields(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	slugCount := 0
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %q", ErrFieldNameDuplicate, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.IsSlug {
			slugCount++
		}
	}
	if slugCount > 1 {
		return ErrMultipleSlugFields
	}
	return nil
}

// Validate checks the whole definition. Name collisions across the plain and
// mapping lists are permitted; each list only has to be unique on its own.
func (d Definition) Validate() error {
	if err := ValidateFields(d.Fields); err != nil {
		return err
	}
	if err := ValidateFields(d.MappingFields); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Types))
	for _, tag := range d.Types {
		if strings.TrimSpace(tag) == "" {
			return ErrTypeTagEmpty
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("%w: %q", ErrTypeTagDuplicate, tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}
