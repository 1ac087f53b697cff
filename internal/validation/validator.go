package validation

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
)

// Mode distinguishes create from update semantics. File and image fields are
// always optional on update so editors can change other fields without
// re-uploading.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Input is the raw submission for an entry or section-instance write.
// Data values may be scalars or *interfaces.FileUpload; MappingData arrays
// may mix stored URL strings and uploads per element.
type Input struct {
	Slug        string
	Type        string
	Data        map[string]any
	MappingData map[string][]any
}

// Result is the sanitized payload. Pending uploads are passed through
// untouched; the write pipeline replaces them with stored URLs.
type Result struct {
	Slug        string
	Type        string
	Data        map[string]any
	MappingData map[string][]any
}

// Validate interprets the schema definition against raw input and returns a
// typed payload or the full set of field-scoped errors. Failures accumulate
// across every field; the caller always sees all violations at once.
func Validate(def schema.Definition, in Input, mode Mode) (*Result, FieldErrors) {
	errs := FieldErrors{}
	result := &Result{
		Slug:        strings.TrimSpace(in.Slug),
		Data:        map[string]any{},
		MappingData: map[string][]any{},
	}

	if result.Slug == "" {
		errs.Add("slug", "slug is required")
	}

	validateTypeTag(def, in, result, errs)

	for _, field := range def.Fields {
		validatePlainField(field, in.Data, mode, result, errs)
	}

	if def.MappingEnabled() {
		for _, field := range def.MappingFields {
			validateMappingField(field, in.MappingData, mode, result, errs)
		}
	}

	if errs.Any() {
		return nil, errs
	}
	return result, nil
}

func validateTypeTag(def schema.Definition, in Input, result *Result, errs FieldErrors) {
	if !def.TypesEnabled() {
		return
	}
	tag := strings.TrimSpace(in.Type)
	if tag == "" {
		errs.Add("type", "type is required")
		return
	}
	for _, declared := range def.Types {
		if tag == declared {
			result.Type = tag
			return
		}
	}
	errs.Addf("type", "type must be one of: %s", strings.Join(def.Types, ", "))
}

func validatePlainField(field schema.Field, data map[string]any, mode Mode, result *Result, errs FieldErrors) {
	traits, ok := schema.TraitsFor(field.Type)
	if !ok {
		errs.Addf(field.Name, "unknown field type %q", field.Type)
		return
	}

	value, present := data[field.Name]

	if traits.IsFile {
		// Three legal shapes: absent/empty (keep or stay empty), a stored
		// URL string (round-trips unchanged), or a new upload.
		switch v := value.(type) {
		case nil:
			if field.Required && mode == ModeCreate {
				errs.Addf(field.Name, "%s is required", fieldLabel(field))
			}
		case string:
			if v == "" {
				if field.Required && mode == ModeCreate {
					errs.Addf(field.Name, "%s is required", fieldLabel(field))
				}
				if mode == ModeUpdate {
					// Forms post an empty value when nothing is re-uploaded;
					// the stored URL stays. Clearing goes through the
					// deleted-field set.
					return
				}
			}
			result.Data[field.Name] = v
		case *interfaces.FileUpload:
			checkUpload(errs, field.Name, v)
			result.Data[field.Name] = v
		default:
			errs.Addf(field.Name, "%s must be a file or string", fieldLabel(field))
		}
		return
	}

	if !present || value == nil || value == "" {
		if field.Required {
			errs.Addf(field.Name, "%s is required", fieldLabel(field))
		}
		if present {
			// Explicit empty submissions keep their coerced zero form.
			coerced, err := traits.Coerce(value)
			if err == nil {
				result.Data[field.Name] = coerced
			}
		}
		return
	}

	coerced, err := traits.Coerce(value)
	if err != nil {
		errs.Addf(field.Name, "%s %s", fieldLabel(field), err.Error())
		return
	}
	result.Data[field.Name] = coerced
}

func validateMappingField(field schema.Field, mappingData map[string][]any, mode Mode, result *Result, errs FieldErrors) {
	traits, ok := schema.TraitsFor(field.Type)
	if !ok {
		errs.Addf(field.Name, "unknown field type %q", field.Type)
		return
	}

	values, present := mappingData[field.Name]
	if !present {
		return
	}

	out := make([]any, 0, len(values))
	for i, element := range values {
		path := elementPath(field.Name, i)

		if traits.IsFile {
			switch v := element.(type) {
			case nil:
				// Updates rebuild the array and drop empty elements; creates
				// keep the placeholder so columns stay row-aligned.
				if mode == ModeCreate {
					out = append(out, "")
				}
			case string:
				if v == "" && mode == ModeUpdate {
					continue
				}
				out = append(out, v)
			case *interfaces.FileUpload:
				checkUpload(errs, path, v)
				out = append(out, v)
			default:
				errs.Addf(path, "%s must be a file or string", fieldLabel(field))
			}
			continue
		}

		if element == nil {
			out = append(out, "")
			continue
		}
		coerced, err := traits.Coerce(element)
		if err != nil {
			errs.Addf(path, "%s %s", fieldLabel(field), err.Error())
			continue
		}
		out = append(out, coerced)
	}
	result.MappingData[field.Name] = out
}

func fieldLabel(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func elementPath(name string, index int) string {
	return name + "." + strconv.Itoa(index)
}
