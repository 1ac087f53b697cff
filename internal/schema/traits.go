package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CoerceFunc converts a raw submitted value into its stored form. The input
// has already been checked for presence; coercion only deals with shape.
type CoerceFunc func(value any) (any, error)

// Traits centralises everything type-dependent about a field so the
// validator, resolver, and renderer dispatch off one table instead of
// scattering per-type branches.
type Traits struct {
	// Input names the HTML control an editor should render.
	Input string
	// IsFile marks types whose values are stored file URLs and whose writes
	// may carry binary uploads.
	IsFile bool
	// OptionBound marks types whose values come from the declared option
	// set. Membership is deliberately not enforced by the validator; the
	// option list only drives the editing UI.
	OptionBound bool
	Coerce      CoerceFunc
}

var traitTable = map[FieldType]Traits{
	FieldText:     {Input: "text", Coerce: coerceString},
	FieldTextarea: {Input: "textarea", Coerce: coerceString},
	FieldCode:     {Input: "code", Coerce: coerceString},
	FieldNumber:   {Input: "number", Coerce: coerceNumber},
	FieldEmail:    {Input: "email", Coerce: coerceEmail},
	FieldURL:      {Input: "url", Coerce: coerceURL},
	FieldCheckbox: {Input: "checkbox", Coerce: coerceBool},
	FieldSelect:   {Input: "select", OptionBound: true, Coerce: coerceString},
	FieldRadio:    {Input: "radio", OptionBound: true, Coerce: coerceString},
	FieldColor:    {Input: "color", Coerce: coerceString},
	FieldDate:     {Input: "date", Coerce: coerceString},
	FieldFile:     {Input: "file", IsFile: true, Coerce: coerceString},
	FieldImage:    {Input: "image", IsFile: true, Coerce: coerceString},
}

// TraitsFor resolves the trait entry for a field type.
func TraitsFor(t FieldType) (Traits, bool) {
	traits, ok := traitTable[t]
	return traits, ok
}

// IsFileType reports whether values of the type are stored file URLs.
func IsFileType(t FieldType) bool {
	traits, ok := traitTable[t]
	return ok && traits.IsFile
}

// KnownType reports whether the type belongs to the closed set.
func KnownType(t FieldType) bool {
	_, ok := traitTable[t]
	return ok
}

var errNotScalar = errors.New("must be a scalar value")

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Stringify(v), nil
	default:
		return nil, errNotScalar
	}
}

func coerceNumber(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, errors.New("must be a number")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return parsed, nil
	default:
		return nil, errors.New("must be a number")
	}
}

func coerceEmail(value any) (any, error) {
	coerced, err := coerceString(value)
	if err != nil {
		return nil, err
	}
	s := coerced.(string)
	if s == "" {
		return s, nil
	}
	if err := validation.Validate(s, is.EmailFormat); err != nil {
		return nil, fmt.Errorf("must be a valid email address")
	}
	return s, nil
}

func coerceURL(value any) (any, error) {
	coerced, err := coerceString(value)
	if err != nil {
		return nil, err
	}
	s := coerced.(string)
	if s == "" {
		return s, nil
	}
	if err := validation.Validate(s, is.URL); err != nil {
		return nil, fmt.Errorf("must be a valid URL")
	}
	return s, nil
}

func coerceBool(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "off", "no":
			return false, nil
		case "1", "true", "on", "yes":
			return true, nil
		default:
			return nil, errors.New("must be a boolean")
		}
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	default:
		return nil, errors.New("must be a boolean")
	}
}
