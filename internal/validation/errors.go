package validation

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors accumulates human-readable messages keyed by field path.
// Mapping element failures use "field.<index>" paths so a caller can render
// them inline next to the offending array position.
type FieldErrors map[string][]string

// Add appends a message for the given field path.
func (e FieldErrors) Add(path, message string) {
	e[path] = append(e[path], message)
}

// Addf appends a formatted message for the given field path.
func (e FieldErrors) Addf(path, format string, args ...any) {
	e.Add(path, fmt.Sprintf(format, args...))
}

// Merge folds another error set into this one.
func (e FieldErrors) Merge(other FieldErrors) {
	for path, messages := range other {
		e[path] = append(e[path], messages...)
	}
}

// Any reports whether at least one field failed.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Error renders the full set in path order so the type can travel as a
// regular error value.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", path, strings.Join(e[path], "; ")))
	}
	return strings.Join(parts, ", ")
}

// AsFieldErrors extracts a FieldErrors value from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	if err == nil {
		return nil, false
	}
	if fe, ok := err.(FieldErrors); ok {
		return fe, true
	}
	return nil, false
}
