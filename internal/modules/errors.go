package modules

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired = errors.New("modules: name is required")
	ErrSlugRequired = errors.New("modules: slug is required")
	ErrSlugInvalid  = errors.New("modules: slug contains invalid characters")
	ErrSlugExists   = errors.New("modules: slug already exists")
	ErrIDRequired   = errors.New("modules: module id required")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
