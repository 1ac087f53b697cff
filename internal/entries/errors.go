package entries

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrModuleRequired is returned when the owning module id is missing.
	ErrModuleRequired = errors.New("entries: module id is required")
	// ErrIDRequired is returned when an entry id is missing.
	ErrIDRequired = errors.New("entries: entry id is required")
	// ErrStoreRequired is returned when a write carries file uploads but the
	// service has no file store configured.
	ErrStoreRequired = errors.New("entries: file store is not configured")
)

// NotFoundError indicates a missing entry, module, or related resource. An
// entry addressed through the wrong parent module reports not-found rather
// than leaking its existence.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entries: %s %q not found", e.Resource, e.Key)
}

// ReferenceError rejects a mapping sync that names a page or entry outside
// the allowed scope. The whole sync fails before any link is written.
type ReferenceError struct {
	Resource string
	ID       uuid.UUID
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("entries: %s %s is not a valid mapping target", e.Resource, e.ID)
}
