package interfaces

import (
	"context"
	"io"
)

// FileUpload carries a pending binary upload through the entry write
// pipeline. Size is the declared byte length; implementations must not trust
// it beyond validation and should read Content to completion.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileStore persists uploaded binaries and hands back a stable URL. The URL
// is stored as a plain string in entry data and is later recognised by the
// validator as an already-uploaded value, so it must not change between
// calls for the same stored object.
type FileStore interface {
	// Store writes the upload scoped under the owning module and returns the
	// public URL of the stored file.
	Store(ctx context.Context, upload FileUpload, scope string) (string, error)
	// Exists reports whether a previously returned URL still resolves to a
	// stored file.
	Exists(ctx context.Context, url string) bool
	// MakeDirectory ensures the scope directory exists. Stores backed by flat
	// namespaces may treat this as a no-op.
	MakeDirectory(ctx context.Context, scope string) error
}
