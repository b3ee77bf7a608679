package objectfs

import (
	"context"
	"errors"
	"io"
	"path"
	"time"
)

var (
	// ErrNotFound is returned when a logical path resolves to no object
	// in the backing store.
	ErrNotFound = errors.New("object does not exist")

	// ErrMalformedPath is returned when a path carries no usable object
	// name, such as a scratch directory sitting directly under the root.
	ErrMalformedPath = errors.New("object name is missing")
)

// FileStatus describes a single entry in the emulated namespace.
//
// IsDir is true only for zero-byte directory marker objects, recognized
// by their content type. Everything else is a plain file.
type FileStatus struct {
	Path    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

// Name returns the last path segment of the entry.
func (fs *FileStatus) Name() string {
	return path.Base(fs.Path)
}

// Filter selects entries returned by List. A nil Filter accepts
// everything.
type Filter func(path string) bool

// StoreClient is the capability set a backing object store has to
// provide. Concrete providers implement it against their own API and
// are selected when the filesystem session is created.
//
// Paths are client-visible (scheme qualified or root relative), keys
// are flat names prefixed with the data root. Implementations are
// expected to accept both forms and normalize internally.
type StoreClient interface {
	// Scheme returns the URI scheme the client serves, without separators.
	Scheme() string

	// DataRoot returns the bucket-equivalent container the client is
	// bound to. Fixed for the lifetime of the client.
	DataRoot() string

	Exists(ctx context.Context, path string) (bool, error)

	// GetObject returns a reader over the object content, or an error
	// wrapping ErrNotFound.
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)

	// CreateObject returns a writer to the given key. The object becomes
	// visible when the writer is closed. The writer is single use and
	// owned exclusively by the caller.
	CreateObject(ctx context.Context, key string, contentType string, metadata map[string]string) (io.WriteCloser, error)

	// List enumerates entries under path. With recursive set, nesting is
	// flattened. With prefixBased set, path is treated as a raw name
	// prefix, so the result includes the entry at path itself and any
	// sibling sharing the prefix.
	List(ctx context.Context, path string, recursive bool, prefixBased bool) ([]FileStatus, error)

	DeleteObject(ctx context.Context, path string) error

	Rename(ctx context.Context, src string, dst string) (bool, error)

	// GetObjectMetadata resolves a single entry, or fails with an error
	// wrapping ErrNotFound.
	GetObjectMetadata(ctx context.Context, path string) (*FileStatus, error)
}
