package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a root entry
type FileInfo struct {
	Name        string // Entry name relative to its parent
	Path        string // Slash-separated path relative to the backend root
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsRegular   bool // False for directories, symlinks, devices and sockets
	Permissions uint32
}

// Backend is the directory-access capability the sorter works against.
// Paths are slash-separated and relative to the backend root; they must not
// escape it. Implementations include the local filesystem and go-billy
// filesystems (in-memory and OS-backed).
type Backend interface {
	// List returns the direct children of the root. It never recurses.
	List(ctx context.Context) ([]FileInfo, error)

	// EnsureDir creates the named directory under the root if it is absent.
	// An existing directory is reused untouched. An existing entry of any
	// other kind yields an error wrapping ErrNotDirectory.
	EnsureDir(ctx context.Context, name string) error

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content.
	// Content is staged and only appears under path once fully written.
	// If metadata is provided, attempts to preserve timestamps and permissions.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Remove deletes a single file. Directories are refused with ErrIsDirectory.
	Remove(ctx context.Context, path string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns entry metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}
