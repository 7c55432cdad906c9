package storage

import "errors"

var (
	// ErrNotFound indicates the entry does not exist
	ErrNotFound = errors.New("entry not found")

	// ErrNotDirectory indicates a directory was expected
	ErrNotDirectory = errors.New("not a directory")

	// ErrIsDirectory indicates a file was expected but the entry is a directory
	ErrIsDirectory = errors.New("is a directory")

	// ErrOutsideRoot indicates a path that resolves outside the backend root
	ErrOutsideRoot = errors.New("path escapes root")
)
