package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// Billy is a storage backend over a go-billy filesystem.
// The filesystem root is the sort root.
type Billy struct {
	fs billy.Filesystem

	// memfs keeps its directory tree in plain maps, so metadata calls
	// (create, rename, remove, list) are serialized. File content streams
	// outside the lock.
	mu sync.Mutex
}

// NewBilly wraps an existing go-billy filesystem
func NewBilly(filesystem billy.Filesystem) *Billy {
	return &Billy{fs: filesystem}
}

// NewMemory returns a backend over an empty in-memory filesystem
func NewMemory() *Billy {
	return NewBilly(memfs.New())
}

// NewBillyOS returns a backend over a go-billy OS filesystem rooted at rootPath
func NewBillyOS(rootPath string) (*Billy, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", mapError(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrNotDirectory)
	}
	return NewBilly(osfs.New(rootPath)), nil
}

// Filesystem exposes the wrapped filesystem, mainly for seeding tests
func (b *Billy) Filesystem() billy.Filesystem {
	return b.fs
}

// resolve maps a relative path onto an absolute billy path
func (b *Billy) resolve(rel string) (string, error) {
	if rel == "" || rel == "." || rel == "/" {
		return "/", nil
	}
	cleaned := path.Clean(strings.ReplaceAll(rel, `\`, "/"))
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideRoot)
	}
	return "/" + cleaned, nil
}

// List returns the direct children of the root
func (b *Billy) List(ctx context.Context) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	entries, err := b.fs.ReadDir("/")
	b.mu.Unlock()
	if err != nil {
		// An untouched memfs has no root node yet
		if errors.Is(err, fs.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, info := range entries {
		files = append(files, fileInfoFrom(info.Name(), info.Name(), info))
	}
	return files, nil
}

// EnsureDir creates a directory under the root if it is absent
func (b *Billy) EnsureDir(ctx context.Context, name string) error {
	p, err := b.resolve(name)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.fs.Stat(p)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s: %w", name, ErrNotDirectory)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	if err := b.fs.MkdirAll(p, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", name, err)
	}
	return nil
}

// Read opens a file for reading
func (b *Billy) Read(ctx context.Context, rel string) (io.ReadCloser, error) {
	p, err := b.resolve(rel)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.fs.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", mapError(err))
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rel, ErrIsDirectory)
	}

	f, err := b.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", mapError(err))
	}
	return f, nil
}

// Write stages content in a temporary sibling and renames it over path
func (b *Billy) Write(ctx context.Context, rel string, reader io.Reader, size int64, metadata *FileInfo) error {
	p, err := b.resolve(rel)
	if err != nil {
		return err
	}
	dir, base := path.Split(p)

	b.mu.Lock()
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := b.fs.TempFile(dir, "."+base+".sortnorris-")
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	tmpPath := tmp.Name()
	if !path.IsAbs(tmpPath) {
		tmpPath = path.Join(dir, path.Base(tmpPath))
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			b.mu.Lock()
			b.fs.Remove(tmpPath)
			b.mu.Unlock()
		}
	}()

	written, err := io.Copy(tmp, reader)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if change, ok := b.fs.(billy.Change); ok && metadata != nil {
		if metadata.Permissions != 0 {
			if err := change.Chmod(tmpPath, os.FileMode(metadata.Permissions)); err != nil {
				return fmt.Errorf("failed to set permissions: %w", err)
			}
		}
		if !metadata.ModTime.IsZero() {
			if err := change.Chtimes(tmpPath, metadata.ModTime, metadata.ModTime); err != nil {
				return fmt.Errorf("failed to set modification time: %w", err)
			}
		}
	}

	if err := b.fs.Rename(tmpPath, p); err != nil {
		// Not every billy filesystem renames over an existing file
		info, statErr := b.fs.Stat(p)
		if statErr != nil || info.IsDir() {
			return fmt.Errorf("failed to commit file: %w", err)
		}
		if err := b.fs.Remove(p); err != nil {
			return fmt.Errorf("failed to replace file: %w", err)
		}
		if err := b.fs.Rename(tmpPath, p); err != nil {
			return fmt.Errorf("failed to commit file: %w", err)
		}
	}
	committed = true

	return nil
}

// Remove deletes a single file
func (b *Billy) Remove(ctx context.Context, rel string) error {
	p, err := b.resolve(rel)
	if err != nil {
		return err
	}
	if p == "/" {
		return fmt.Errorf("refusing to remove root: %w", ErrIsDirectory)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.fs.Lstat(p)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", mapError(err))
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", rel, ErrIsDirectory)
	}
	if err := b.fs.Remove(p); err != nil {
		return fmt.Errorf("failed to delete: %w", mapError(err))
	}
	return nil
}

// Exists checks if a file or directory exists
func (b *Billy) Exists(ctx context.Context, rel string) (bool, error) {
	p, err := b.resolve(rel)
	if err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err = b.fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns entry metadata
func (b *Billy) Stat(ctx context.Context, rel string) (*FileInfo, error) {
	p, err := b.resolve(rel)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.fs.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", mapError(err))
	}

	fi := fileInfoFrom(info.Name(), strings.TrimPrefix(p, "/"), info)
	return &fi, nil
}

// Close releases resources (no-op for billy filesystems)
func (b *Billy) Close() error {
	return nil
}
