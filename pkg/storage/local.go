package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", mapError(err))
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotDirectory)
	}

	return &Local{rootPath: absPath}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// resolve maps a slash-separated relative path onto the root
func (l *Local) resolve(rel string) (string, error) {
	if rel == "" || rel == "." {
		return l.rootPath, nil
	}

	cleaned := path.Clean(filepath.ToSlash(rel))
	if path.IsAbs(cleaned) || filepath.IsAbs(rel) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideRoot)
	}

	return filepath.Join(l.rootPath, filepath.FromSlash(cleaned)), nil
}

// List returns the direct children of the root
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", mapError(err))
	}

	files := make([]FileInfo, 0, len(entries))
	for _, d := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info, err := d.Info()
		if err != nil {
			// Removed between ReadDir and Info: not part of the snapshot
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", d.Name(), err)
		}

		files = append(files, fileInfoFrom(d.Name(), d.Name(), info))
	}

	return files, nil
}

// EnsureDir creates a directory under the root if it is absent
func (l *Local) EnsureDir(ctx context.Context, name string) error {
	fullPath, err := l.resolve(name)
	if err != nil {
		return err
	}

	if err := checkDir(fullPath, name); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := os.Mkdir(fullPath, 0755); err != nil {
		// Lost a race with another creator; accept it if it is a directory
		if errors.Is(err, fs.ErrExist) {
			return checkDir(fullPath, name)
		}
		return fmt.Errorf("failed to create directory %s: %w", name, mapError(err))
	}

	return nil
}

func checkDir(fullPath, name string) error {
	info, err := os.Stat(fullPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", name, mapError(err))
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", name, ErrNotDirectory)
	}
	return nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	fullPath, err := l.resolve(p)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", mapError(err))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s: %w", p, ErrIsDirectory)
	}

	return file, nil
}

// Write stages content in a temporary sibling and renames it over path
func (l *Local) Write(ctx context.Context, p string, reader io.Reader, size int64, metadata *FileInfo) error {
	fullPath, err := l.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", mapError(err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".sortnorris-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", mapError(err))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, reader)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Preserve metadata if provided
	if metadata != nil {
		if metadata.Permissions != 0 {
			if err := os.Chmod(tmpPath, os.FileMode(metadata.Permissions)); err != nil {
				return fmt.Errorf("failed to set permissions: %w", err)
			}
		}
		if !metadata.ModTime.IsZero() {
			if err := os.Chtimes(tmpPath, metadata.ModTime, metadata.ModTime); err != nil {
				return fmt.Errorf("failed to set modification time: %w", err)
			}
		}
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("failed to commit file: %w", mapError(err))
	}
	committed = true

	return nil
}

// Remove deletes a single file
func (l *Local) Remove(ctx context.Context, p string) error {
	fullPath, err := l.resolve(p)
	if err != nil {
		return err
	}
	if fullPath == l.rootPath {
		return fmt.Errorf("refusing to remove root: %w", ErrIsDirectory)
	}

	info, err := os.Lstat(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", mapError(err))
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", p, ErrIsDirectory)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete: %w", mapError(err))
	}

	return nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, p string) (bool, error) {
	fullPath, err := l.resolve(p)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns entry metadata
func (l *Local) Stat(ctx context.Context, p string) (*FileInfo, error) {
	fullPath, err := l.resolve(p)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", mapError(err))
	}

	rel, err := filepath.Rel(l.rootPath, fullPath)
	if err != nil {
		return nil, err
	}

	fi := fileInfoFrom(info.Name(), filepath.ToSlash(rel), info)
	return &fi, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func fileInfoFrom(name, rel string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Name:        name,
		Path:        rel,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		IsRegular:   info.Mode().IsRegular(),
		Permissions: uint32(info.Mode().Perm()),
	}
}

// mapError attaches the package sentinels to os errors
func mapError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}
