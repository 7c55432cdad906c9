// Package lock keeps two sort runs from working on the same root at once.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for a root
var ErrLocked = errors.New("another sort is already running on this directory")

// RootLock is an advisory file lock tied to one sort root.
// The lock file lives outside the root so it is never sorted itself.
type RootLock struct {
	root string
	path string
	lock *flock.Flock
}

// ForRoot returns the lock for root inside the user cache directory
func ForRoot(root string) (*RootLock, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return NewInDir(filepath.Join(cacheDir, "sortnorris", "locks"), root)
}

// NewInDir returns the lock for root with its lock file under dir
func NewInDir(dir, root string) (*RootLock, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	path := filepath.Join(dir, hex.EncodeToString(sum[:])+".lock")

	return &RootLock{
		root: abs,
		path: path,
		lock: flock.New(path),
	}, nil
}

// TryLock acquires the lock without blocking; ErrLocked means it is held elsewhere
func (l *RootLock) TryLock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", l.root, ErrLocked)
	}
	return nil
}

// Unlock releases the lock
func (l *RootLock) Unlock() error {
	return l.lock.Unlock()
}

// Path returns the lock file path
func (l *RootLock) Path() string {
	return l.path
}

// Root returns the absolute root the lock guards
func (l *RootLock) Root() string {
	return l.root
}
