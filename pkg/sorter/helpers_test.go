package sorter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/sdejongh/sortnorris/pkg/models"
	"github.com/sdejongh/sortnorris/pkg/output"
	"github.com/sdejongh/sortnorris/pkg/storage"
)

func newOperation(root string) *models.SortOperation {
	return &models.SortOperation{
		ID:         "test-op",
		RootPath:   root,
		MaxWorkers: 4,
		BufferSize: 4096,
	}
}

// memRoot is an in-memory root with helpers to seed and inspect it
type memRoot struct {
	*storage.Billy
}

func newMemRoot() *memRoot {
	return &memRoot{Billy: storage.NewMemory()}
}

func (m *memRoot) file(t *testing.T, rel, content string) {
	t.Helper()
	f, err := m.Filesystem().Create("/" + rel)
	if err != nil {
		t.Fatalf("failed to create %s: %v", rel, err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	f.Close()
}

func (m *memRoot) dir(t *testing.T, rel string) {
	t.Helper()
	if err := m.Filesystem().MkdirAll("/"+rel, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", rel, err)
	}
}

// content returns the file content and whether the file exists
func (m *memRoot) content(t *testing.T, rel string) (string, bool) {
	t.Helper()
	f, err := m.Filesystem().Open("/" + rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
		t.Fatalf("failed to open %s: %v", rel, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data), true
}

func (m *memRoot) exists(t *testing.T, rel string) bool {
	t.Helper()
	ok, err := m.Exists(context.Background(), rel)
	if err != nil {
		t.Fatalf("Exists(%s) error = %v", rel, err)
	}
	return ok
}

// faultBackend wraps a backend and injects failures per call
type faultBackend struct {
	storage.Backend

	ensureDir func(name string) error
	list      func() error
	read      func(path string) error
	write     func(path string) error
	remove    func(path string) error
	// corrupt makes reads of path return altered bytes of the same length
	corrupt func(path string) bool
}

func (f *faultBackend) EnsureDir(ctx context.Context, name string) error {
	if f.ensureDir != nil {
		if err := f.ensureDir(name); err != nil {
			return err
		}
	}
	return f.Backend.EnsureDir(ctx, name)
}

func (f *faultBackend) List(ctx context.Context) ([]storage.FileInfo, error) {
	if f.list != nil {
		if err := f.list(); err != nil {
			return nil, err
		}
	}
	return f.Backend.List(ctx)
}

func (f *faultBackend) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if f.read != nil {
		if err := f.read(path); err != nil {
			return nil, err
		}
	}
	r, err := f.Backend.Read(ctx, path)
	if err != nil || f.corrupt == nil || !f.corrupt(path) {
		return r, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		data[0] ^= 0xff
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *faultBackend) Write(ctx context.Context, path string, r io.Reader, size int64, meta *storage.FileInfo) error {
	if f.write != nil {
		if err := f.write(path); err != nil {
			return err
		}
	}
	return f.Backend.Write(ctx, path, r, size, meta)
}

func (f *faultBackend) Remove(ctx context.Context, path string) error {
	if f.remove != nil {
		if err := f.remove(path); err != nil {
			return err
		}
	}
	return f.Backend.Remove(ctx, path)
}

// recordingFormatter keeps every notification for inspection
type recordingFormatter struct {
	mu         sync.Mutex
	started    bool
	totalFiles int
	totalBytes int64
	updates    []output.ProgressUpdate
	report     *models.SortReport
}

func (r *recordingFormatter) Start(w io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.totalFiles = totalFiles
	r.totalBytes = totalBytes
	return nil
}

func (r *recordingFormatter) Progress(update output.ProgressUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
	return nil
}

func (r *recordingFormatter) Complete(report *models.SortReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
	return nil
}

func (r *recordingFormatter) Error(err error) error { return nil }

func (r *recordingFormatter) Name() string { return "recording" }

func (r *recordingFormatter) count(updateType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.updates {
		if u.Type == updateType {
			n++
		}
	}
	return n
}
