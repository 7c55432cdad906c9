package sorter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/sdejongh/sortnorris/pkg/logging"
	"github.com/sdejongh/sortnorris/pkg/models"
	"github.com/sdejongh/sortnorris/pkg/output"
	"github.com/sdejongh/sortnorris/pkg/storage"
)

// progressReader wraps an io.Reader to report progress
type progressReader struct {
	reader         io.Reader
	read           int64
	lastReported   int64
	lastReportTime time.Time
	onProgress     func(bytesRead int64)
}

// Progress reporting thresholds
const (
	progressReportInterval = 50 * time.Millisecond
	progressReportBytes    = 64 * 1024
)

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)

		if pr.onProgress != nil {
			shouldReport := pr.read-pr.lastReported >= progressReportBytes ||
				time.Since(pr.lastReportTime) >= progressReportInterval ||
				err != nil

			if shouldReport {
				pr.onProgress(pr.read)
				pr.lastReported = pr.read
				pr.lastReportTime = time.Now()
			}
		}
	}
	return n, err
}

// Worker moves recognized files into their category directories in parallel
type Worker struct {
	backend    storage.Backend
	logger     logging.Logger
	maxWorkers int
	bufferSize int
	semaphore  chan struct{}
}

// NewWorker creates a new worker pool
func NewWorker(backend storage.Backend, logger logging.Logger, maxWorkers, bufferSize int) *Worker {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if bufferSize < 1024 {
		bufferSize = 64 * 1024
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Worker{
		backend:    backend,
		logger:     logger,
		maxWorkers: maxWorkers,
		bufferSize: bufferSize,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// Execute moves every task and blocks until all of them reached an outcome.
// Once ctx is cancelled no new move starts; the rest are skipped.
func (w *Worker) Execute(ctx context.Context, tasks []*FileTask, report *models.SortReport, formatter output.Formatter) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	scheduled := 0
	for ; scheduled < len(tasks); scheduled++ {
		if !w.acquire(ctx) {
			break
		}
		wg.Add(1)

		go func(task *FileTask, fileIndex int) {
			defer wg.Done()
			defer func() { <-w.semaphore }()

			startTime := time.Now()
			task.MarkProcessing()

			if formatter != nil {
				mu.Lock()
				formatter.Progress(output.ProgressUpdate{
					Type:        "file_start",
					FileName:    task.Name,
					Category:    string(task.Category),
					TotalBytes:  task.Size,
					CurrentFile: fileIndex,
					TotalFiles:  len(tasks),
				})
				mu.Unlock()
			}

			moved, err := w.moveFile(ctx, task, func(bytesRead int64) {
				if formatter == nil {
					return
				}
				mu.Lock()
				formatter.Progress(output.ProgressUpdate{
					Type:         "file_progress",
					FileName:     task.Name,
					Category:     string(task.Category),
					BytesWritten: bytesRead,
					TotalBytes:   task.Size,
					CurrentFile:  fileIndex,
					TotalFiles:   len(tasks),
				})
				mu.Unlock()
			})
			duration := time.Since(startTime)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				task.MarkFailed(err, duration)
				report.Stats.FilesFailed.Add(1)

				stage := ""
				var moveErr *MoveError
				if errors.As(err, &moveErr) {
					stage = string(moveErr.Stage)
				}
				report.Failures = append(report.Failures, models.SortFailure{
					Name:      task.Name,
					Stage:     stage,
					Reason:    err.Error(),
					Timestamp: time.Now(),
				})

				w.logger.Error(ctx, "Failed to move file", err, logging.Fields{
					"file":     task.Name,
					"category": task.Category,
					"stage":    stage,
				})

				if formatter != nil {
					formatter.Progress(output.ProgressUpdate{
						Type:        "file_error",
						FileName:    task.Name,
						Category:    string(task.Category),
						CurrentFile: fileIndex,
						TotalFiles:  len(tasks),
						Error:       err,
					})
				}
				return
			}

			task.MarkMoved(moved, duration)
			report.Stats.FilesMoved.Add(1)
			report.Stats.BytesMoved.Add(moved)

			w.logger.Debug(ctx, "Moved file", logging.Fields{
				"file":     task.Name,
				"category": task.Category,
				"bytes":    moved,
				"duration": duration.String(),
			})

			if formatter != nil {
				formatter.Progress(output.ProgressUpdate{
					Type:         "file_complete",
					FileName:     task.Name,
					Category:     string(task.Category),
					BytesWritten: moved,
					TotalBytes:   task.Size,
					CurrentFile:  fileIndex,
					TotalFiles:   len(tasks),
				})
			}
		}(tasks[scheduled], scheduled+1)
	}

	wg.Wait()

	for _, task := range tasks[scheduled:] {
		task.MarkSkipped(models.ReasonCancelled)
		report.Stats.FilesSkipped.Add(1)
	}
	if remaining := len(tasks) - scheduled; remaining > 0 {
		w.logger.Warn(ctx, "Run cancelled, files left in place", logging.Fields{"files": remaining})
	}
}

// acquire takes a worker slot, or reports false once ctx is done
func (w *Worker) acquire(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case w.semaphore <- struct{}{}:
	}
	if ctx.Err() != nil {
		<-w.semaphore
		return false
	}
	return true
}

// moveFile copies a root file into its category directory, verifies the
// copy and removes the original. It returns the number of bytes moved.
// A failure leaves the original at the root and removes the copy, unless
// the original disappeared after the copy was verified.
func (w *Worker) moveFile(ctx context.Context, task *FileTask, onProgress func(int64)) (int64, error) {
	dest := path.Join(string(task.Category), task.Name)
	fail := func(stage MoveStage, err error) (int64, error) {
		return 0, &MoveError{Name: task.Name, Category: task.Category, Stage: stage, Err: err}
	}

	src, err := w.backend.Read(ctx, task.Name)
	if err != nil {
		return fail(StageRead, err)
	}
	defer src.Close()

	hasher := sha256.New()
	reader := &progressReader{
		reader:         io.TeeReader(src, hasher),
		lastReportTime: time.Now(),
		onProgress:     onProgress,
	}
	metadata := &storage.FileInfo{
		ModTime:     task.ModTime,
		Permissions: task.Permissions,
	}

	if err := w.backend.Write(ctx, dest, reader, task.Size, metadata); err != nil {
		return fail(StageWrite, err)
	}

	if err := w.verify(ctx, dest, task.Size, hasher.Sum(nil)); err != nil {
		if rmErr := w.backend.Remove(ctx, dest); rmErr != nil && !errors.Is(rmErr, storage.ErrNotFound) {
			err = fmt.Errorf("%w (removing copy %s also failed: %v)", err, dest, rmErr)
		}
		return fail(StageVerify, err)
	}

	if err := w.backend.Remove(ctx, task.Name); err != nil {
		// The original vanished on its own: the copy is now the only one
		if errors.Is(err, storage.ErrNotFound) {
			return fail(StageRemove, fmt.Errorf("original disappeared after copy, kept %s: %w", dest, err))
		}
		if rmErr := w.backend.Remove(ctx, dest); rmErr != nil {
			return fail(StageRemove, fmt.Errorf("%w (copy %s could not be removed: %v)", err, dest, rmErr))
		}
		return fail(StageRemove, err)
	}

	return task.Size, nil
}

// verify re-reads the destination and compares its size and SHA-256
// against what was streamed from the source
func (w *Worker) verify(ctx context.Context, dest string, size int64, want []byte) error {
	r, err := w.backend.Read(ctx, dest)
	if err != nil {
		return fmt.Errorf("failed to reopen copy: %w", err)
	}
	defer r.Close()

	hasher := sha256.New()
	n, err := io.CopyBuffer(hasher, r, make([]byte, w.bufferSize))
	if err != nil {
		return fmt.Errorf("failed to read copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, copy has %d", size, n)
	}
	if !bytes.Equal(hasher.Sum(nil), want) {
		return errors.New("checksum mismatch between original and copy")
	}
	return nil
}
