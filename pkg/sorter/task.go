package sorter

import (
	"time"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// TaskStatus represents the status of a move task
type TaskStatus string

const (
	// TaskPending indicates the task is waiting for a worker
	TaskPending TaskStatus = "pending"
	// TaskProcessing indicates a worker owns the task
	TaskProcessing TaskStatus = "processing"
	// TaskCompleted indicates the task reached a final outcome
	TaskCompleted TaskStatus = "completed"
)

// FileTask is one candidate file and what happened to it.
// A task is owned by exactly one worker while processing.
type FileTask struct {
	Name        string
	Size        int64
	ModTime     time.Time
	Permissions uint32

	// Category is empty for unrecognized files
	Category models.Category

	Status  TaskStatus
	Outcome models.Outcome
	Reason  string
	Error   error

	BytesMoved int64
	Duration   time.Duration
}

// NewFileTask creates a pending task for a root file
func NewFileTask(name string, size int64, modTime time.Time, perm uint32) *FileTask {
	return &FileTask{
		Name:        name,
		Size:        size,
		ModTime:     modTime,
		Permissions: perm,
		Status:      TaskPending,
	}
}

// MarkProcessing marks the task as owned by a worker
func (t *FileTask) MarkProcessing() {
	t.Status = TaskProcessing
}

// MarkMoved records a completed move
func (t *FileTask) MarkMoved(bytes int64, duration time.Duration) {
	t.Status = TaskCompleted
	t.Outcome = models.OutcomeMoved
	t.BytesMoved = bytes
	t.Duration = duration
}

// MarkPlanned records a move that a dry-run would perform
func (t *FileTask) MarkPlanned() {
	t.Status = TaskCompleted
	t.Outcome = models.OutcomePlanned
}

// MarkSkipped records a file left in place
func (t *FileTask) MarkSkipped(reason string) {
	t.Status = TaskCompleted
	t.Outcome = models.OutcomeSkipped
	t.Reason = reason
}

// MarkFailed records a failed move
func (t *FileTask) MarkFailed(err error, duration time.Duration) {
	t.Status = TaskCompleted
	t.Outcome = models.OutcomeFailed
	t.Error = err
	t.Duration = duration
}

// operation converts the task into its report entry
func (t *FileTask) operation() models.FileOperation {
	return models.FileOperation{
		Entry: &models.FileEntry{
			Name:        t.Name,
			Size:        t.Size,
			ModTime:     t.ModTime,
			Permissions: t.Permissions,
		},
		Outcome:    t.Outcome,
		Category:   t.Category,
		Reason:     t.Reason,
		Error:      t.Error,
		BytesMoved: t.BytesMoved,
		Duration:   t.Duration,
	}
}
