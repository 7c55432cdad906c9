package output

import (
	"io"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// ProgressUpdate represents a progress notification during a sort
type ProgressUpdate struct {
	Type         string // "file_start", "file_progress", "file_complete", "file_error", "file_skipped", "file_planned"
	FileName     string
	Category     string
	BytesWritten int64
	TotalBytes   int64
	CurrentFile  int
	TotalFiles   int
	Reason       string
	Error        error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a new sort run.
	// totalFiles and totalBytes cover the recognized files only.
	Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error

	// Progress reports progress during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays summary
	Complete(report *models.SortReport) error

	// Error reports a fatal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string, progress bool) (Formatter, bool) {
	switch name {
	case "human", "":
		if progress {
			return NewProgressFormatter(), true
		}
		return NewHumanFormatter(), true
	case "json":
		return NewJSONFormatter(), true
	default:
		return nil, false
	}
}
