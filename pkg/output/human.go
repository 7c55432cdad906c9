package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// HumanFormatter prints one line per file and a summary table
type HumanFormatter struct {
	writer     io.Writer
	totalFiles int
	totalBytes int64
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes

	fmt.Fprintf(writer, "Sorting %d files (%s) with %d workers\n",
		totalFiles, formatBytes(totalBytes), maxWorkers)
	return nil
}

// Progress reports per-file outcomes
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case "file_complete":
		fmt.Fprintf(f.writer, "[%d/%d] ✓ %s → %s/ (%s)\n",
			update.CurrentFile, f.totalFiles,
			update.FileName, update.Category, formatBytes(update.BytesWritten))

	case "file_planned":
		fmt.Fprintf(f.writer, "[%d/%d] would move %s → %s/ (%s)\n",
			update.CurrentFile, f.totalFiles,
			update.FileName, update.Category, formatBytes(update.TotalBytes))

	case "file_error":
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.CurrentFile, f.totalFiles,
			update.FileName, update.Error)

	case "file_skipped":
		fmt.Fprintf(f.writer, "skip %s (%s)\n", update.FileName, update.Reason)
	}

	return nil
}

// Complete displays the summary
func (f *HumanFormatter) Complete(report *models.SortReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
