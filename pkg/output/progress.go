package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// progressTemplate shows the files counter in the prefix and bytes on the bar
const progressTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{string . "suffix"}}`

// getUpdateInterval returns the progress refresh interval based on OS
// Windows terminals are slower with ANSI sequences
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// ProgressFormatter draws a byte progress bar while files move
type ProgressFormatter struct {
	mu sync.Mutex

	writer     io.Writer
	bar        *pb.ProgressBar
	termWidth  int
	totalFiles int

	processedFiles int
	processedBytes int64
	active         map[int]int64 // fileIndex -> bytes copied so far
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{
		active: make(map[int]int64),
	}
}

// Start initializes the bar
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.totalFiles = totalFiles

	// Keep the bar on one line
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	if f.termWidth == 0 {
		f.termWidth = 100
	}

	f.bar = pb.New64(totalBytes)
	f.bar.SetTemplateString(progressTemplate)
	f.bar.SetWriter(writer)
	f.bar.SetWidth(f.termWidth)
	f.bar.SetRefreshRate(getUpdateInterval())
	f.bar.Set(pb.Bytes, true)
	f.bar.Set("prefix", f.prefix())
	f.bar.Start()

	return nil
}

// Progress reports progress during the run
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case "file_start":
		f.active[update.CurrentFile] = 0
		f.bar.Set("suffix", update.FileName)

	case "file_progress":
		if _, ok := f.active[update.CurrentFile]; ok {
			f.active[update.CurrentFile] = update.BytesWritten
		}

	case "file_complete":
		delete(f.active, update.CurrentFile)
		f.processedFiles++
		f.processedBytes += update.BytesWritten

	case "file_error":
		delete(f.active, update.CurrentFile)
		f.processedFiles++

	case "file_planned":
		f.processedFiles++
		f.processedBytes += update.TotalBytes

	default:
		return nil
	}

	current := f.processedBytes
	for _, n := range f.active {
		current += n
	}
	f.bar.SetCurrent(current)
	f.bar.Set("prefix", f.prefix())

	return nil
}

func (f *ProgressFormatter) prefix() string {
	return fmt.Sprintf("[%d/%d files] ", f.processedFiles, f.totalFiles)
}

// Complete stops the bar and displays the summary
func (f *ProgressFormatter) Complete(report *models.SortReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Set("suffix", "")
		f.bar.Set("prefix", f.prefix())
		f.bar.Finish()
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}

	writeSummary(f.writer, report)
	return nil
}

// Error reports a fatal error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	if f.bar != nil && f.bar.IsStarted() {
		f.bar.Finish()
	}
	fmt.Fprintf(w, "\nError: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
