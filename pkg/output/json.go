package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer     io.Writer
	totalFiles int
	totalBytes int64
}

// JSONReportData represents the final report
type JSONReportData struct {
	OperationID string            `json:"operation_id"`
	Root        string            `json:"root"`
	DryRun      bool              `json:"dry_run"`
	Status      string            `json:"status"`
	Duration    string            `json:"duration"`
	DurationMs  int64             `json:"duration_ms"`
	Stats       JSONStatsData     `json:"stats"`
	Files       []JSONFileData    `json:"files"`
	Failures    []JSONFailureData `json:"failures,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	FilesScanned int32  `json:"files_scanned"`
	DirsScanned  int32  `json:"dirs_scanned"`
	Moved        int32  `json:"moved"`
	Planned      int32  `json:"planned,omitempty"`
	Skipped      int32  `json:"skipped"`
	Failed       int32  `json:"failed"`
	DirsCreated  int32  `json:"dirs_created"`
	BytesMoved   int64  `json:"bytes_moved"`
	BytesMovedH  string `json:"bytes_moved_human"`
}

// JSONFileData represents one candidate file
type JSONFileData struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Outcome  string `json:"outcome"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JSONFailureData represents a failed move
type JSONFailureData struct {
	Name   string `json:"name"`
	Stage  string `json:"stage,omitempty"`
	Reason string `json:"reason"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	return nil
}

// Progress is a no-op: the output stays a single parseable document
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as one JSON document
func (f *JSONFormatter) Complete(report *models.SortReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	files := make([]JSONFileData, 0, len(report.Operations))
	for _, op := range report.Operations {
		data := JSONFileData{
			Outcome:  string(op.Outcome),
			Category: string(op.Category),
			Reason:   op.Reason,
		}
		if op.Entry != nil {
			data.Name = op.Entry.Name
			data.Size = op.Entry.Size
		}
		if op.Error != nil {
			data.Error = op.Error.Error()
		}
		files = append(files, data)
	}

	var failures []JSONFailureData
	for _, failure := range report.Failures {
		failures = append(failures, JSONFailureData{
			Name:   failure.Name,
			Stage:  failure.Stage,
			Reason: failure.Reason,
		})
	}

	reportData := JSONReportData{
		OperationID: report.OperationID,
		Root:        report.RootPath,
		DryRun:      report.DryRun,
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesScanned: report.Stats.FilesScanned.Load(),
			DirsScanned:  report.Stats.DirsScanned.Load(),
			Moved:        report.Stats.FilesMoved.Load(),
			Planned:      report.Stats.FilesPlanned.Load(),
			Skipped:      report.Stats.FilesSkipped.Load(),
			Failed:       report.Stats.FilesFailed.Load(),
			DirsCreated:  report.Stats.DirsCreated.Load(),
			BytesMoved:   report.Stats.BytesMoved.Load(),
			BytesMovedH:  formatBytes(report.Stats.BytesMoved.Load()),
		},
		Files:    files,
		Failures: failures,
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportData)
}

// Error prints a fatal error as a JSON document in place of the report
func (f *JSONFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stdout
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]string{
		"status": string(models.StatusFailed),
		"error":  err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
