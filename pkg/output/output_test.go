package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/sortnorris/pkg/models"
)

func sampleReport() *models.SortReport {
	report := &models.SortReport{
		OperationID: "op-1",
		RootPath:    "/downloads",
		Duration:    1500 * time.Millisecond,
		Status:      models.StatusPartial,
		Operations: []models.FileOperation{
			{Entry: &models.FileEntry{Name: "README", Size: 10}, Outcome: models.OutcomeSkipped, Reason: models.ReasonUnrecognized},
			{Entry: &models.FileEntry{Name: "broken.pdf", Size: 20}, Outcome: models.OutcomeFailed, Category: models.CategoryDocuments, Error: errors.New("disk full")},
			{Entry: &models.FileEntry{Name: "photo.JPG", Size: 2048}, Outcome: models.OutcomeMoved, Category: models.CategoryImages, BytesMoved: 2048},
		},
		Failures: []models.SortFailure{
			{Name: "broken.pdf", Stage: "write", Reason: "failed to write broken.pdf: disk full"},
		},
	}
	report.Stats.FilesScanned.Store(3)
	report.Stats.DirsScanned.Store(1)
	report.Stats.FilesMoved.Store(1)
	report.Stats.FilesSkipped.Store(1)
	report.Stats.FilesFailed.Store(1)
	report.Stats.DirsCreated.Store(4)
	report.Stats.BytesMoved.Store(2048)
	return report
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		progress bool
		want     string
		ok       bool
	}{
		{"human", false, "human", true},
		{"", false, "human", true},
		{"human", true, "progress", true},
		{"json", true, "json", true},
		{"xml", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.want, func(t *testing.T) {
			f, ok := New(tt.name, tt.progress)
			if ok != tt.ok {
				t.Fatalf("New(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && f.Name() != tt.want {
				t.Errorf("New(%q).Name() = %s, want %s", tt.name, f.Name(), tt.want)
			}
		})
	}
}

func TestHumanFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()

	if err := f.Start(&buf, 2, 2068, 5); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.Progress(ProgressUpdate{Type: "file_skipped", FileName: "README", Reason: models.ReasonUnrecognized})
	f.Progress(ProgressUpdate{Type: "file_start", FileName: "photo.JPG", CurrentFile: 1})
	f.Progress(ProgressUpdate{Type: "file_complete", FileName: "photo.JPG", Category: "Images", BytesWritten: 2048, CurrentFile: 1})
	f.Progress(ProgressUpdate{Type: "file_error", FileName: "broken.pdf", CurrentFile: 2, Error: errors.New("disk full")})

	if err := f.Complete(sampleReport()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Sorting 2 files",
		"skip README (unrecognized extension)",
		"photo.JPG → Images/",
		"broken.pdf: disk full",
		"Files moved",
		"Images",
		"Status: partial",
		"Failures:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// file_start produces no line of its own
	if strings.Count(out, "photo.JPG") != 1 {
		t.Errorf("photo.JPG should appear once in the per-file lines\n%s", out)
	}
}

func TestHumanFormatterDryRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()
	f.Start(&buf, 1, 100, 1)
	f.Progress(ProgressUpdate{Type: "file_planned", FileName: "song.flac", Category: "Music", TotalBytes: 100, CurrentFile: 1})

	report := &models.SortReport{RootPath: "/music", DryRun: true, Status: models.StatusSuccess}
	report.Stats.FilesPlanned.Store(1)
	f.Complete(report)

	out := buf.String()
	for _, want := range []string{"would move song.flac → Music/", "Dry-run of /music", "Files to move"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()
	f.Start(&buf, 2, 2068, 5)
	f.Progress(ProgressUpdate{Type: "file_complete", FileName: "photo.JPG"})

	// Progress must not leak into the document
	if buf.Len() != 0 {
		t.Fatalf("Progress wrote output: %s", buf.String())
	}

	if err := f.Complete(sampleReport()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var data JSONReportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if data.Status != "partial" {
		t.Errorf("Status = %s, want partial", data.Status)
	}
	if data.Stats.Moved != 1 || data.Stats.Skipped != 1 || data.Stats.Failed != 1 {
		t.Errorf("Stats = %+v, want moved 1, skipped 1, failed 1", data.Stats)
	}
	if data.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", data.DurationMs)
	}
	if len(data.Files) != 3 {
		t.Fatalf("Files has %d entries, want 3", len(data.Files))
	}
	if data.Files[1].Error != "disk full" || data.Files[1].Category != "Documents" {
		t.Errorf("Files[1] = %+v, want failed Documents entry", data.Files[1])
	}
	if len(data.Failures) != 1 || data.Failures[0].Stage != "write" {
		t.Errorf("Failures = %+v, want one write failure", data.Failures)
	}
}

func TestJSONFormatterError(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()
	f.Start(&buf, 0, 0, 1)
	f.Error(errors.New("failed to prepare category directory Documents"))

	var data map[string]string
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if data["status"] != "failed" || !strings.Contains(data["error"], "Documents") {
		t.Errorf("error document = %v", data)
	}
}

func TestProgressFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter()

	if err := f.Start(&buf, 2, 3000, 2); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	f.Progress(ProgressUpdate{Type: "file_start", FileName: "a.mp3", CurrentFile: 1, TotalBytes: 1000})
	f.Progress(ProgressUpdate{Type: "file_start", FileName: "b.mp4", CurrentFile: 2, TotalBytes: 2000})
	f.Progress(ProgressUpdate{Type: "file_progress", FileName: "a.mp3", CurrentFile: 1, BytesWritten: 500})
	f.Progress(ProgressUpdate{Type: "file_progress", FileName: "b.mp4", CurrentFile: 2, BytesWritten: 700})

	f.mu.Lock()
	if got := f.bar.Current(); got != 1200 {
		t.Errorf("bar current = %d, want 1200", got)
	}
	f.mu.Unlock()

	f.Progress(ProgressUpdate{Type: "file_complete", FileName: "a.mp3", CurrentFile: 1, BytesWritten: 1000})
	f.Progress(ProgressUpdate{Type: "file_error", FileName: "b.mp4", CurrentFile: 2, Error: errors.New("boom")})

	f.mu.Lock()
	if f.processedFiles != 2 {
		t.Errorf("processedFiles = %d, want 2", f.processedFiles)
	}
	if got := f.bar.Current(); got != 1000 {
		t.Errorf("bar current = %d, want 1000", got)
	}
	if len(f.active) != 0 {
		t.Errorf("active = %v, want empty", f.active)
	}
	f.mu.Unlock()

	report := &models.SortReport{RootPath: "/media", Status: models.StatusPartial}
	if err := f.Complete(report); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Status: partial") {
		t.Errorf("summary missing from output\n%s", buf.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{999, "999 B"},
		{1500, "1.5 kB"},
		{5_000_000, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
