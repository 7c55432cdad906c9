package models

import (
	"sync/atomic"
	"time"
)

// SortReport represents the results of a sort run
type SortReport struct {
	// Operation details
	OperationID string
	RootPath    string
	DryRun      bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Per-file outcomes, sorted by file name
	Operations []FileOperation

	// Failures encountered
	Failures []SortFailure

	// Overall status
	Status SortStatus
}

// Statistics holds sort run metrics.
// Counters are updated concurrently by the move workers.
type Statistics struct {
	FilesScanned atomic.Int32 // Regular files at the root
	DirsScanned  atomic.Int32 // Directories at the root, category dirs included
	FilesMoved   atomic.Int32
	FilesPlanned atomic.Int32 // Dry-run only
	FilesSkipped atomic.Int32
	FilesFailed  atomic.Int32
	DirsCreated  atomic.Int32

	BytesMoved atomic.Int64
}

// SortStatus represents the overall result
type SortStatus string

const (
	// StatusSuccess indicates every recognized file was moved
	StatusSuccess SortStatus = "success"
	// StatusPartial indicates some moves failed
	StatusPartial SortStatus = "partial"
	// StatusFailed indicates the run failed as a whole
	StatusFailed SortStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled SortStatus = "cancelled"
)

// SortFailure represents a per-file failure
type SortFailure struct {
	Name      string
	Stage     string
	Reason    string
	Timestamp time.Time
}

// SortResult is the compact run summary handed to callers
type SortResult struct {
	Moved   int
	Skipped int
	Failed  []SortFailure
}

// Result condenses the report into moved/skipped counts and the failure list
func (r *SortReport) Result() SortResult {
	failed := make([]SortFailure, len(r.Failures))
	copy(failed, r.Failures)
	return SortResult{
		Moved:   int(r.Stats.FilesMoved.Load()),
		Skipped: int(r.Stats.FilesSkipped.Load()),
		Failed:  failed,
	}
}

// ExitCode returns the appropriate exit code for the sort status
func (s SortStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
