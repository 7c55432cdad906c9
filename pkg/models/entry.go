package models

import (
	"time"
)

// FileEntry represents a direct child of the root that is a regular file
type FileEntry struct {
	// Name is the entry name including its extension
	Name string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Permissions are the file mode bits
	Permissions uint32
}

// Outcome represents what happened to a candidate file
type Outcome string

const (
	// OutcomeMoved indicates the file was relocated into its category directory
	OutcomeMoved Outcome = "moved"
	// OutcomePlanned indicates the file would be moved (dry-run)
	OutcomePlanned Outcome = "planned"
	// OutcomeSkipped indicates the file was left in place
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed indicates the move failed and the file stays at the root
	OutcomeFailed Outcome = "failed"
)

// Skip reasons recorded in FileOperation.Reason
const (
	ReasonUnrecognized = "unrecognized extension"
	ReasonExcluded     = "matched exclude pattern"
	ReasonCancelled    = "run cancelled before the file was processed"
)

// FileOperation records the outcome for one candidate file
type FileOperation struct {
	Entry      *FileEntry
	Outcome    Outcome
	Category   Category // empty unless the file was recognized
	Reason     string
	Error      error
	BytesMoved int64
	Duration   time.Duration
}
