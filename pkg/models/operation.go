package models

import (
	"path/filepath"
	"time"
)

// SortOperation represents the configuration of one sort run
type SortOperation struct {
	ID              string
	RootPath        string
	DryRun          bool
	ExcludePatterns []string
	MaxWorkers      int
	BufferSize      int
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *SortOperation) Validate() error {
	if op.RootPath == "" {
		return &ValidationError{Field: "RootPath", Message: "root path is required"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	for _, pattern := range op.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return &ValidationError{Field: "ExcludePatterns", Message: "invalid pattern " + pattern + ": " + err.Error()}
		}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
