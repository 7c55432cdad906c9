package sorter

import (
	"fmt"

	"github.com/sdejongh/sortnorris/pkg/models"
)

// SetupError reports a category directory that could not be ensured.
// It aborts the run before any file is touched.
type SetupError struct {
	Category models.Category
	Err      error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("failed to prepare category directory %s: %v", e.Category, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// EnumerationError reports a failure to list the root
type EnumerationError struct {
	Root string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Root, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// MoveStage names the step of a move that failed
type MoveStage string

const (
	StageRead   MoveStage = "read"
	StageWrite  MoveStage = "write"
	StageVerify MoveStage = "verify"
	StageRemove MoveStage = "remove"
)

// MoveError reports a per-file failure. It is recorded in the report and
// never aborts the run.
type MoveError struct {
	Name     string
	Category models.Category
	Stage    MoveStage
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, e.Name, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
