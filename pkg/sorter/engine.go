package sorter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sdejongh/sortnorris/pkg/classify"
	"github.com/sdejongh/sortnorris/pkg/logging"
	"github.com/sdejongh/sortnorris/pkg/models"
	"github.com/sdejongh/sortnorris/pkg/output"
	"github.com/sdejongh/sortnorris/pkg/storage"
)

// Engine sorts the top-level files of one root into category directories
type Engine struct {
	backend   storage.Backend
	table     *classify.Table
	formatter output.Formatter
	logger    logging.Logger
	operation *models.SortOperation
	output    io.Writer
}

// NewEngine creates a new sort engine.
// A nil table selects the default extension table; formatter and logger may be nil.
func NewEngine(
	backend storage.Backend,
	table *classify.Table,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.SortOperation,
) *Engine {
	if table == nil {
		table = classify.Default()
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		backend:   backend,
		table:     table,
		formatter: formatter,
		logger:    logger,
		operation: operation,
	}
}

// WithOutput directs formatter output to w instead of stdout
func (e *Engine) WithOutput(w io.Writer) *Engine {
	e.output = w
	return e
}

// Run prepares the category directories, snapshots the root and moves every
// recognized file. Setup and enumeration failures are returned as errors;
// per-file failures are recorded in the report.
func (e *Engine) Run(ctx context.Context) (*models.SortReport, error) {
	startTime := time.Now()
	report := &models.SortReport{
		OperationID: e.operation.ID,
		RootPath:    e.operation.RootPath,
		DryRun:      e.operation.DryRun,
		StartTime:   startTime,
		Status:      models.StatusSuccess,
	}

	e.logger.Info(ctx, "Starting sort operation", logging.Fields{
		"operation_id": e.operation.ID,
		"root":         e.operation.RootPath,
		"dry_run":      e.operation.DryRun,
		"max_workers":  e.operation.MaxWorkers,
	})

	// Step 1: every category directory must be usable before anything moves
	if err := e.prepareCategories(ctx, report); err != nil {
		e.logger.Error(ctx, "Category setup failed", err, nil)
		return nil, err
	}

	// Step 2: snapshot the root
	entries, err := e.backend.List(ctx)
	if err != nil {
		err = &EnumerationError{Root: e.operation.RootPath, Err: err}
		e.logger.Error(ctx, "Root enumeration failed", err, nil)
		return nil, err
	}

	tasks, pending := e.plan(entries, report)

	var totalBytes int64
	for _, task := range pending {
		totalBytes += task.Size
	}

	e.logger.Info(ctx, "Root enumerated", logging.Fields{
		"files":      report.Stats.FilesScanned.Load(),
		"dirs":       report.Stats.DirsScanned.Load(),
		"recognized": len(pending),
		"bytes":      totalBytes,
	})

	if e.formatter != nil {
		e.formatter.Start(e.output, len(pending), totalBytes, e.operation.MaxWorkers)
		for _, task := range tasks {
			if task.Outcome == models.OutcomeSkipped {
				e.formatter.Progress(output.ProgressUpdate{
					Type:       "file_skipped",
					FileName:   task.Name,
					TotalBytes: task.Size,
					Reason:     task.Reason,
				})
			}
		}
	}

	// Step 3: move
	if e.operation.DryRun {
		e.planMoves(ctx, pending, report)
	} else {
		worker := NewWorker(e.backend, e.logger, e.operation.MaxWorkers, e.operation.BufferSize)
		worker.Execute(ctx, pending, report, e.formatter)
	}

	// Step 4: aggregate
	e.buildReport(report, tasks)
	report.Status = finalStatus(ctx, report, len(pending))
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if e.formatter != nil {
		e.formatter.Complete(report)
	}

	e.logger.Info(ctx, "Sort operation completed", logging.Fields{
		"duration":      report.Duration.String(),
		"status":        report.Status,
		"files_moved":   report.Stats.FilesMoved.Load(),
		"files_planned": report.Stats.FilesPlanned.Load(),
		"files_skipped": report.Stats.FilesSkipped.Load(),
		"files_failed":  report.Stats.FilesFailed.Load(),
		"dirs_created":  report.Stats.DirsCreated.Load(),
		"bytes_moved":   report.Stats.BytesMoved.Load(),
	})

	return report, nil
}

// prepareCategories ensures the four category directories exist.
// In dry-run mode nothing is created but collisions are still detected.
func (e *Engine) prepareCategories(ctx context.Context, report *models.SortReport) error {
	for _, category := range models.Categories() {
		name := string(category)

		info, err := e.backend.Stat(ctx, name)
		switch {
		case err == nil && !info.IsDir:
			return &SetupError{Category: category, Err: fmt.Errorf("%s: %w", name, storage.ErrNotDirectory)}
		case err == nil:
			e.logger.Debug(ctx, "Reusing category directory", logging.Fields{"category": name})
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return &SetupError{Category: category, Err: err}
		}

		if e.operation.DryRun {
			e.logger.Info(ctx, "Would create category directory", logging.Fields{"category": name})
			continue
		}

		if err := e.backend.EnsureDir(ctx, name); err != nil {
			return &SetupError{Category: category, Err: err}
		}
		report.Stats.DirsCreated.Add(1)
		e.logger.Info(ctx, "Created category directory", logging.Fields{"category": name})
	}
	return nil
}

// plan turns the root snapshot into tasks sorted by name.
// It returns every candidate task and the subset that needs moving.
func (e *Engine) plan(entries []storage.FileInfo, report *models.SortReport) (tasks, pending []*FileTask) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	for _, entry := range entries {
		if entry.IsDir {
			report.Stats.DirsScanned.Add(1)
			continue
		}
		// Symlinks, sockets and devices are not candidates
		if !entry.IsRegular {
			continue
		}
		report.Stats.FilesScanned.Add(1)

		task := NewFileTask(entry.Name, entry.Size, entry.ModTime, entry.Permissions)
		tasks = append(tasks, task)

		if shouldExclude(entry.Name, e.operation.ExcludePatterns) {
			task.MarkSkipped(models.ReasonExcluded)
			report.Stats.FilesSkipped.Add(1)
			continue
		}

		category, ok := e.table.Classify(entry.Name)
		if !ok {
			task.MarkSkipped(models.ReasonUnrecognized)
			report.Stats.FilesSkipped.Add(1)
			continue
		}

		task.Category = category
		pending = append(pending, task)
	}

	return tasks, pending
}

// planMoves records the moves a real run would perform
func (e *Engine) planMoves(ctx context.Context, pending []*FileTask, report *models.SortReport) {
	for i, task := range pending {
		task.MarkPlanned()
		report.Stats.FilesPlanned.Add(1)

		e.logger.Debug(ctx, "Would move file", logging.Fields{
			"file":     task.Name,
			"category": task.Category,
		})

		if e.formatter != nil {
			e.formatter.Progress(output.ProgressUpdate{
				Type:        "file_planned",
				FileName:    task.Name,
				Category:    string(task.Category),
				TotalBytes:  task.Size,
				CurrentFile: i + 1,
				TotalFiles:  len(pending),
			})
		}
	}
}

// buildReport copies task outcomes into the report
func (e *Engine) buildReport(report *models.SortReport, tasks []*FileTask) {
	report.Operations = make([]models.FileOperation, 0, len(tasks))
	for _, task := range tasks {
		report.Operations = append(report.Operations, task.operation())
	}

	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].Name < report.Failures[j].Name
	})
}

func finalStatus(ctx context.Context, report *models.SortReport, recognized int) models.SortStatus {
	failed := int(report.Stats.FilesFailed.Load())
	switch {
	case ctx.Err() != nil:
		return models.StatusCancelled
	case failed > 0 && failed == recognized:
		return models.StatusFailed
	case failed > 0:
		return models.StatusPartial
	default:
		return models.StatusSuccess
	}
}
