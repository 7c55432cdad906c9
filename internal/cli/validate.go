package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sdejongh/sortnorris/internal/platform"
	"github.com/sdejongh/sortnorris/pkg/config"
	"github.com/sdejongh/sortnorris/pkg/models"
)

// resolveRoot validates the directory to sort and returns its absolute path.
// Unless dryRun is set the directory must also be writable.
func resolveRoot(path string, dryRun bool) (string, error) {
	if err := platform.ValidatePath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(platform.NormalizePath(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("directory does not exist: %s", abs)
	} else if err != nil {
		return "", fmt.Errorf("failed to access directory: %w", err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", abs)
	}

	if platform.IsFilesystemRoot(abs) {
		return "", fmt.Errorf("refusing to sort a filesystem root: %s", abs)
	}

	if !dryRun {
		if err := probeWritable(abs); err != nil {
			return "", err
		}
	}

	return abs, nil
}

// probeWritable creates and removes a hidden file in dir
func probeWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".sortnorris-probe-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("failed to remove probe file: %w", err)
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// createSortOperation creates a sort operation from configuration
func createSortOperation(cfg *config.Config, root string) (*models.SortOperation, error) {
	operation := &models.SortOperation{
		ID:              uuid.New().String(),
		RootPath:        root,
		DryRun:          cfg.Sort.DryRun,
		ExcludePatterns: cfg.Sort.Exclude,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		BufferSize:      cfg.Performance.BufferSize,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
