package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdejongh/sortnorris/pkg/config"
	"github.com/sdejongh/sortnorris/pkg/lock"
	"github.com/sdejongh/sortnorris/pkg/logging"
	"github.com/sdejongh/sortnorris/pkg/models"
	"github.com/sdejongh/sortnorris/pkg/output"
	"github.com/sdejongh/sortnorris/pkg/sorter"
	"github.com/sdejongh/sortnorris/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// SortFlags holds sort command flags
type SortFlags struct {
	Parallel int
	DryRun   bool
	Exclude  []string
	Output   string
	Backend  string
	NoLock   bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var sortFlags SortFlags

// ExitCodeError carries a non-zero process exit code out of a command
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// NewSortCommand creates the sort command
func NewSortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <directory>",
		Short: "Sort the files of a directory into category folders",
		Long: `Move every top-level file of a directory into Documents, Images, Music
or Videos according to its extension. Subdirectories and files with an
unknown extension are left in place. Existing files in a category folder
are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: runSort,
	}

	cmd.Flags().IntVarP(&sortFlags.Parallel, "parallel", "p", 0, "number of parallel moves (default: 5)")
	cmd.Flags().BoolVar(&sortFlags.DryRun, "dry-run", false, "show what would be moved without touching any file")
	cmd.Flags().StringSliceVar(&sortFlags.Exclude, "exclude", []string{}, "glob patterns of file names to leave in place")
	cmd.Flags().StringVarP(&sortFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&sortFlags.Backend, "backend", "", "storage backend: local, billy")
	cmd.Flags().BoolVar(&sortFlags.NoLock, "no-lock", false, "do not take the per-directory run lock")

	// Logging flags
	cmd.Flags().StringVar(&sortFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&sortFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&sortFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	root, err := resolveRoot(args[0], cfg.Sort.DryRun)
	if err != nil {
		return err
	}

	table, err := cfg.ExtensionTable()
	if err != nil {
		return err
	}

	operation, err := createSortOperation(cfg, root)
	if err != nil {
		return fmt.Errorf("invalid operation: %w", err)
	}

	backend, err := createBackend(cfg.Sort.Backend, root)
	if err != nil {
		return err
	}
	defer backend.Close()

	if cfg.Lock.Enabled && !sortFlags.NoLock {
		runLock, err := lock.ForRoot(root)
		if err != nil {
			return err
		}
		if err := runLock.TryLock(); err != nil {
			return err
		}
		defer runLock.Unlock()
	}

	stdout := cmd.OutOrStdout()
	formatter, err := createFormatter(cfg.Output, stdout)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine := sorter.NewEngine(backend, table, formatter, logger, operation).WithOutput(stdout)

	report, err := engine.Run(ctx)
	if err != nil {
		err = fmt.Errorf("sort failed: %w", err)
		if formatter != nil {
			formatter.Error(err)
			return &ExitCodeError{Code: 2}
		}
		return &ExitCodeError{Code: 2, Err: err}
	}

	if formatter == nil {
		printFailures(cmd.ErrOrStderr(), report.Result().Failed)
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}

// createBackend opens the storage backend rooted at root
func createBackend(name, root string) (storage.Backend, error) {
	switch name {
	case "", "local":
		return storage.NewLocal(root)
	case "billy":
		return storage.NewBillyOS(root)
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

// createFormatter returns nil when output is quiet.
// The progress bar is only drawn when stdout is a terminal.
func createFormatter(cfg config.OutputConfig, stdout io.Writer) (output.Formatter, error) {
	if cfg.Quiet {
		return nil, nil
	}

	progress := cfg.Progress
	if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		progress = false
	}

	formatter, ok := output.New(cfg.Format, progress)
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", cfg.Format)
	}
	return formatter, nil
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	if !cfg.Enabled || cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if cfg.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}

// applyFlagsToConfig overlays explicitly set flags on the loaded configuration
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("parallel") {
		cfg.Performance.MaxWorkers = sortFlags.Parallel
	}
	if flags.Changed("dry-run") {
		cfg.Sort.DryRun = sortFlags.DryRun
	}
	if flags.Changed("exclude") {
		cfg.Sort.Exclude = append(cfg.Sort.Exclude, sortFlags.Exclude...)
	}
	if flags.Changed("output") {
		cfg.Output.Format = sortFlags.Output
	}
	if flags.Changed("backend") {
		cfg.Sort.Backend = sortFlags.Backend
	}
	if flags.Changed("log-file") {
		cfg.Logging.Enabled = sortFlags.LogFile != ""
		cfg.Logging.File = sortFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = sortFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = sortFlags.LogLevel
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if globalFlags.Verbose && !flags.Changed("log-level") {
		cfg.Logging.Level = "debug"
	}
}

func printFailures(w io.Writer, failures []models.SortFailure) {
	for _, f := range failures {
		fmt.Fprintf(w, "failed: %s: %s\n", f.Name, f.Reason)
	}
}
