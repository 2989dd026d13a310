package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/harrison/ctxgen/internal/config"
	"github.com/harrison/ctxgen/internal/consolidator"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/logger"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/harrison/ctxgen/internal/share"
	"github.com/harrison/ctxgen/internal/tui"
	"github.com/spf13/cobra"
)

// opener launches a viewer for the finished artifact
type opener interface {
	Open(path string) error
}

// Replaced in tests so runs never touch the real clipboard or desktop
var (
	newClipboard = share.SystemClipboard
	newOpener    = func() opener { return share.NewOpener() }
	interactive  = tui.IsInteractive
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [project-directory]",
		Aliases: []string{"gen"},
		Short:   "Write the project context file",
		Long: `Walk the project directory (default: current directory), select every file
whose name ends with one of the include suffixes, and write them all into a
single context file. Directories and files whose name matches an exclude
entry exactly are skipped, including everything below an excluded directory.

Files that cannot be read are recorded in the output as an inline error
annotation and the run continues.

Examples:
  ctxgen generate                              # current directory, default filters
  ctxgen generate ~/src/my-app -o my-app.txt   # custom output file
  ctxgen generate --include .go,.mod --sort    # Go sources, reproducible order
  ctxgen generate --exclude .git,vendor        # replace the exclude list
  ctxgen generate --copy                       # copy the result to the clipboard
  ctxgen generate --no-tui --verbose           # plain output with debug logging`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .ctxgen/config.yaml)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: project_context.txt)")
	cmd.Flags().String("include", "", "Comma-separated filename suffixes to include (replaces config)")
	cmd.Flags().String("exclude", "", "Comma-separated file or directory names to skip (replaces config)")
	cmd.Flags().Bool("sort", false, "Order files by relative path for reproducible output")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().Bool("verbose", false, "Show detailed progress (same as --log-level debug)")
	cmd.Flags().Bool("no-tui", false, "Disable the interactive progress view")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().Bool("copy", false, "Copy the output file to the clipboard when done")
	cmd.Flags().Bool("open", false, "Open the output file with the system viewer when done")

	return cmd
}

// loadConfig loads the config file, .env and CTXGEN_* overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.LoadDotEnv()

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	return cfg, nil
}

// stringFlag returns a pointer to the flag value when it was set explicitly
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// boolFlag returns a pointer to the flag value when it was set explicitly
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// runGenerate implements the generate command logic
func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(
		stringFlag(cmd, "output"),
		stringFlag(cmd, "include"),
		stringFlag(cmd, "exclude"),
		boolFlag(cmd, "sort"),
		stringFlag(cmd, "log-level"),
		stringFlag(cmd, "log-dir"),
		boolFlag(cmd, "no-history"),
	)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && !cmd.Flags().Changed("log-level") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	req := models.ScanRequest{
		RootDirectory:   root,
		OutputPath:      cfg.Output,
		IncludeSuffixes: cfg.IncludeSuffixes,
		ExcludePatterns: cfg.ExcludePatterns,
		SortCandidates:  cfg.Sort,
	}
	if err := consolidator.ValidateRequest(req); err != nil {
		return err
	}

	noTUI, _ := cmd.Flags().GetBool("no-tui")
	useTUI := cfg.Interactive && !noTUI && interactive()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	// The progress view owns the terminal, so console logging is file-only there
	var loggers []logger.Logger
	if !useTUI {
		loggers = append(loggers, logger.NewConsoleLogger(errOut, cfg.LogLevel))
	}
	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(errOut, "Warning: file logging disabled: %v\n", err)
	} else {
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}
	log := logger.NewMultiLogger(loggers...)

	runID := uuid.NewString()
	log.LogRunStart(runID, req)

	runner := consolidator.NewRunner(consolidator.New(
		consolidator.WithLogger(log),
		consolidator.WithRunIDs(func() string { return runID }),
	))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var summary models.RunSummary
	if useTUI {
		summary, err = tui.Run(ctx, runner, req, out, tui.Hooks{
			OnStatus:   log.LogStatus,
			OnProgress: log.LogProgress,
		})
		if err != nil {
			return err
		}
	} else {
		summary, err = runPlain(ctx, runner, req, out, log)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		display.RenderSummary(out, summary, display.ColorEnabled(out))
	}

	log.LogSummary(summary)
	if len(summary.Skipped) > 0 {
		display.WarnUnreadable(summary.Skipped).Display(errOut)
	}

	recordHistory(cfg, summary, log)

	if !summary.Succeeded() {
		return fmt.Errorf("generation failed: %s", summary.Message)
	}

	if fileLog != nil {
		fmt.Fprintf(out, "Logs written to: %s\n", fileLog.Path())
	}

	return shareOutput(cmd, summary.OutputPath, out)
}

// runPlain executes the run with line-oriented progress output
func runPlain(ctx context.Context, runner *consolidator.Runner, req models.ScanRequest, out io.Writer, log logger.Logger) (models.RunSummary, error) {
	indicator := display.NewProgressIndicator(out, display.ColorEnabled(out))

	run, err := runner.Start(ctx, req, consolidator.Callbacks{
		OnStatus: func(s string) {
			log.LogStatus(s)
			indicator.Status(s)
		},
		OnProgress: func(f float64) {
			log.LogProgress(f)
			indicator.Progress(f)
		},
	})
	if err != nil {
		return models.RunSummary{}, err
	}

	summary := run.Wait()
	if summary.Succeeded() {
		indicator.Complete()
	}
	return summary, nil
}

// recordHistory stores the summary; failures are logged and never fail the run
func recordHistory(cfg *config.Config, summary models.RunSummary, log logger.Logger) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled: %v", err))
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), summary); err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run in history: %v", err))
	}
}

// shareOutput handles --copy and --open
func shareOutput(cmd *cobra.Command, path string, out io.Writer) error {
	copyFlag, _ := cmd.Flags().GetBool("copy")
	openFlag, _ := cmd.Flags().GetBool("open")

	if copyFlag {
		n, err := share.CopyFile(newClipboard(), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Copied %s bytes to the clipboard\n", display.FormatThousands(int64(n)))
	}

	if openFlag {
		if err := newOpener().Open(path); err != nil {
			return err
		}
	}

	return nil
}
