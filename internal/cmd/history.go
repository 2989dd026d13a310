package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'ctxgen history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation runs",
		Long: `Display the most recent runs recorded in the history database including:
  - Run ID and start time
  - Project directory and output file
  - Success/failure status
  - File and line counts, output size and duration`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .ctxgen/config.yaml)")
	cmd.Flags().Int("limit", history.DefaultLimit, "Maximum number of runs to show")

	return cmd
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", limit)
	}

	// Opening the store would create an empty database
	if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
		fmt.Fprintf(output, "No runs recorded yet (%s does not exist)\n", cfg.History.DBPath)
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "No runs recorded yet")
		return nil
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}

	displayRuns(output, runs, total)
	return nil
}

// displayRuns formats runs newest first
func displayRuns(w io.Writer, runs []models.RunSummary, total int) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "\n=== Recent Runs (%d of %d) ===\n\n", len(runs), total)

	succeeded := 0
	for i, run := range runs {
		cyan.Fprintf(w, "%s\n", run.RunID)
		fmt.Fprintf(w, "  Started: %s ", formatTimestamp(run.StartedAt))
		gray.Fprintf(w, "(%s ago)\n", formatAge(time.Since(run.StartedAt)))
		fmt.Fprintf(w, "  Project: %s\n", run.RootDirectory)
		fmt.Fprintf(w, "  Output: %s\n", run.OutputPath)

		fmt.Fprintf(w, "  Status: ")
		if run.Succeeded() {
			succeeded++
			green.Fprintf(w, "%s\n", run.Status)
			fmt.Fprintf(w, "  Files: %s", display.FormatThousands(int64(run.FilesProcessed)))
			if run.FilesFailed > 0 {
				yellow.Fprintf(w, " (%d unreadable)", run.FilesFailed)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Lines: %s\n", display.FormatThousands(int64(run.TotalLines)))
			fmt.Fprintf(w, "  Size: %s KB\n", display.FormatKB(run.OutputSizeBytes))
		} else {
			red.Fprintf(w, "%s\n", run.Status)
			red.Fprintf(w, "  Error: %s\n", run.Message)
		}
		fmt.Fprintf(w, "  Duration: %s\n", run.Duration().Round(time.Millisecond))

		// Separator between runs
		if i < len(runs)-1 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	cyan.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Success rate: ")
	rate := float64(succeeded) / float64(len(runs)) * 100
	if rate >= 70 {
		green.Fprintf(w, "%.1f%%", rate)
	} else if rate >= 40 {
		yellow.Fprintf(w, "%.1f%%", rate)
	} else {
		red.Fprintf(w, "%.1f%%", rate)
	}
	fmt.Fprintf(w, " (%d/%d)\n\n", succeeded, len(runs))
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatAge formats an elapsed duration for human-readable display
func formatAge(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	days := int(d.Hours() / 24)
	return fmt.Sprintf("%dd", days)
}
