package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/ctxgen/internal/models"
)

// colorScheme defines consistent colors for different metric types.
// Green: success/positive metrics
// Red: failure/error metrics
// Yellow: warning/threshold metrics
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme for metrics.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single metric with colorized label and value.
// Format: "label: value"
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	labelColored := scheme.label.Sprint(label)
	valueColored := scheme.value.Sprintf("%v", value)
	return fmt.Sprintf("%s: %s", labelColored, valueColored)
}

// formatSummaryMetrics formats the counters of a successful run.
// Format: "files: N, failed: N, lines: N, size: X.XX KB"
// Written files are green, unreadable files red when non-zero and an
// empty artifact (no files at all) yellow.
func formatSummaryMetrics(summary models.RunSummary, scheme *colorScheme) string {
	var parts []string

	files := scheme.success
	if summary.FilesProcessed == 0 {
		files = scheme.warn
	}
	parts = append(parts, fmt.Sprintf("%s: %s", scheme.label.Sprint("files"), files.Sprint(summary.FilesProcessed)))

	if summary.FilesFailed > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", scheme.label.Sprint("failed"), scheme.fail.Sprint(summary.FilesFailed)))
	} else {
		parts = append(parts, formatColorizedMetric("failed", 0, scheme))
	}

	parts = append(parts, formatColorizedMetric("lines", summary.TotalLines, scheme))
	parts = append(parts, formatColorizedMetric("size", fmt.Sprintf("%.2f KB", summary.OutputSizeKB()), scheme))

	return strings.Join(parts, ", ")
}
