// Package logger provides logging implementations for ctxgen runs.
//
// The logger package offers leveled diagnostic logging plus run-level events:
// status updates, progress fractions and the final summary. Implementations
// are thread-safe and support console and file destinations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/ctxgen/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is implemented by every logger in this package
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogRunStart(runID string, req models.ScanRequest)
	LogStatus(message string)
	LogProgress(fraction float64)
	LogSummary(summary models.RunSummary)
}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor is already false for non-TTYs and when NO_COLOR is set
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}

	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel writes "[HH:MM:SS] [LEVEL] <message>" if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogRunStart logs the request a run was started with at DEBUG level.
func (cl *ConsoleLogger) LogRunStart(runID string, req models.ScanRequest) {
	cl.LogDebug(fmt.Sprintf("Run %s: %s -> %s (include %s; exclude %s)",
		runID, req.RootDirectory, req.OutputPath,
		strings.Join(req.IncludeSuffixes, " "), strings.Join(req.ExcludePatterns, " ")))
}

// LogStatus logs a pipeline status update at DEBUG level.
// Plain console output shows status through display.ProgressIndicator instead.
func (cl *ConsoleLogger) LogStatus(message string) {
	cl.LogDebug(message)
}

// LogProgress logs the completed fraction as a bar at DEBUG level.
// Format: "[HH:MM:SS] Progress: [=====     ] 50%"
func (cl *ConsoleLogger) LogProgress(fraction float64) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	pb := NewPercentBar(20, cl.colorOutput)
	pb.UpdateFraction(fraction)

	cl.writer.Write([]byte(fmt.Sprintf("[%s] Progress: %s\n", timestamp(), pb.Render())))
}

// LogSummary logs the run summary at INFO level, or at ERROR level for failed runs.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil {
		return
	}

	level := "info"
	if !summary.Succeeded() {
		level = "error"
	}
	if !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var output string

	if !summary.Succeeded() {
		status := string(summary.Status)
		if cl.colorOutput {
			status = color.New(color.FgRed, color.Bold).Sprint(status)
		}
		output = fmt.Sprintf("[%s] Run %s: %s\n", ts, status, summary.Message)
		cl.writer.Write([]byte(output))
		return
	}

	if cl.colorOutput {
		scheme := newColorScheme()
		header := color.New(color.Bold).Sprint("=== Run Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] %s\n", ts, formatSummaryMetrics(summary, scheme))
	} else {
		output = fmt.Sprintf("[%s] === Run Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Files: %d, failed: %d, lines: %d, size: %.2f KB\n",
			ts, summary.FilesProcessed, summary.FilesFailed, summary.TotalLines, summary.OutputSizeKB())
	}
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(summary.Duration()))

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Runs are usually short, so sub-second durations keep millisecond precision.
// Examples: "120ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                          {}
func (n *NoOpLogger) LogDebug(message string)                          {}
func (n *NoOpLogger) LogInfo(message string)                           {}
func (n *NoOpLogger) LogWarn(message string)                           {}
func (n *NoOpLogger) LogError(message string)                          {}
func (n *NoOpLogger) LogRunStart(runID string, req models.ScanRequest) {}
func (n *NoOpLogger) LogStatus(message string)                         {}
func (n *NoOpLogger) LogProgress(fraction float64)                     {}
func (n *NoOpLogger) LogSummary(summary models.RunSummary)             {}
