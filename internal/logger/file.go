package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/ctxgen/internal/models"
)

// FileLogger logs run events to files in the log directory (.ctxgen/logs/ by default).
// It creates one timestamped log file per run and maintains a latest.log
// symlink pointing to the most recent one.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a new FileLogger that writes to .ctxgen/logs/ with level "info".
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.Join(".ctxgen", "logs"), "info")
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log; a numeric suffix keeps runs in the same second apart
	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	for i := 1; err != nil && os.IsExist(err) && i < 100; i++ {
		runFile = filepath.Join(logDir, fmt.Sprintf("run-%s-%d.log", stamp, i))
		file, err = os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== ctxgen Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Path returns the run log file path
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogRunStart records the run identifier and request at INFO level.
func (fl *FileLogger) LogRunStart(runID string, req models.ScanRequest) {
	if !fl.shouldLog("info") {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run ID: %s\n", runID)
	fmt.Fprintf(&b, "Root: %s\n", req.RootDirectory)
	fmt.Fprintf(&b, "Output: %s\n", req.OutputPath)
	fmt.Fprintf(&b, "Include: %s\n", strings.Join(req.IncludeSuffixes, ", "))
	fmt.Fprintf(&b, "Exclude: %s\n", strings.Join(req.ExcludePatterns, ", "))
	fmt.Fprintf(&b, "Sorted: %t\n\n", req.SortCandidates)
	fl.writeRunLog(b.String())
}

// LogStatus logs a pipeline status update at INFO level.
func (fl *FileLogger) LogStatus(message string) {
	fl.LogInfo(message)
}

// LogProgress logs the completed fraction at DEBUG level.
func (fl *FileLogger) LogProgress(fraction float64) {
	if !fl.shouldLog("debug") {
		return
	}

	pb := NewPercentBar(20, false)
	pb.UpdateFraction(fraction)
	fl.writeRunLog(fmt.Sprintf("[%s] [DEBUG] Progress: %s\n", time.Now().Format("15:04:05"), pb.Render()))
}

// LogSummary writes the run summary block. It is always written regardless of level.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	var b strings.Builder

	b.WriteString("\n=== Run Summary ===\n")
	fmt.Fprintf(&b, "Run ID: %s\n", summary.RunID)
	fmt.Fprintf(&b, "Status: %s\n", summary.Status)
	if summary.Succeeded() {
		fmt.Fprintf(&b, "Files processed: %d\n", summary.FilesProcessed)
		fmt.Fprintf(&b, "Files failed: %d\n", summary.FilesFailed)
		fmt.Fprintf(&b, "Total lines: %d\n", summary.TotalLines)
		fmt.Fprintf(&b, "Output size: %d bytes\n", summary.OutputSizeBytes)
		fmt.Fprintf(&b, "Output: %s\n", summary.OutputPath)
	} else {
		fmt.Fprintf(&b, "Error: %s\n", summary.Message)
	}
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(summary.Duration()))

	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
