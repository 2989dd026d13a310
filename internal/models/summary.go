package models

import "time"

// RunStatus is the terminal status of a consolidation run
type RunStatus string

// Run status constants
const (
	RunSuccess RunStatus = "Success"
	RunError   RunStatus = "Error"
)

// RunSummary is produced exactly once per run.
// On Error only Message (plus identifying fields) is meaningful.
type RunSummary struct {
	RunID           string
	Status          RunStatus
	RootDirectory   string
	OutputPath      string
	FilesProcessed  int      // candidates written as file blocks
	FilesFailed     int      // candidates replaced by an inline error annotation
	TotalLines      int      // newline count + 1 for every successfully read file
	OutputSizeBytes int64    // size of the closed artifact
	Skipped         []string // directories below the root that could not be read
	Message         string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// NewSuccessSummary builds a Success summary
func NewSuccessSummary(runID string, req ScanRequest, processed, failed, lines int, size int64) RunSummary {
	return RunSummary{
		RunID:           runID,
		Status:          RunSuccess,
		RootDirectory:   req.RootDirectory,
		OutputPath:      req.OutputPath,
		FilesProcessed:  processed,
		FilesFailed:     failed,
		TotalLines:      lines,
		OutputSizeBytes: size,
	}
}

// NewErrorSummary builds an Error summary carrying err's message
func NewErrorSummary(runID string, req ScanRequest, err error) RunSummary {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return RunSummary{
		RunID:         runID,
		Status:        RunError,
		RootDirectory: req.RootDirectory,
		OutputPath:    req.OutputPath,
		Message:       msg,
	}
}

// Succeeded reports whether the run finished with Success status
func (s RunSummary) Succeeded() bool {
	return s.Status == RunSuccess
}

// OutputSizeKB returns the artifact size in kibibytes
func (s RunSummary) OutputSizeKB() float64 {
	return float64(s.OutputSizeBytes) / 1024
}

// Duration returns the wall time of the run, or zero when timestamps are missing
func (s RunSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
