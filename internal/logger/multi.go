package logger

import "github.com/harrison/ctxgen/internal/models"

// MultiLogger forwards every call to each of its loggers in order
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger, skipping nil loggers
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

// LogTrace forwards to all loggers
func (ml *MultiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

// LogDebug forwards to all loggers
func (ml *MultiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

// LogInfo forwards to all loggers
func (ml *MultiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (ml *MultiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *MultiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogRunStart forwards to all loggers
func (ml *MultiLogger) LogRunStart(runID string, req models.ScanRequest) {
	for _, l := range ml.loggers {
		l.LogRunStart(runID, req)
	}
}

// LogStatus forwards to all loggers
func (ml *MultiLogger) LogStatus(message string) {
	for _, l := range ml.loggers {
		l.LogStatus(message)
	}
}

// LogProgress forwards to all loggers
func (ml *MultiLogger) LogProgress(fraction float64) {
	for _, l := range ml.loggers {
		l.LogProgress(fraction)
	}
}

// LogSummary forwards to all loggers
func (ml *MultiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range ml.loggers {
		l.LogSummary(summary)
	}
}
