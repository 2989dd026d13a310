package consolidator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/ctxgen/internal/filelock"
	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/models"
)

// Logger receives diagnostic messages from a run.
// Status and progress for the user travel through callbacks instead.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Option configures a Consolidator
type Option func(*Consolidator)

// WithLogger sets the diagnostic logger
func WithLogger(l Logger) Option {
	return func(c *Consolidator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReadFile replaces the function used to read candidate files
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(c *Consolidator) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithClock replaces the time source used for summary timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Consolidator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRunIDs replaces the run identifier generator
func WithRunIDs(next func() string) Option {
	return func(c *Consolidator) {
		if next != nil {
			c.newRunID = next
		}
	}
}

// Consolidator executes consolidation runs. It holds no per-run state and
// may be shared, but each output path admits only one active run.
type Consolidator struct {
	logger   Logger
	readFile func(path string) ([]byte, error)
	now      func() time.Time
	newRunID func() string
}

// New creates a Consolidator
func New(opts ...Option) *Consolidator {
	c := &Consolidator{
		logger:   noopLogger{},
		readFile: os.ReadFile,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// runStats are the running totals of one pass over the candidates
type runStats struct {
	written int
	failed  int
	lines   int
	skipped []string
}

// Consolidate runs the whole pipeline and always returns a terminal summary.
// onProgress and onStatus may be nil; they are called synchronously in
// pipeline order and never after ctx is done.
func (c *Consolidator) Consolidate(ctx context.Context, req models.ScanRequest, onProgress func(float64), onStatus func(string)) (summary models.RunSummary) {
	req = req.Clone()
	runID := c.newRunID()
	startedAt := c.now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.LogError(fmt.Sprintf("Run %s panicked: %v", runID, r))
			summary = models.NewErrorSummary(runID, req, fmt.Errorf("internal error: %v", r))
		}
		summary.StartedAt = startedAt
		summary.FinishedAt = c.now()
	}()

	n := &notifier{ctx: ctx, onProgress: onProgress, onStatus: onStatus}

	stats, err := c.run(ctx, req, n)
	if err != nil {
		c.logger.LogError(fmt.Sprintf("Run %s failed: %v", runID, err))
		return models.NewErrorSummary(runID, req, err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		c.logger.LogError(fmt.Sprintf("Run %s failed: %v", runID, err))
		return models.NewErrorSummary(runID, req, fmt.Errorf("failed to measure output: %w", err))
	}

	c.logger.LogInfo(fmt.Sprintf("Run %s wrote %d files (%d unreadable), %d lines, %d bytes to %s",
		runID, stats.written, stats.failed, stats.lines, info.Size(), req.OutputPath))

	summary = models.NewSuccessSummary(runID, req, stats.written, stats.failed, stats.lines, info.Size())
	summary.Skipped = stats.skipped
	return summary
}

func (c *Consolidator) run(ctx context.Context, req models.ScanRequest, n *notifier) (stats runStats, err error) {
	n.status("Starting scan...")
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("run cancelled: %w", err)
	}

	result, err := fileutil.ScanDirectory(req.RootDirectory, fileutil.ScanOptions{
		Suffixes:     req.IncludeSuffixes,
		ExcludeNames: req.ExcludePatterns,
		Sort:         req.SortCandidates,
	})
	if err != nil {
		return stats, err
	}
	for _, scanErr := range result.Errors {
		c.logger.LogWarn(scanErr.Error())
		stats.skipped = append(stats.skipped, scanErr.Error())
	}

	candidates := withoutOutput(result.Files, req.OutputPath)
	total := len(candidates)
	n.status(fmt.Sprintf("Found %d files to process.", total))

	release, err := filelock.AcquireOutput(req.OutputPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if relErr := release(); relErr != nil {
			c.logger.LogWarn(relErr.Error())
		}
	}()

	file, err := os.Create(req.OutputPath)
	if err != nil {
		return stats, fmt.Errorf("failed to open output: %w", err)
	}
	w := bufio.NewWriterSize(file, 64*1024)

	// The artifact is flushed and closed on every path, cancellation included
	defer func() {
		flushErr := w.Flush()
		closeErr := file.Close()
		if err != nil {
			return
		}
		if flushErr != nil {
			err = fmt.Errorf("failed to write output: %w", flushErr)
		} else if closeErr != nil {
			err = fmt.Errorf("failed to close output: %w", closeErr)
		}
	}()

	if err := writeProjectHeader(w, ProjectName(req.RootDirectory)); err != nil {
		return stats, fmt.Errorf("failed to write output: %w", err)
	}

	for i, entry := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("run cancelled after %d of %d files: %w", i, total, err)
		}

		n.status("Processing: " + entry.RelativePath)

		ok, lines, err := c.writeEntry(w, entry)
		if err != nil {
			return stats, fmt.Errorf("failed to write output: %w", err)
		}
		if ok {
			stats.written++
			stats.lines += lines
		} else {
			stats.failed++
		}

		n.progress(float64(i+1) / float64(total))
	}

	return stats, nil
}

// writeEntry appends one candidate to the artifact. ok is false when the
// file could not be read and an annotation was written instead; err is only
// set when the artifact itself could not be written.
func (c *Consolidator) writeEntry(w io.Writer, entry models.FileEntry) (ok bool, lines int, err error) {
	raw, readErr := c.readFile(entry.AbsolutePath)
	if readErr != nil {
		c.logger.LogWarn(fmt.Sprintf("Could not read %s: %v", entry.RelativePath, readErr))
		return false, 0, writeErrorAnnotation(w, entry.RelativePath, readErr)
	}

	content := DecodeText(raw)
	lines = CountLines(content)
	c.logger.LogDebug(fmt.Sprintf("Added %s (%d lines)", entry.RelativePath, lines))

	if err := writeFileBlock(w, entry.RelativePath, FenceLanguage(entry.RelativePath), content); err != nil {
		return false, 0, err
	}
	return true, lines, nil
}

// withoutOutput drops the artifact itself when it lives inside the scanned tree
func withoutOutput(files []models.FileEntry, outputPath string) []models.FileEntry {
	outAbs, err := filepath.Abs(outputPath)
	if err != nil {
		return files
	}
	out := files[:0:0]
	for _, f := range files {
		if f.AbsolutePath == outAbs {
			continue
		}
		out = append(out, f)
	}
	return out
}

// notifier forwards callbacks until the run's context is done
type notifier struct {
	ctx        context.Context
	onProgress func(float64)
	onStatus   func(string)
}

func (n *notifier) status(message string) {
	if n.onStatus == nil || n.ctx.Err() != nil {
		return
	}
	n.onStatus(message)
}

func (n *notifier) progress(fraction float64) {
	if n.onProgress == nil || n.ctx.Err() != nil {
		return
	}
	n.onProgress(fraction)
}

type noopLogger struct{}

func (noopLogger) LogDebug(string) {}
func (noopLogger) LogInfo(string)  {}
func (noopLogger) LogWarn(string)  {}
func (noopLogger) LogError(string) {}
