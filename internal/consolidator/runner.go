package consolidator

import (
	"context"
	"errors"
	"sync"

	"github.com/harrison/ctxgen/internal/models"
)

// ErrRunInProgress is returned by Start while another run is active
var ErrRunInProgress = errors.New("a run is already in progress")

// Callbacks receive the three feedback channels of a run.
// All of them are invoked on the run's worker goroutine.
type Callbacks struct {
	OnProgress func(fraction float64)
	OnStatus   func(message string)
	OnFinished func(summary models.RunSummary)
}

// Runner executes one consolidation at a time on a background goroutine
type Runner struct {
	consolidator *Consolidator

	mu     sync.Mutex
	active *Run
}

// NewRunner creates a Runner around c
func NewRunner(c *Consolidator) *Runner {
	if c == nil {
		c = New()
	}
	return &Runner{consolidator: c}
}

// Run is a handle to a started consolidation
type Run struct {
	cancel  context.CancelFunc
	done    chan struct{}
	summary models.RunSummary
}

// Start launches a run. OnFinished is invoked exactly once, after the
// output has been closed; by then Active already reports false.
func (r *Runner) Start(ctx context.Context, req models.ScanRequest, cb Callbacks) (*Run, error) {
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{cancel: cancel, done: make(chan struct{})}
	r.active = run
	r.mu.Unlock()

	go func() {
		defer close(run.done)
		defer cancel()

		run.summary = r.consolidator.Consolidate(runCtx, req, cb.OnProgress, cb.OnStatus)

		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()

		if cb.OnFinished != nil {
			cb.OnFinished(run.summary)
		}
	}()

	return run, nil
}

// Active reports whether a run is currently executing
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Done is closed once the run has finished and OnFinished has returned
func (run *Run) Done() <-chan struct{} {
	return run.done
}

// Wait blocks until the run finishes and returns its summary
func (run *Run) Wait() models.RunSummary {
	<-run.done
	return run.summary
}

// Cancel asks the run to stop before its next file
func (run *Run) Cancel() {
	run.cancel()
}
