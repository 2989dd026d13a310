package display

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

const processingPrefix = "Processing: "

// ProgressIndicator prints the pipeline's status updates as they arrive.
// Per-file lines carry the completed percentage: "  [ 40%] src/app.py" (cyan).
type ProgressIndicator struct {
	writer  io.Writer
	color   bool
	mu      sync.Mutex
	percent int
	files   int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, color bool) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		color:  color,
	}
}

// Status displays one status update
func (p *ProgressIndicator) Status(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rel, ok := strings.CutPrefix(message, processingPrefix); ok {
		p.files++
		line := fmt.Sprintf("  [%3d%%] %s", p.percent, rel)
		fmt.Fprintln(p.writer, paint(p.color, ansiCyan, line))
		return
	}

	fmt.Fprintln(p.writer, message)
}

// Progress records the completed fraction shown on the next file line
func (p *ProgressIndicator) Progress(fraction float64) {
	if math.IsNaN(fraction) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.percent = int(math.Round(math.Max(0, math.Min(1, fraction)) * 100))
}

// Complete displays a success line with a green checkmark
func (p *ProgressIndicator) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.writer, "%s Processed %d files\n", paint(p.color, ansiGreen, "✓"), p.files)
}

// Percent returns the last recorded percentage
func (p *ProgressIndicator) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent
}
