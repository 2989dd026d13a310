package logger

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// ProgressBar is an ASCII bar for the completed fraction of a run,
// rendered as "[=====     ] 50%"
type ProgressBar struct {
	percent     int
	width       int
	enableColor bool
	mu          sync.RWMutex
}

// NewPercentBar creates a bar width cells wide
func NewPercentBar(width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{
		width:       width,
		enableColor: enableColor,
	}
}

// UpdateFraction sets progress from a fraction in [0,1]; out-of-range values are clamped
func (pb *ProgressBar) UpdateFraction(fraction float64) {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.percent = int(math.Round(fraction * 100))
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.percent
}

// Render generates the ASCII progress bar string
func (pb *ProgressBar) Render() string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	filled := (pb.percent * pb.width) / 100
	result := fmt.Sprintf("[%s%s] %d%%", strings.Repeat("=", filled), strings.Repeat(" ", pb.width-filled), pb.percent)

	if !pb.enableColor {
		return result
	}
	if pb.percent < 100 {
		return "\033[36m" + result + "\033[0m" // Cyan for in-progress
	}
	return "\033[32m" + result + "\033[0m" // Green for complete
}
