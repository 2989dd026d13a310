package consolidator

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
)

var (
	// ErrInvalidRoot is returned when the root directory is missing or not a directory
	ErrInvalidRoot = errors.New("invalid project directory")
	// ErrEmptyOutput is returned when no output path was given
	ErrEmptyOutput = errors.New("output file name is required")
)

// ValidateRequest checks the caller-side preconditions of a run.
// The pipeline itself reports the same conditions as an Error summary.
func ValidateRequest(req models.ScanRequest) error {
	if strings.TrimSpace(req.RootDirectory) == "" {
		return fmt.Errorf("%w: no directory selected", ErrInvalidRoot)
	}
	info, err := os.Stat(req.RootDirectory)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, req.RootDirectory)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return ErrEmptyOutput
	}
	return nil
}
