// Package share hands a generated artifact to the rest of the desktop:
// the system clipboard or the platform's default viewer.
package share

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard backend is installed
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

// Clipboard writes text to a clipboard
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the clipboard of the running desktop session
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// CopyFile reads the artifact at path and places its text on cb.
// It returns the number of bytes copied.
func CopyFile(cb Clipboard, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read file to copy: %w", err)
	}
	if err := cb.WriteAll(string(content)); err != nil {
		return 0, fmt.Errorf("could not copy to clipboard: %w", err)
	}
	return len(content), nil
}

// Opener launches the platform viewer for a file
type Opener struct {
	goos string
	run  func(name string, args ...string) error
}

// NewOpener creates an Opener for the current platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Command returns the program and arguments used to open path
func (o *Opener) Command(path string) (string, []string) {
	switch o.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open opens path with the platform viewer without waiting for it to exit
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("could not open file: %w", err)
	}

	name, args := o.Command(path)
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("could not open file with %s: %w", name, err)
	}
	return nil
}
