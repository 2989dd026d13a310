package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow when out is a terminal
func (w Warning) Display(out io.Writer) {
	w.Render(out, ColorEnabled(out))
}

// Render writes the warning with or without ANSI colors
func (w Warning) Render(out io.Writer, color bool) {
	var b strings.Builder

	if color {
		b.WriteString(ansiYellow)
	}
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	// Add message with 4-space indent if present
	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	// Add paths with proper singular/plural and indentation
	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	// Add suggestion with 4-space indent if present
	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if color {
		b.WriteString(ansiReset)
	}

	fmt.Fprint(out, b.String())
}

// WarnUnreadable creates a warning for directories skipped during discovery
func WarnUnreadable(paths []string) Warning {
	return Warning{
		Title:      "Some directories could not be read",
		Message:    "Their files are missing from the output.",
		Files:      paths,
		Suggestion: "Check permissions or add the directories to the exclude list",
	}
}
