package consolidator

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Separator frames every file header in the artifact
var Separator = strings.Repeat("=", 80)

const (
	projectHeaderFormat   = "--- Project Context for: %s ---\n\n"
	fileHeaderPrefix      = "### FILE: "
	errorAnnotationFormat = "--- ERROR reading %s: %v ---\n\n"
	fence                 = "```"
)

// ProjectName returns the name written in the artifact header
func ProjectName(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(root)
}

// FenceLanguage returns the extension of path without its dot, or "" when
// the name has none. Leading dots belong to the name, so ".bashrc" has no
// extension.
func FenceLanguage(path string) string {
	name := strings.TrimLeft(filepath.Base(path), ".")
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// CountLines returns the number of newline characters plus one.
// An empty file therefore counts as one line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}

// newlines folds CRLF and bare CR line endings into "\n"
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// DecodeText converts raw bytes to text, silently dropping byte sequences
// that are not valid UTF-8. Line endings are normalized to "\n".
func DecodeText(raw []byte) string {
	return newlines.Replace(strings.ToValidUTF8(string(raw), ""))
}

func writeProjectHeader(w io.Writer, project string) error {
	_, err := fmt.Fprintf(w, projectHeaderFormat, project)
	return err
}

func writeFileBlock(w io.Writer, relPath, language, content string) error {
	var b strings.Builder
	b.Grow(len(content) + len(relPath) + 2*len(Separator) + 32)

	b.WriteString(Separator)
	b.WriteString("\n")
	b.WriteString(fileHeaderPrefix)
	b.WriteString(relPath)
	b.WriteString("\n")
	b.WriteString(Separator)
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString(language)
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeErrorAnnotation(w io.Writer, relPath string, cause error) error {
	_, err := fmt.Fprintf(w, errorAnnotationFormat, relPath, cause)
	return err
}
