// Package artifact reads generated project context files back into a
// structured report.
//
// An artifact is close enough to Markdown that goldmark parses it directly:
// every "### FILE: <path>" line is an ATX heading and the content that
// follows it is a fenced code block. Separator lines and annotations become
// plain paragraphs. Files whose content itself contains a ``` fence close the
// block early, so their line counts are unreliable.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	projectPrefix = "--- Project Context for: "
	errorPrefix   = "--- ERROR reading "
	annotationEnd = " ---"
	filePrefix    = "FILE: "
)

// ErrNotArtifact is returned when the content lacks the project header
var ErrNotArtifact = errors.New("not a project context file")

// Block is one file section of an artifact
type Block struct {
	Path     string
	Language string
	Lines    int
}

// Report describes the contents of an artifact
type Report struct {
	Project string
	Blocks  []Block
	Errors  []string
}

// TotalLines sums the line counts of all blocks
func (r *Report) TotalLines() int {
	total := 0
	for _, b := range r.Blocks {
		total += b.Lines
	}
	return total
}

// InspectFile reads and inspects the artifact at path
func InspectFile(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Inspect(content)
}

// Inspect parses artifact content
func Inspect(content []byte) (*Report, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	report := &Report{}
	foundHeader := false
	pendingPath := ""
	hasPending := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Paragraph:
			line := rawText(node, content)
			switch {
			case !foundHeader && isAnnotation(line, projectPrefix):
				report.Project = trimAnnotation(line, projectPrefix)
				foundHeader = true
			case isAnnotation(line, errorPrefix):
				report.Errors = append(report.Errors, trimAnnotation(line, errorPrefix))
			}

		case *ast.Heading:
			if node.Level != 3 {
				continue
			}
			heading := rawText(node, content)
			if path, ok := strings.CutPrefix(heading, filePrefix); ok {
				pendingPath = path
				hasPending = true
			}

		case *ast.FencedCodeBlock:
			if !hasPending {
				continue
			}
			language := ""
			if node.Info != nil {
				language = string(node.Language(content))
			}
			report.Blocks = append(report.Blocks, Block{
				Path:     pendingPath,
				Language: language,
				Lines:    node.Lines().Len(),
			})
			hasPending = false
		}
	}

	if !foundHeader {
		return nil, ErrNotArtifact
	}
	return report, nil
}

// rawText returns the source lines of a block node without inline parsing,
// so paths containing Markdown punctuation survive unchanged.
func rawText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimSpace(buf.String())
}

func isAnnotation(line, prefix string) bool {
	return strings.HasPrefix(line, prefix) && strings.HasSuffix(line, annotationEnd)
}

func trimAnnotation(line, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(line, prefix), annotationEnd)
}
