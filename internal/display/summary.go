package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
)

// RenderSummary prints the completion text of a run
func RenderSummary(w io.Writer, s models.RunSummary, color bool) {
	var b strings.Builder

	if !s.Succeeded() {
		b.WriteString(paint(color, ansiRed+ansiBold, "An error occurred:"))
		b.WriteString("\n\n")
		b.WriteString(s.Message)
		b.WriteString("\n")
		fmt.Fprint(w, b.String())
		return
	}

	b.WriteString(paint(color, ansiBold, "--- Generation Complete ---"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Files Processed: %s\n", FormatThousands(int64(s.FilesProcessed)))
	if s.FilesFailed > 0 {
		fmt.Fprintf(&b, "%s\n", paint(color, ansiYellow, "Files Unreadable: "+FormatThousands(int64(s.FilesFailed))))
	}
	fmt.Fprintf(&b, "Total Lines of Code: %s\n", FormatThousands(int64(s.TotalLines)))
	fmt.Fprintf(&b, "Output File Size: %s KB\n\n", FormatKB(s.OutputSizeBytes))
	b.WriteString("Output saved to:\n")
	b.WriteString(s.OutputPath)
	b.WriteString("\n")

	fmt.Fprint(w, b.String())
}

// StatusLine returns the one-line outcome of a run
func StatusLine(s models.RunSummary) string {
	if !s.Succeeded() {
		return "Error: " + s.Message
	}
	return "Success! Project context saved to " + filepath.Base(s.OutputPath)
}

// FormatThousands renders n with comma thousands separators: 1234567 -> "1,234,567"
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// FormatKB renders a byte count as kibibytes with two decimals and thousands separators
func FormatKB(bytes int64) string {
	kb := float64(bytes) / 1024
	whole := int64(kb)
	frac := fmt.Sprintf("%.2f", kb-float64(whole))
	// rounding may carry into the integer part
	if frac == "1.00" {
		whole++
		frac = "0.00"
	}
	return FormatThousands(whole) + frac[1:]
}
