package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(cancel func()) Model {
	return NewModel(models.ScanRequest{
		RootDirectory: "/work/my-app",
		OutputPath:    "/tmp/ctx.txt",
	}, cancel)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update must return a Model")
	return model, cmd
}

func TestModelStatusAndProgress(t *testing.T) {
	m := newTestModel(nil)
	assert.Equal(t, "Ready.", m.Status())

	m, _ = update(t, m, StatusMsg("Found 4 files to process."))
	m, _ = update(t, m, ProgressMsg(0.25))
	m, _ = update(t, m, ProgressMsg(0.5))

	assert.Equal(t, "Found 4 files to process.", m.Status())
	assert.InDelta(t, 0.5, m.Fraction(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "ctxgen: my-app")
	assert.Contains(t, view, "Found 4 files to process.")
	assert.Contains(t, view, "q cancel")
}

func TestModelProgressNeverDecreases(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, ProgressMsg(0.75))
	m, _ = update(t, m, ProgressMsg(0.5))
	m, _ = update(t, m, ProgressMsg(3))

	assert.Equal(t, 1.0, m.Fraction())
}

func TestModelFinishedSuccess(t *testing.T) {
	m := newTestModel(nil)

	m, cmd := update(t, m, FinishedMsg(models.RunSummary{
		Status:          models.RunSuccess,
		FilesProcessed:  3,
		TotalLines:      1500,
		OutputSizeBytes: 2048,
		OutputPath:      "/tmp/ctx.txt",
	}))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	summary, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 3, summary.FilesProcessed)

	view := m.View()
	assert.Contains(t, view, "--- Generation Complete ---")
	assert.Contains(t, view, "Total Lines of Code: 1,500")
	assert.Contains(t, view, "Success! Project context saved to ctx.txt")
}

func TestModelFinishedError(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, FinishedMsg(models.RunSummary{Status: models.RunError, Message: "output is locked"}))

	view := m.View()
	assert.Contains(t, view, "An error occurred:")
	assert.Contains(t, view, "Error: output is locked")
}

func TestModelCancel(t *testing.T) {
	cancelled := 0
	m := newTestModel(func() { cancelled++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "the view waits for the summary instead of quitting")
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, "Cancelling...", m.Status())

	// Repeated presses and late status updates are ignored
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m, _ = update(t, m, StatusMsg("Processing: a.py"))
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, "Cancelling...", m.Status())
}

func TestModelIgnoresCancelAfterFinish(t *testing.T) {
	cancelled := 0
	m := newTestModel(func() { cancelled++ })
	m, _ = update(t, m, FinishedMsg(models.RunSummary{Status: models.RunSuccess}))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Zero(t, cancelled)
}

func TestModelWindowResize(t *testing.T) {
	m := newTestModel(nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.progress.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 300, Height: 10})
	assert.Equal(t, maxBarWidth, m.progress.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 5, Height: 10})
	assert.Equal(t, 10, m.progress.Width)
}

func TestModelSkippedWarning(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, FinishedMsg(models.RunSummary{
		Status:  models.RunSuccess,
		Skipped: []string{"error accessing /x: permission denied"},
	}))

	assert.True(t, strings.Contains(m.View(), "Some directories could not be read"))
}
