// Package tui renders a running consolidation as an interactive terminal view.
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrison/ctxgen/internal/consolidator"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/models"
)

const (
	maxBarWidth = 60
	barPadding  = 4
)

// StatusMsg carries a status update from the worker
type StatusMsg string

// ProgressMsg carries the completed fraction from the worker
type ProgressMsg float64

// FinishedMsg carries the terminal summary from the worker
type FinishedMsg models.RunSummary

// Model is the bubbletea model of the progress view
type Model struct {
	project   string
	output    string
	status    string
	fraction  float64
	cancelled bool
	summary   *models.RunSummary

	cancel   func()
	keys     KeyMap
	spinner  spinner.Model
	progress progress.Model
}

// NewModel creates the view for req. cancel is invoked when the user asks to stop.
func NewModel(req models.ScanRequest, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = maxBarWidth

	return Model{
		project:  consolidator.ProjectName(req.RootDirectory),
		output:   req.OutputPath,
		status:   "Ready.",
		cancel:   cancel,
		keys:     DefaultKeyMap(),
		spinner:  s,
		progress: p,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		if !m.cancelled {
			m.status = string(msg)
		}
		return m, nil

	case ProgressMsg:
		f := float64(msg)
		if !math.IsNaN(f) && f >= m.fraction {
			m.fraction = math.Min(f, 1)
		}
		return m, nil

	case FinishedMsg:
		summary := models.RunSummary(msg)
		m.summary = &summary
		m.status = display.StatusLine(summary)
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) && m.summary == nil && !m.cancelled {
			m.cancelled = true
			m.status = "Cancelling..."
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - barPadding
		if m.progress.Width > maxBarWidth {
			m.progress.Width = maxBarWidth
		}
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		return m, nil

	case spinner.TickMsg:
		if m.summary != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ctxgen: " + m.project))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Output: " + m.output))
	b.WriteString("\n\n")

	if m.summary == nil {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(StatusStyle.Render(m.status))
		b.WriteString("\n\n")
		b.WriteString(m.progress.ViewAs(m.fraction))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render(m.keys.HelpText()))
		b.WriteString("\n")
		return b.String()
	}

	var panel strings.Builder
	display.RenderSummary(&panel, *m.summary, false)
	body := strings.TrimRight(panel.String(), "\n")

	if m.summary.Succeeded() {
		b.WriteString(m.progress.ViewAs(1))
		b.WriteString("\n\n")
		b.WriteString(BoxStyle.Render(body))
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(SymbolCheck + " " + m.status))
		if len(m.summary.Skipped) > 0 {
			b.WriteString("\n")
			b.WriteString(WarningStyle.Render("Some directories could not be read; run with --verbose for details"))
		}
	} else {
		b.WriteString(ErrorBoxStyle.Render(body))
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(SymbolCross + " " + m.status))
	}
	b.WriteString("\n")

	return b.String()
}

// Summary returns the terminal summary once the run has finished
func (m Model) Summary() (models.RunSummary, bool) {
	if m.summary == nil {
		return models.RunSummary{}, false
	}
	return *m.summary, true
}

// Fraction returns the last progress fraction received
func (m Model) Fraction() float64 {
	return m.fraction
}

// Status returns the status line currently shown
func (m Model) Status() string {
	return m.status
}
