package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrison/ctxgen/internal/consolidator"
	"github.com/harrison/ctxgen/internal/models"
)

// Hooks observe the run alongside the view, e.g. for logging
type Hooks struct {
	OnStatus   func(string)
	OnProgress func(float64)
}

// Run executes req on runner while the progress view is shown.
// Worker callbacks reach the UI through Program.Send; the view exits once
// the summary arrives. If the view fails the run is cancelled and awaited.
func Run(ctx context.Context, runner *consolidator.Runner, req models.ScanRequest, out io.Writer, hooks Hooks, extra ...tea.ProgramOption) (models.RunSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	opts = append(opts, extra...)
	program := tea.NewProgram(NewModel(req, cancel), opts...)

	run, err := runner.Start(ctx, req, consolidator.Callbacks{
		OnStatus: func(s string) {
			if hooks.OnStatus != nil {
				hooks.OnStatus(s)
			}
			program.Send(StatusMsg(s))
		},
		OnProgress: func(f float64) {
			if hooks.OnProgress != nil {
				hooks.OnProgress(f)
			}
			program.Send(ProgressMsg(f))
		},
		OnFinished: func(s models.RunSummary) {
			program.Send(FinishedMsg(s))
		},
	})
	if err != nil {
		return models.RunSummary{}, err
	}

	if _, err := program.Run(); err != nil {
		run.Cancel()
		run.Wait()
		return models.RunSummary{}, fmt.Errorf("progress view failed: %w", err)
	}

	return run.Wait(), nil
}
