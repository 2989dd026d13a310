// Package display provides terminal output for ctxgen: per-file progress in
// plain mode, the end-of-run summary and warnings.
//
// # Progress Indicators
//
// ProgressIndicator turns the consolidator's status and progress callbacks
// into one line per step:
//
//	progress := display.NewProgressIndicator(os.Stdout, display.ColorEnabled(os.Stdout))
//	runner.Start(ctx, req, consolidator.Callbacks{
//	    OnStatus:   progress.Status,
//	    OnProgress: progress.Progress,
//	})
//
// # Run Summary
//
//	display.RenderSummary(os.Stdout, summary, display.ColorEnabled(os.Stdout))
//
// prints the completion block ("--- Generation Complete ---" with file,
// line and size figures) or the error block for failed runs.
//
// # Warning Messages
//
//	warning := display.WarnUnreadable(dirs)
//	warning.Display(os.Stderr)
//
// # Colors
//
// Colors are ANSI escape codes and are only emitted when ColorEnabled
// reports a terminal. All functions accept io.Writer for testability.
package display
