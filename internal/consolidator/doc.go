// Package consolidator turns a project tree into a single annotated text
// artifact.
//
// A run is a strict linear pipeline: discover candidates, announce the count,
// open the output, then for every candidate read it, annotate it, write it and
// report progress, and finally close the output and summarize. Discovery always
// completes before the first byte is written so the progress denominator is
// known up front.
//
// # Artifact Format
//
//	--- Project Context for: <project> ---
//
//	================================================================================
//	### FILE: <relative/path.ext>
//	================================================================================
//	```ext
//	<raw content>
//	```
//
// A file that cannot be read is replaced by a single annotation line:
//
//	--- ERROR reading <relative/path>: <reason> ---
//
// # Failure Model
//
// Per-file read failures are annotated inline and never fail the run.
// Run-level failures (root unreadable, output not writable, write errors,
// cancellation) end the run with an Error summary. A partially written artifact
// is left in place.
//
// # Background Execution
//
// Consolidate blocks. Runner executes it on one goroutine and reports progress,
// status and the final summary through Callbacks; it refuses to start a second
// run while one is active.
package consolidator
