// Package fileutil discovers candidate files for a consolidation run.
//
// ScanDirectory walks a project tree top-down. Within each directory the files
// are visited first and the retained subdirectories afterwards, so a parent's
// files always precede its children's files in the result.
//
// # Matching Rules
//
// Both rules are literal string comparisons, never globs:
//   - Suffixes: a file qualifies when its name ends with one of Suffixes
//     (case-sensitive, e.g. ".py" matches "app.py" but not "app.PY")
//   - ExcludeNames: a directory whose name equals an entry is pruned and never
//     visited; a file whose name equals an entry is skipped
//
// The root directory itself is never pruned, even if its name is excluded.
//
// # Usage
//
//	result, err := fileutil.ScanDirectory("/path/to/project", fileutil.ScanOptions{
//	    Suffixes:     []string{".go", ".md"},
//	    ExcludeNames: []string{".git", "node_modules"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range result.Files {
//	    fmt.Println(entry.RelativePath)
//	}
//
// # Error Tolerance
//
// Unreadable subdirectories are recorded in ScanResult.Errors and scanning
// continues. Only problems with the root (missing, not a directory, unreadable)
// fail the scan.
//
// # Ordering
//
// Entries within a directory come back in os.ReadDir order (sorted by name).
// Setting Sort orders the whole result by relative path instead, which gives a
// total order independent of how directories nest.
package fileutil
