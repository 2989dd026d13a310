package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
)

// ScanOptions configures candidate discovery
type ScanOptions struct {
	// Suffixes is a list of literal filename suffixes to include (e.g., ".py", ".md")
	Suffixes []string
	// ExcludeNames is a list of exact directory or file names to skip (e.g., ".git", "build")
	ExcludeNames []string
	// Sort orders the result by relative path instead of traversal order
	Sort bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the candidate files in traversal order
	Files []models.FileEntry
	// Errors contains any non-fatal errors encountered during scanning
	Errors []error
}

// ScanDirectory walks dir top-down and returns every candidate file
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	// Validate directory exists
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	// The root listing is not optional: a root we cannot read is a run-level failure
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	s := &scanner{
		root:     root,
		suffixes: opts.Suffixes,
		exclude:  toSet(opts.ExcludeNames),
		result: &ScanResult{
			Files:  make([]models.FileEntry, 0),
			Errors: make([]error, 0),
		},
	}
	s.visit(root, entries)

	if opts.Sort {
		sort.SliceStable(s.result.Files, func(i, j int) bool {
			return s.result.Files[i].RelativePath < s.result.Files[j].RelativePath
		})
	}

	return s.result, nil
}

// MatchesSuffix reports whether name ends with any of suffixes
func MatchesSuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether name exactly equals one of patterns
func IsExcluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if name == p {
			return true
		}
	}
	return false
}

type scanner struct {
	root     string
	suffixes []string
	exclude  map[string]bool
	result   *ScanResult
}

// visit records the qualifying files of one directory, then descends into
// its retained subdirectories.
func (s *scanner) visit(dir string, entries []os.DirEntry) {
	var subdirs []string

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			// Links to directories are listed but never followed
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				continue
			}
		}

		if isDir {
			if s.exclude[name] {
				continue
			}
			subdirs = append(subdirs, path)
			continue
		}

		if s.exclude[name] || !MatchesSuffix(name, s.suffixes) {
			continue
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			s.result.Errors = append(s.result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			continue
		}

		s.result.Files = append(s.result.Files, models.FileEntry{
			AbsolutePath: path,
			RelativePath: rel,
		})
	}

	for _, sub := range subdirs {
		children, err := os.ReadDir(sub)
		if err != nil {
			s.result.Errors = append(s.result.Errors, fmt.Errorf("error accessing %s: %w", sub, err))
			continue
		}
		s.visit(sub, children)
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}
