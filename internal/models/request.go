package models

// ScanRequest describes one consolidation run.
// It is treated as immutable once a run starts.
type ScanRequest struct {
	// RootDirectory is the project directory to traverse
	RootDirectory string
	// OutputPath is the destination of the generated artifact
	OutputPath string
	// IncludeSuffixes are literal, case-sensitive filename suffixes (e.g. ".py")
	IncludeSuffixes []string
	// ExcludePatterns are exact directory or file names to skip (e.g. ".git")
	ExcludePatterns []string
	// SortCandidates orders candidates by relative path instead of filesystem order
	SortCandidates bool
}

// Clone returns a copy of the request that shares no slices with the original.
func (r ScanRequest) Clone() ScanRequest {
	out := r
	out.IncludeSuffixes = append([]string(nil), r.IncludeSuffixes...)
	out.ExcludePatterns = append([]string(nil), r.ExcludePatterns...)
	return out
}

// FileEntry is a candidate file discovered during traversal.
type FileEntry struct {
	AbsolutePath string
	RelativePath string // relative to ScanRequest.RootDirectory
}
