// Package scan implements the file-selection engine: gitignore-style pattern
// matching, extension filtering, deterministic directory traversal, and the
// pipeline that turns a directory tree into a single rendered document.
package scan

// CandidateFile is a file that survived directory pruning and all content
// filters. Paths are slash-separated and relative to the scan root.
type CandidateFile struct {
	RelPath   string // root-relative, slash-separated
	AbsPath   string // absolute path used for reading
	Size      int64
	Extension string // lower-cased, including the leading dot
}

// SkipReason is a recorded, non-fatal cause for omitting a file.
type SkipReason string

const (
	SkipTooLarge   SkipReason = "too large"
	SkipBinary     SkipReason = "binary"
	SkipUnreadable SkipReason = "unreadable"
)

// Skip records one omitted file together with the reason.
type Skip struct {
	Path   string
	Reason SkipReason
}

// ScanResult is the ordered outcome of one tree walk. Files appear in
// traversal order: depth-first with directory entries sorted by name, so two
// walks of the same tree produce identical results.
type ScanResult struct {
	Root    string
	Files   []CandidateFile
	Skipped []Skip
}
