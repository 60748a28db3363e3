package dump

import "fmt"

// Status describes how a file participates in the dump.
type Status int

const (
	StatusIncluded Status = iota
	StatusTruncated
	StatusDropped
	StatusSkippedTooLarge
	StatusSkippedBinary
	StatusSkippedExcluded
	StatusSkippedUnreadable
)

// String returns the status name used in summaries and JSON output.
func (s Status) String() string {
	switch s {
	case StatusIncluded:
		return "included"
	case StatusTruncated:
		return "truncated"
	case StatusDropped:
		return "dropped"
	case StatusSkippedTooLarge:
		return "skipped-too-large"
	case StatusSkippedBinary:
		return "skipped-binary"
	case StatusSkippedExcluded:
		return "skipped-excluded"
	case StatusSkippedUnreadable:
		return "skipped-unreadable"
	default:
		return "unknown"
	}
}

// Emitted reports whether the record's content appears in the dump body.
func (s Status) Emitted() bool {
	return s == StatusIncluded || s == StatusTruncated
}

// FileRecord is one file discovered under the scan root. Records are created
// once during collection and mutated only by budget enforcement, which moves
// them forward through Included -> Truncated -> Dropped.
type FileRecord struct {
	RelPath    string // Slash-separated path relative to the scan root; unique key.
	SizeBytes  int64  // Raw byte length on disk.
	TokenCount int    // Estimated tokens of Content; re-estimated after truncation.
	Content    string // Text payload to emit; empty for skipped and dropped records.
	Status     Status
}

// newSkippedRecord builds a content-free record for a file the collector
// rejected.
func newSkippedRecord(relPath string, sizeBytes int64, status Status) *FileRecord {
	return &FileRecord{RelPath: relPath, SizeBytes: sizeBytes, Status: status}
}

// advance moves the record to the next lifecycle state. Transitions only run
// forward; anything else is a programming error.
func (r *FileRecord) advance(next Status) error {
	allowed := false
	switch r.Status {
	case StatusIncluded:
		allowed = next == StatusTruncated || next == StatusDropped
	case StatusTruncated:
		allowed = next == StatusTruncated || next == StatusDropped
	}
	if !allowed {
		return fmt.Errorf("invalid status transition %s -> %s for %s", r.Status, next, r.RelPath)
	}
	r.Status = next
	if next == StatusDropped {
		r.Content = ""
		r.TokenCount = 0
	}
	return nil
}
