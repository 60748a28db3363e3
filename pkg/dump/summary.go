package dump

// Summary describes what a dump run produced, for the renderer's header and
// footer and for callers that log the outcome.
type Summary struct {
	IncludedFiles     int
	TruncatedFiles    int
	DroppedFiles      int
	SkippedTooLarge   int
	SkippedBinary     int
	SkippedExcluded   int
	SkippedUnreadable int
	TotalTokens       int   // Sum over included and truncated records; equals the enforcer's total.
	TotalBytes        int64 // Bytes of content that made it into the dump.
	Warnings          []string
}

// Summarize tallies the final record set.
func Summarize(records []*FileRecord, totalTokens int, warnings []string) Summary {
	summary := Summary{TotalTokens: totalTokens, Warnings: warnings}
	for _, record := range records {
		switch record.Status {
		case StatusIncluded:
			summary.IncludedFiles++
		case StatusTruncated:
			summary.TruncatedFiles++
		case StatusDropped:
			summary.DroppedFiles++
		case StatusSkippedTooLarge:
			summary.SkippedTooLarge++
		case StatusSkippedBinary:
			summary.SkippedBinary++
		case StatusSkippedExcluded:
			summary.SkippedExcluded++
		case StatusSkippedUnreadable:
			summary.SkippedUnreadable++
		}
		if record.Status.Emitted() {
			summary.TotalBytes += record.SizeBytes
		}
	}
	return summary
}

// EmittedFiles is the number of files whose content appears in the dump.
func (s Summary) EmittedFiles() int {
	return s.IncludedFiles + s.TruncatedFiles
}
