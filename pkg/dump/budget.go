package dump

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// TruncationMarker is appended to any content shortened by budget
// enforcement so the omission stays visible in the dump.
const TruncationMarker = "\n... [truncated]\n"

// Enforce applies the token budget to the collected records. When the total
// over included records exceeds the cap, the record with the largest current
// token count (ties broken by path, ascending) is truncated to fit or, when
// even a minimal stub would not help, dropped entirely. The loop repeats
// until the running total fits or nothing emittable remains. Returns the
// final total, which always equals the sum of the surviving records' token
// counts, plus any warnings for the summary.
func Enforce(records []*FileRecord, budget Budget, estimator Estimator, logger *zap.Logger) (int, []string) {
	total := 0
	emitted := 0
	for _, record := range records {
		if record.Status.Emitted() {
			total += record.TokenCount
			emitted++
		}
	}
	if budget.MaxTokens <= 0 || total <= budget.MaxTokens {
		return total, nil
	}

	logger.Debug("Token budget exceeded, enforcing",
		zap.Int("totalTokens", total),
		zap.Int("maxTokens", budget.MaxTokens))

	markerTokens := estimator.Estimate([]byte(TruncationMarker))
	minStubTokens := markerTokens + 1

	for total > budget.MaxTokens {
		victim := largestEmitted(records)
		if victim == nil {
			break
		}

		excess := total - budget.MaxTokens
		target := victim.TokenCount - excess
		if target < minStubTokens {
			total -= victim.TokenCount
			if err := victim.advance(StatusDropped); err != nil {
				logger.Error("Record transition failed", zap.Error(err))
			}
			emitted--
			logger.Debug("Dropped file for token budget", zap.String("file", victim.RelPath))
			continue
		}

		content := truncateToTokens(victim.Content, target, estimator)
		newCount := estimator.Estimate([]byte(content))
		if newCount >= victim.TokenCount {
			// Truncation made no progress; drop instead.
			total -= victim.TokenCount
			if err := victim.advance(StatusDropped); err != nil {
				logger.Error("Record transition failed", zap.Error(err))
			}
			emitted--
			continue
		}

		total -= victim.TokenCount - newCount
		victim.Content = content
		victim.TokenCount = newCount
		if err := victim.advance(StatusTruncated); err != nil {
			logger.Error("Record transition failed", zap.Error(err))
		}
		logger.Debug("Truncated file for token budget",
			zap.String("file", victim.RelPath),
			zap.Int("tokenCount", newCount))
	}

	var warnings []string
	if emitted == 0 {
		warnings = append(warnings,
			"token budget too small to include any file content; all files were dropped")
	}
	return total, warnings
}

// largestEmitted returns the emittable record with the highest token count,
// breaking ties by relative path ascending. Nil when none remain.
func largestEmitted(records []*FileRecord) *FileRecord {
	var best *FileRecord
	for _, record := range records {
		if !record.Status.Emitted() || record.TokenCount == 0 {
			continue
		}
		if best == nil ||
			record.TokenCount > best.TokenCount ||
			(record.TokenCount == best.TokenCount && record.RelPath < best.RelPath) {
			best = record
		}
	}
	return best
}

// truncateToTokens returns the largest prefix of content whose estimated
// token count, marker included, stays at or under target. The estimator's
// monotonicity in content length makes the prefix binary-searchable.
func truncateToTokens(content string, target int, estimator Estimator) string {
	low, high := 0, len(content)
	for low < high {
		mid := (low + high + 1) / 2
		if estimator.Estimate([]byte(content[:mid]+TruncationMarker)) <= target {
			low = mid
		} else {
			high = mid - 1
		}
	}
	// Never cut in the middle of a rune.
	for low > 0 && low < len(content) && !utf8.RuneStart(content[low]) {
		low--
	}
	return content[:low] + TruncationMarker
}
