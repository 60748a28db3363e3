package dump

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// gitignoreName is the per-directory ignore file the collector discovers.
const gitignoreName = ".gitignore"

// Collect walks the tree under root and produces one FileRecord per regular
// file the matcher does not prune, in deterministic lexicographic order.
// Excluded directories are never descended into. Per-file read errors are
// recovered as skipped-unreadable records; only a failure on the root itself
// aborts the walk.
func Collect(root string, matcher *Matcher, budget Budget, estimator Estimator, binaryStrict bool, logger *zap.Logger) ([]*FileRecord, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", absRoot, err)
	}

	var records []*FileRecord
	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(walkErr))
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			logger.Warn("Failed to compute relative path", zap.String("path", path), zap.Error(relErr))
			return nil
		}
		rel = filepath.ToSlash(rel)

		if rel == "." {
			loadGitignore(matcher, path, ".", logger)
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if record := collectSymlink(path, rel, resolvedRoot, matcher, budget, estimator, binaryStrict, logger); record != nil {
				records = append(records, record)
			}
			return nil
		}

		if entry.IsDir() {
			if matcher.IsExcluded(rel, true) {
				logger.Debug("Pruning excluded directory", zap.String("dir", rel))
				return filepath.SkipDir
			}
			loadGitignore(matcher, path, rel, logger)
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			logger.Warn("Failed to stat file during traversal", zap.String("path", path), zap.Error(infoErr))
			records = append(records, newSkippedRecord(rel, 0, StatusSkippedUnreadable))
			return nil
		}

		records = append(records, collectFile(path, rel, info.Size(), matcher, budget, estimator, binaryStrict, logger))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, walkErr)
	}

	logger.Debug("Completed file collection", zap.Int("records", len(records)))
	return records, nil
}

// collectFile classifies one regular file and builds its record.
func collectFile(path, rel string, size int64, matcher *Matcher, budget Budget, estimator Estimator, binaryStrict bool, logger *zap.Logger) *FileRecord {
	if matcher.IsExcluded(rel, false) {
		return newSkippedRecord(rel, size, StatusSkippedExcluded)
	}
	if budget.MaxSizeBytes > 0 && size > budget.MaxSizeBytes {
		logger.Debug("Skipping file over size limit", zap.String("file", rel), zap.Int64("sizeBytes", size))
		return newSkippedRecord(rel, size, StatusSkippedTooLarge)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read file", zap.String("file", rel), zap.Error(err))
		return newSkippedRecord(rel, size, StatusSkippedUnreadable)
	}

	if detectBinary(rel, content, binaryStrict) {
		return newSkippedRecord(rel, size, StatusSkippedBinary)
	}

	text := decodeText(content)
	return &FileRecord{
		RelPath:    rel,
		SizeBytes:  size,
		TokenCount: estimator.Estimate([]byte(text)),
		Content:    text,
		Status:     StatusIncluded,
	}
}

// collectSymlink resolves a symlink to its target type. Links escaping the
// scan root are excluded, directory links are not followed, and broken links
// are recorded as unreadable. Returns nil when no record applies.
func collectSymlink(path, rel, resolvedRoot string, matcher *Matcher, budget Budget, estimator Estimator, binaryStrict bool, logger *zap.Logger) *FileRecord {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		logger.Warn("Broken symlink", zap.String("path", rel), zap.Error(err))
		return newSkippedRecord(rel, 0, StatusSkippedUnreadable)
	}
	if escapesRoot(resolvedRoot, target) {
		logger.Debug("Symlink escapes scan root", zap.String("path", rel), zap.String("target", target))
		return newSkippedRecord(rel, 0, StatusSkippedExcluded)
	}

	info, err := os.Stat(target)
	if err != nil {
		return newSkippedRecord(rel, 0, StatusSkippedUnreadable)
	}
	if info.IsDir() {
		// Directory links are never followed; their targets are reached
		// through the walk itself when they live inside the root.
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return collectFile(target, rel, info.Size(), matcher, budget, estimator, binaryStrict, logger)
}

// loadGitignore registers dir's .gitignore with the matcher, if present.
func loadGitignore(matcher *Matcher, dir, rel string, logger *zap.Logger) {
	content, err := os.ReadFile(filepath.Join(dir, gitignoreName))
	if err != nil {
		return
	}
	matcher.AddGitignore(rel, content)
	logger.Debug("Loaded gitignore", zap.String("dir", rel))
}

// decodeText returns content as UTF-8, replacing invalid sequences with the
// U+FFFD replacement marker.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "�")
}

// escapesRoot reports whether target lies outside the resolved scan root.
func escapesRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
