package dump

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Run executes the whole pipeline over args.Path: validation, collection,
// budget enforcement, tree aggregation and rendering. The stages run
// sequentially over one in-memory record set; a failure anywhere produces no
// output. Remote acquisition is the caller's job — args.Path must name a
// local directory by the time Run is called.
func Run(args *Arguments, logger *zap.Logger) (*Result, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	if err := args.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	absRoot, err := filepath.Abs(args.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve path %s: %w", args.Path, err)
	}
	logger.Info("Starting dump", zap.String("root", absRoot))

	matcher, err := NewMatcher(args.Include, args.Exclude, args.UseGitignore, logger)
	if err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	estimator := NewEstimator(args.Tokenizer, args.TokenizerModel, logger)
	budget := Budget{MaxSizeBytes: args.MaxFileSize, MaxTokens: args.MaxTokens}

	records, err := Collect(absRoot, matcher, budget, estimator, args.BinaryStrict, logger)
	if err != nil {
		return nil, "", fmt.Errorf("failed to collect files: %w", err)
	}

	totalTokens, warnings := Enforce(records, budget, estimator, logger)
	tree := BuildTree(records, args.Tree, filepath.Base(absRoot))
	summary := Summarize(records, totalTokens, warnings)

	result := &Result{Records: records, Tree: tree, Summary: summary}
	output, err := Render(result, args)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Dump complete",
		zap.Int("files", summary.EmittedFiles()),
		zap.Int("totalTokens", summary.TotalTokens),
		zap.Int64("totalBytes", summary.TotalBytes),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, output, nil
}
