package dump

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// Estimator produces an approximate token count for a content buffer. An
// implementation must be a pure function of the content: stable across calls
// and monotonic in content length, so that repeated runs stay byte-identical
// and prefix truncation can binary-search on it.
type Estimator interface {
	Estimate(content []byte) int
}

const (
	defaultTiktokenModel = "gpt-4o"
	fallbackEncodingName = "cl100k_base"
	heuristicBytesPerTok = 4
)

// HeuristicEstimator approximates one token per four bytes of content, with
// a floor of one token for non-empty input. No model data required.
type HeuristicEstimator struct{}

// Estimate implements Estimator.
func (HeuristicEstimator) Estimate(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	count := len(content) / heuristicBytesPerTok
	if count < 1 {
		count = 1
	}
	return count
}

// tiktokenEstimator counts tokens with a real BPE encoding.
type tiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// Estimate implements Estimator.
func (e *tiktokenEstimator) Estimate(content []byte) int {
	return len(e.encoding.EncodeOrdinary(string(content)))
}

// NewEstimator selects the estimator for the given tokenizer kind. When the
// tiktoken encoding cannot be initialized the heuristic takes over, so a dump
// always completes offline.
func NewEstimator(kind, model string, logger *zap.Logger) Estimator {
	switch strings.ToLower(kind) {
	case "", TokenizerHeuristic:
		return HeuristicEstimator{}
	case TokenizerTiktoken:
		if model == "" {
			model = defaultTiktokenModel
		}
		encoding, err := tiktoken.EncodingForModel(model)
		if err != nil {
			logger.Warn("Tiktoken model not found, trying fallback encoding",
				zap.String("model", model),
				zap.String("encoding", fallbackEncodingName),
				zap.Error(err))
			encoding, err = tiktoken.GetEncoding(fallbackEncodingName)
		}
		if err != nil {
			logger.Warn("Tiktoken unavailable, using heuristic estimator", zap.Error(err))
			return HeuristicEstimator{}
		}
		return &tiktokenEstimator{encoding: encoding}
	default:
		logger.Warn("Unknown tokenizer kind, using heuristic estimator", zap.String("kind", kind))
		return HeuristicEstimator{}
	}
}
