package dump

import (
	"bytes"
	"testing"

	"go.uber.org/zap"
)

func TestHeuristicEstimatorBasics(t *testing.T) {
	est := HeuristicEstimator{}

	if got := est.Estimate(nil); got != 0 {
		t.Errorf("empty content: got %d tokens, want 0", got)
	}
	if got := est.Estimate([]byte("ab")); got != 1 {
		t.Errorf("short non-empty content: got %d tokens, want 1", got)
	}
	if got := est.Estimate(bytes.Repeat([]byte("x"), 400)); got != 100 {
		t.Errorf("400 bytes: got %d tokens, want 100", got)
	}
}

// TestHeuristicEstimatorIdempotent checks that repeated calls on identical
// input return identical counts.
func TestHeuristicEstimatorIdempotent(t *testing.T) {
	est := HeuristicEstimator{}
	content := []byte("package main\n\nfunc main() {}\n")
	first := est.Estimate(content)
	for i := 0; i < 10; i++ {
		if got := est.Estimate(content); got != first {
			t.Fatalf("call %d returned %d, first call returned %d", i, got, first)
		}
	}
}

// TestHeuristicEstimatorMonotonic checks that longer content never estimates
// fewer tokens, the property prefix truncation relies on.
func TestHeuristicEstimatorMonotonic(t *testing.T) {
	est := HeuristicEstimator{}
	content := bytes.Repeat([]byte("abcd"), 64)
	previous := 0
	for length := 0; length <= len(content); length++ {
		count := est.Estimate(content[:length])
		if count < previous {
			t.Fatalf("estimate decreased from %d to %d at length %d", previous, count, length)
		}
		previous = count
	}
}

func TestNewEstimatorFallsBackToHeuristic(t *testing.T) {
	est := NewEstimator("nonsense", "", zap.NewNop())
	if _, ok := est.(HeuristicEstimator); !ok {
		t.Fatalf("unknown tokenizer kind must fall back to the heuristic, got %T", est)
	}
	est = NewEstimator("", "", zap.NewNop())
	if _, ok := est.(HeuristicEstimator); !ok {
		t.Fatalf("empty tokenizer kind must select the heuristic, got %T", est)
	}
}
