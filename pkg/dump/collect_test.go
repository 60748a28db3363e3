package dump

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// buildFixture lays out a small repository exercising every skip reason.
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".gitignore"), []byte("*.log\n!keep.log\n"))
	writeTestFile(t, filepath.Join(root, "app.log"), []byte("ignored\n"))
	writeTestFile(t, filepath.Join(root, "keep.log"), []byte("kept\n"))
	writeTestFile(t, filepath.Join(root, "main.go"), []byte("package main\n"))
	writeTestFile(t, filepath.Join(root, "big.txt"), []byte(strings.Repeat("b", 200)))
	writeTestFile(t, filepath.Join(root, "image.png"), []byte("\x89PNG\x00\x01"))
	writeTestFile(t, filepath.Join(root, "sub", "code.txt"), []byte("hello\n"))
	writeTestFile(t, filepath.Join(root, "sub", "node_modules", "dep", "index.js"), []byte("junk\n"))
	return root
}

func collectFixture(t *testing.T, root string) []*FileRecord {
	t.Helper()
	matcher := newTestMatcher(t, nil, []string{"node_modules"}, true)
	records, err := Collect(root, matcher, Budget{MaxSizeBytes: 100}, HeuristicEstimator{}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	return records
}

func recordByPath(t *testing.T, records []*FileRecord, rel string) *FileRecord {
	t.Helper()
	for _, record := range records {
		if record.RelPath == rel {
			return record
		}
	}
	t.Fatalf("no record for %q", rel)
	return nil
}

func TestCollectClassifiesFiles(t *testing.T) {
	root := buildFixture(t)
	records := collectFixture(t, root)

	testCases := []struct {
		rel  string
		want Status
	}{
		{".gitignore", StatusIncluded},
		{"app.log", StatusSkippedExcluded},
		{"keep.log", StatusIncluded},
		{"main.go", StatusIncluded},
		{"big.txt", StatusSkippedTooLarge},
		{"image.png", StatusSkippedBinary},
		{"sub/code.txt", StatusIncluded},
	}
	for _, tc := range testCases {
		record := recordByPath(t, records, tc.rel)
		if record.Status != tc.want {
			t.Errorf("%s: got %s, want %s", tc.rel, record.Status, tc.want)
		}
		if !record.Status.Emitted() && record.Content != "" {
			t.Errorf("%s: skipped record must carry no content", tc.rel)
		}
	}

	keep := recordByPath(t, records, "keep.log")
	if keep.Content != "kept\n" {
		t.Errorf("keep.log content: got %q", keep.Content)
	}
	if keep.TokenCount != (HeuristicEstimator{}).Estimate([]byte("kept\n")) {
		t.Errorf("keep.log token count not estimated from content")
	}
}

// TestCollectPrunesExcludedDirectories verifies the subtree of an excluded
// directory never appears, even nested below other directories.
func TestCollectPrunesExcludedDirectories(t *testing.T) {
	root := buildFixture(t)
	records := collectFixture(t, root)

	for _, record := range records {
		if strings.Contains(record.RelPath, "node_modules") {
			t.Errorf("pruned subtree leaked into the output: %s", record.RelPath)
		}
	}
}

// TestCollectDeterministic checks that two runs over an unchanged tree
// produce identical record sequences.
func TestCollectDeterministic(t *testing.T) {
	root := buildFixture(t)
	first := collectFixture(t, root)
	second := collectFixture(t, root)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two collections over an unchanged tree differ")
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].RelPath >= first[i].RelPath {
			t.Fatalf("records out of lexicographic order: %s before %s",
				first[i-1].RelPath, first[i].RelPath)
		}
	}
}

func TestCollectLossyDecode(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "latin1.txt"), []byte("caf\xe9 latte"))

	matcher := newTestMatcher(t, nil, nil, false)
	records, err := Collect(root, matcher, Budget{}, HeuristicEstimator{}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	record := recordByPath(t, records, "latin1.txt")
	if record.Status != StatusIncluded {
		t.Fatalf("got %s, want included", record.Status)
	}
	if !strings.Contains(record.Content, "�") {
		t.Error("invalid bytes must decode to the replacement marker")
	}
	if !strings.Contains(record.Content, "caf") || !strings.Contains(record.Content, "latte") {
		t.Error("valid bytes must survive the lossy decode")
	}
}

func TestCollectSymlinkEscapingRootExcluded(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	writeTestFile(t, filepath.Join(root, "inside.txt"), []byte("in\n"))
	writeTestFile(t, filepath.Join(outside, "secret.txt"), []byte("out\n"))
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	matcher := newTestMatcher(t, nil, nil, false)
	records, err := Collect(root, matcher, Budget{}, HeuristicEstimator{}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	link := recordByPath(t, records, "link.txt")
	if link.Status != StatusSkippedExcluded {
		t.Errorf("escaping symlink: got %s, want skipped-excluded", link.Status)
	}
	if link.Content != "" {
		t.Error("escaping symlink must carry no content")
	}
}

func TestCollectSymlinkInsideRootFollowed(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "real.txt"), []byte("real\n"))
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "alias.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	matcher := newTestMatcher(t, nil, nil, false)
	records, err := Collect(root, matcher, Budget{}, HeuristicEstimator{}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	alias := recordByPath(t, records, "alias.txt")
	if alias.Status != StatusIncluded || alias.Content != "real\n" {
		t.Errorf("in-root symlink must resolve to its target, got %s %q", alias.Status, alias.Content)
	}
}

func TestCollectNestedGitignoreScope(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "sub", ".gitignore"), []byte("*.tmp\n"))
	writeTestFile(t, filepath.Join(root, "sub", "cache.tmp"), []byte("x\n"))
	writeTestFile(t, filepath.Join(root, "cache.tmp"), []byte("x\n"))

	matcher := newTestMatcher(t, nil, nil, true)
	records, err := Collect(root, matcher, Budget{}, HeuristicEstimator{}, true, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if r := recordByPath(t, records, "sub/cache.tmp"); r.Status != StatusSkippedExcluded {
		t.Errorf("sub/cache.tmp: got %s, want skipped-excluded", r.Status)
	}
	if r := recordByPath(t, records, "cache.tmp"); r.Status != StatusIncluded {
		t.Errorf("cache.tmp outside the scope: got %s, want included", r.Status)
	}
}
