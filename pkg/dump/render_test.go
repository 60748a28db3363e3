package dump

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleResult(opts TreeOptions) *Result {
	records := []*FileRecord{
		{RelPath: "a/deep/file1.txt", SizeBytes: 40, TokenCount: 10, Content: "deep content\n", Status: StatusIncluded},
		{RelPath: "a/file2.txt", SizeBytes: 80, TokenCount: 20, Content: "shallow content\n", Status: StatusIncluded},
		{RelPath: "skipped.bin", SizeBytes: 100, TokenCount: 0, Status: StatusSkippedBinary},
	}
	tree := BuildTree(records, opts, "repo")
	summary := Summarize(records, 30, nil)
	return &Result{Records: records, Tree: tree, Summary: summary}
}

func textArguments(opts TreeOptions) *Arguments {
	args := DefaultArguments()
	args.Tree = opts
	return args
}

func TestRenderTextLayout(t *testing.T) {
	opts := TreeOptions{Show: true, ShowTokens: true, SortBy: SortByName, DirsFirst: true}
	output := renderText(sampleResult(opts), textArguments(opts))

	for _, want := range []string{
		"repo/\n",
		"├── ",
		"└── ",
		"file1.txt (10 tok)",
		"skipped.bin (binary)",
		"# Source: a/deep/file1.txt #",
		"deep content\n",
		"2 directories, 3 files",
		"# Summary: 2 files, 30 tokens, 120 bytes",
		"# Skipped: 1 binary",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("text output missing %q\noutput:\n%s", want, output)
		}
	}
	if strings.Contains(output, "# Source: skipped.bin") {
		t.Error("skipped files must not get content sections")
	}
}

// TestRenderTextDepthCollapsePreservesTotals checks that a depth limit hides
// deep entries from the view without changing the root aggregates.
func TestRenderTextDepthCollapsePreservesTotals(t *testing.T) {
	unlimited := TreeOptions{Show: true, ShowTokens: true, SortBy: SortByName, DirsFirst: true}
	limited := unlimited
	limited.MaxDepth = 1

	full := sampleResult(unlimited)
	collapsed := sampleResult(limited)

	if full.Tree.AggregateTokens != collapsed.Tree.AggregateTokens {
		t.Fatalf("depth limit changed root aggregate: %d vs %d",
			full.Tree.AggregateTokens, collapsed.Tree.AggregateTokens)
	}

	fullText := renderText(full, textArguments(unlimited))
	collapsedText := renderText(collapsed, textArguments(limited))

	if !strings.Contains(fullText, "file1.txt") {
		t.Error("unlimited view must show deep entries")
	}
	if idx := strings.Index(collapsedText, "# Source:"); idx < 0 {
		t.Fatal("file sections missing")
	} else if strings.Contains(collapsedText[:idx], "file1.txt") {
		t.Error("depth-limited tree view must hide deep entries")
	}
}

func TestRenderTextTreeDisabled(t *testing.T) {
	opts := TreeOptions{Show: false, SortBy: SortByName}
	output := renderText(sampleResult(opts), textArguments(opts))
	if strings.Contains(output, "├── ") {
		t.Error("tree view must be omitted when disabled")
	}
	if !strings.Contains(output, "# Source: a/file2.txt #") {
		t.Error("file sections must still render without the tree")
	}
}

func TestRenderJSONStructure(t *testing.T) {
	opts := TreeOptions{Show: true, ShowTokens: true, SortBy: SortByName, DirsFirst: true}
	args := textArguments(opts)
	args.Format = FormatJSON

	output, err := renderJSON(sampleResult(opts), args)
	if err != nil {
		t.Fatalf("renderJSON failed: %v", err)
	}

	var doc struct {
		Root    string `json:"root"`
		Summary struct {
			IncludedFiles int `json:"includedFiles"`
			TotalTokens   int `json:"totalTokens"`
		} `json:"summary"`
		Tree  *struct{ Name string } `json:"tree"`
		Files []struct {
			Path    string `json:"path"`
			Status  string `json:"status"`
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Root != "repo" {
		t.Errorf("root: got %q", doc.Root)
	}
	if doc.Summary.IncludedFiles != 2 || doc.Summary.TotalTokens != 30 {
		t.Errorf("summary: got %+v", doc.Summary)
	}
	if len(doc.Files) != 3 {
		t.Fatalf("files: got %d entries, want 3", len(doc.Files))
	}
	for _, file := range doc.Files {
		if file.Status == "skipped-binary" && file.Content != "" {
			t.Error("skipped files must have no content in JSON")
		}
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	opts := TreeOptions{Show: true, ShowTokens: true, SortBy: SortByName, DirsFirst: true}
	result := sampleResult(opts)
	result.Records[0].Content = "<script>alert(1)</script>"
	args := textArguments(opts)
	args.Format = FormatHTML

	output, err := renderHTML(result, args)
	if err != nil {
		t.Fatalf("renderHTML failed: %v", err)
	}
	if strings.Contains(output, "<script>alert(1)</script>") {
		t.Error("file content must be HTML-escaped")
	}
	if !strings.Contains(output, "&lt;script&gt;") {
		t.Error("escaped content missing from HTML output")
	}
	if !strings.Contains(output, "<h2>a/deep/file1.txt</h2>") {
		t.Error("per-file sections missing from HTML output")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatSize(512); got != "512" {
		t.Errorf("formatSize(512): got %q", got)
	}
	if got := formatSize(2048); got != "2.0K" {
		t.Errorf("formatSize(2048): got %q", got)
	}
	if got := formatTokens(999); got != "999" {
		t.Errorf("formatTokens(999): got %q", got)
	}
	if got := formatTokens(1500); got != "1.5K" {
		t.Errorf("formatTokens(1500): got %q", got)
	}
}
