package dump

import (
	"encoding/json"
	"fmt"
)

// jsonDump is the top-level JSON document.
type jsonDump struct {
	Root    string      `json:"root"`
	Summary jsonSummary `json:"summary"`
	Tree    *jsonNode   `json:"tree,omitempty"`
	Files   []jsonFile  `json:"files"`
}

type jsonSummary struct {
	IncludedFiles     int      `json:"includedFiles"`
	TruncatedFiles    int      `json:"truncatedFiles"`
	DroppedFiles      int      `json:"droppedFiles"`
	SkippedTooLarge   int      `json:"skippedTooLarge"`
	SkippedBinary     int      `json:"skippedBinary"`
	SkippedExcluded   int      `json:"skippedExcluded"`
	SkippedUnreadable int      `json:"skippedUnreadable"`
	TotalTokens       int      `json:"totalTokens"`
	TotalBytes        int64    `json:"totalBytes"`
	Warnings          []string `json:"warnings,omitempty"`
}

type jsonNode struct {
	Name      string      `json:"name"`
	IsDir     bool        `json:"isDir"`
	Tokens    int         `json:"tokens"`
	SizeBytes int64       `json:"sizeBytes"`
	Children  []*jsonNode `json:"children,omitempty"`
}

type jsonFile struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	SizeBytes int64  `json:"sizeBytes"`
	Tokens    int    `json:"tokens"`
	Content   string `json:"content,omitempty"`
}

// renderJSON serializes the result as an indented JSON document.
func renderJSON(result *Result, args *Arguments) (string, error) {
	doc := jsonDump{
		Root:    result.Tree.Name,
		Summary: jsonSummaryFrom(result.Summary),
		Files:   make([]jsonFile, 0, len(result.Records)),
	}
	if args.Tree.Show {
		doc.Tree = jsonNodeFrom(result.Tree, 0, args.Tree)
	}
	for _, record := range result.Records {
		file := jsonFile{
			Path:      record.RelPath,
			Status:    record.Status.String(),
			SizeBytes: record.SizeBytes,
			Tokens:    record.TokenCount,
		}
		if record.Status.Emitted() {
			file.Content = record.Content
		}
		doc.Files = append(doc.Files, file)
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON dump: %w", err)
	}
	return string(encoded) + "\n", nil
}

func jsonSummaryFrom(summary Summary) jsonSummary {
	return jsonSummary{
		IncludedFiles:     summary.IncludedFiles,
		TruncatedFiles:    summary.TruncatedFiles,
		DroppedFiles:      summary.DroppedFiles,
		SkippedTooLarge:   summary.SkippedTooLarge,
		SkippedBinary:     summary.SkippedBinary,
		SkippedExcluded:   summary.SkippedExcluded,
		SkippedUnreadable: summary.SkippedUnreadable,
		TotalTokens:       summary.TotalTokens,
		TotalBytes:        summary.TotalBytes,
		Warnings:          summary.Warnings,
	}
}

// jsonNodeFrom mirrors the directory tree, honoring the depth limit the same
// way the text renderer does.
func jsonNodeFrom(node *DirectoryNode, depth int, opts TreeOptions) *jsonNode {
	out := &jsonNode{
		Name:      node.Name,
		IsDir:     node.IsDir,
		Tokens:    node.AggregateTokens,
		SizeBytes: node.AggregateSize,
	}
	if node.IsDir && (opts.MaxDepth <= 0 || depth < opts.MaxDepth) {
		for _, child := range node.Children {
			out.Children = append(out.Children, jsonNodeFrom(child, depth+1, opts))
		}
	}
	return out
}
