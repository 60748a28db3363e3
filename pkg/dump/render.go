package dump

import (
	"fmt"
	"strings"
)

// Result bundles everything the renderer and downstream callers consume.
type Result struct {
	Records []*FileRecord
	Tree    *DirectoryNode
	Summary Summary
}

// Render serializes a result in the requested format.
func Render(result *Result, args *Arguments) (string, error) {
	switch args.Format {
	case FormatJSON:
		return renderJSON(result, args)
	case FormatHTML:
		return renderHTML(result, args)
	default:
		return renderText(result, args), nil
	}
}

// renderText emits the tree view, the per-file sections and the summary
// footer as one plain-text document.
func renderText(result *Result, args *Arguments) string {
	var builder strings.Builder

	if args.Tree.Show {
		builder.WriteString(result.Tree.Name + "/\n")
		renderTreeChildren(&builder, result.Tree.Children, "", 1, args.Tree)
		dirs, files := result.Tree.CountEntries()
		fmt.Fprintf(&builder, "\n%d directories, %d files\n", dirs, files)
	}

	separatorLine := "# " + strings.Repeat("-", 78)
	for _, record := range result.Records {
		if !record.Status.Emitted() {
			continue
		}
		fmt.Fprintf(&builder, "\n\n%s\n# Source: %s #\n\n", separatorLine, record.RelPath)
		builder.WriteString(record.Content)
	}

	builder.WriteString("\n\n" + separatorLine + "\n")
	fmt.Fprintf(&builder, "# Summary: %d files, %s tokens, %s bytes\n",
		result.Summary.EmittedFiles(),
		formatTokens(result.Summary.TotalTokens),
		formatSize(result.Summary.TotalBytes))
	if skipped := formatSkipCounts(result.Summary); skipped != "" {
		fmt.Fprintf(&builder, "# Skipped: %s\n", skipped)
	}
	for _, warning := range result.Summary.Warnings {
		fmt.Fprintf(&builder, "# Warning: %s\n", warning)
	}

	return builder.String()
}

// renderTreeChildren draws one directory level with box-drawing connectors.
// Subtrees deeper than the depth limit are hidden; their totals already
// rolled up during aggregation.
func renderTreeChildren(builder *strings.Builder, children []*DirectoryNode, prefix string, depth int, opts TreeOptions) {
	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		if opts.ShowSize {
			fmt.Fprintf(builder, "[%7s] ", formatSize(child.AggregateSize))
		}
		builder.WriteString(child.Name)
		if child.IsDir {
			builder.WriteString("/")
		}
		builder.WriteString(treeAnnotation(child, opts))
		builder.WriteString("\n")

		if child.IsDir && (opts.MaxDepth <= 0 || depth < opts.MaxDepth) {
			renderTreeChildren(builder, child.Children, prefix+extension, depth+1, opts)
		}
	}
}

// treeAnnotation builds the parenthesized note after an entry name.
func treeAnnotation(node *DirectoryNode, opts TreeOptions) string {
	if node.IsDir {
		return ""
	}
	var notes []string
	if opts.ShowTokens && node.Record.Status.Emitted() {
		notes = append(notes, formatTokens(node.Record.TokenCount)+" tok")
	}
	if note := statusNote(node.Record.Status); note != "" {
		notes = append(notes, note)
	}
	if len(notes) == 0 {
		return ""
	}
	return " (" + strings.Join(notes, ", ") + ")"
}

// statusNote names non-included statuses for tree annotations.
func statusNote(status Status) string {
	switch status {
	case StatusTruncated:
		return "truncated"
	case StatusDropped:
		return "dropped"
	case StatusSkippedTooLarge:
		return "too large"
	case StatusSkippedBinary:
		return "binary"
	case StatusSkippedExcluded:
		return "excluded"
	case StatusSkippedUnreadable:
		return "unreadable"
	default:
		return ""
	}
}

// formatSkipCounts lists the non-zero skip tallies.
func formatSkipCounts(summary Summary) string {
	var parts []string
	if summary.SkippedBinary > 0 {
		parts = append(parts, fmt.Sprintf("%d binary", summary.SkippedBinary))
	}
	if summary.SkippedTooLarge > 0 {
		parts = append(parts, fmt.Sprintf("%d too large", summary.SkippedTooLarge))
	}
	if summary.SkippedExcluded > 0 {
		parts = append(parts, fmt.Sprintf("%d excluded", summary.SkippedExcluded))
	}
	if summary.SkippedUnreadable > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", summary.SkippedUnreadable))
	}
	if summary.DroppedFiles > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped for budget", summary.DroppedFiles))
	}
	return strings.Join(parts, ", ")
}

// formatSize renders a byte count in a compact human form.
func formatSize(size int64) string {
	switch {
	case size < 1<<10:
		return fmt.Sprintf("%d", size)
	case size < 1<<20:
		return fmt.Sprintf("%.1fK", float64(size)/(1<<10))
	case size < 1<<30:
		return fmt.Sprintf("%.1fM", float64(size)/(1<<20))
	default:
		return fmt.Sprintf("%.1fG", float64(size)/(1<<30))
	}
}

// formatTokens renders a token count in a compact human form.
func formatTokens(tokens int) string {
	switch {
	case tokens < 1_000:
		return fmt.Sprintf("%d", tokens)
	case tokens < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(tokens)/1_000)
	case tokens < 1_000_000_000:
		return fmt.Sprintf("%.1fM", float64(tokens)/1_000_000)
	default:
		return fmt.Sprintf("%.1fB", float64(tokens)/1_000_000_000)
	}
}
