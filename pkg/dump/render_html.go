package dump

import (
	"fmt"
	"html/template"
	"strings"
)

// htmlTemplate lays the dump out as a standalone page: summary line, tree
// view, then one section per emitted file.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Root}}</title>
<style>
body { font-family: monospace; margin: 2em; }
pre { background: #f6f8fa; padding: 1em; overflow-x: auto; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.2em; }
.summary { color: #555; }
.warning { color: #b00; }
</style>
</head>
<body>
<h1>{{.Root}}</h1>
<p class="summary">{{.SummaryLine}}</p>
{{range .Warnings}}<p class="warning">Warning: {{.}}</p>
{{end}}{{if .TreeText}}<pre class="tree">{{.TreeText}}</pre>
{{end}}{{range .Files}}<h2>{{.Path}}</h2>
<pre>{{.Content}}</pre>
{{end}}</body>
</html>
`

type htmlData struct {
	Root        string
	SummaryLine string
	Warnings    []string
	TreeText    string
	Files       []htmlFile
}

type htmlFile struct {
	Path    string
	Content string
}

// renderHTML serializes the result as a self-contained HTML document.
func renderHTML(result *Result, args *Arguments) (string, error) {
	data := htmlData{
		Root: result.Tree.Name,
		SummaryLine: fmt.Sprintf("%d files, %s tokens, %s bytes",
			result.Summary.EmittedFiles(),
			formatTokens(result.Summary.TotalTokens),
			formatSize(result.Summary.TotalBytes)),
		Warnings: result.Summary.Warnings,
	}

	if args.Tree.Show {
		var tree strings.Builder
		tree.WriteString(result.Tree.Name + "/\n")
		renderTreeChildren(&tree, result.Tree.Children, "", 1, args.Tree)
		data.TreeText = tree.String()
	}

	for _, record := range result.Records {
		if !record.Status.Emitted() {
			continue
		}
		data.Files = append(data.Files, htmlFile{Path: record.RelPath, Content: record.Content})
	}

	tmpl, err := template.New("dump").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML template: %w", err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render HTML dump: %w", err)
	}
	return out.String(), nil
}
