package dump

import (
	"errors"
	"fmt"
)

// DefaultMaxFileSize is the per-file byte cap applied when none is given.
const DefaultMaxFileSize = 1 << 20

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Tree sort keys.
const (
	SortByName   = "name"
	SortBySize   = "size"
	SortByTokens = "tokens"
)

// Token estimator kinds.
const (
	TokenizerHeuristic = "heuristic"
	TokenizerTiktoken  = "tiktoken"
)

// Arguments holds the configuration options for a dump run.
type Arguments struct {
	Path           string   // Root directory to flatten.
	RemoteURL      string   // Git repository URL to clone instead of Path.
	PrivateToken   string   // Token for cloning private repositories.
	Include        []string // Glob patterns to include; empty means include everything.
	Exclude        []string // Glob patterns to exclude; bare names match a path segment at any depth.
	MaxFileSize    int64    // Per-file size cap in bytes; larger files are skipped.
	MaxTokens      int      // Hard token cap across the dump; 0 disables enforcement.
	Format         string   // Output format: text, json or html.
	BinaryStrict   bool     // Content-based binary detection instead of the extension list.
	UseGitignore   bool     // Respect .gitignore files found anywhere in the tree.
	Tokenizer      string   // Token estimator kind: heuristic or tiktoken.
	TokenizerModel string   // Model name for the tiktoken estimator.
	Tree           TreeOptions
	Stdout         bool   // Print the dump to standard output.
	Outfile        string // Destination file for the dump; empty disables.
	Copy           bool   // Copy the rendered dump to the system clipboard.
}

// TreeOptions configures the structural view at the top of the dump.
type TreeOptions struct {
	Show       bool   // Render the tree view at all.
	MaxDepth   int    // Hide subtrees deeper than this; 0 means unlimited.
	ShowTokens bool   // Annotate entries with token counts.
	ShowSize   bool   // Annotate entries with byte sizes.
	SortBy     string // Sibling sort key: name, size or tokens.
	DirsFirst  bool   // List directories before files within each directory.
}

// Budget caps the dump. Zero values leave the corresponding limit unset.
type Budget struct {
	MaxSizeBytes int64 // Per-file ceiling applied during collection.
	MaxTokens    int   // Hard cap across all included content.
}

// Validate reports configuration errors before any traversal begins.
func (a *Arguments) Validate() error {
	if a.Path == "" && a.RemoteURL == "" {
		return errors.New("a path or --remote-url is required")
	}
	if a.Path != "" && a.RemoteURL != "" {
		return errors.New("--remote-url cannot be used together with a path")
	}
	if a.MaxFileSize < 0 {
		return fmt.Errorf("max file size must not be negative, got %d", a.MaxFileSize)
	}
	if a.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", a.MaxTokens)
	}
	switch a.Format {
	case FormatText, FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("unknown output format %q", a.Format)
	}
	switch a.Tree.SortBy {
	case SortByName, SortBySize, SortByTokens:
	default:
		return fmt.Errorf("unknown tree sort key %q", a.Tree.SortBy)
	}
	switch a.Tokenizer {
	case TokenizerHeuristic, TokenizerTiktoken:
	default:
		return fmt.Errorf("unknown tokenizer %q", a.Tokenizer)
	}
	if _, err := compileGlobs(a.Include); err != nil {
		return err
	}
	if _, err := compileGlobs(a.Exclude); err != nil {
		return err
	}
	return nil
}

// DefaultArguments returns the configuration the CLI starts from.
func DefaultArguments() *Arguments {
	return &Arguments{
		MaxFileSize:  DefaultMaxFileSize,
		Format:       FormatText,
		BinaryStrict: true,
		UseGitignore: true,
		Tokenizer:    TokenizerHeuristic,
		Tree: TreeOptions{
			Show:       true,
			ShowTokens: true,
			SortBy:     SortByName,
			DirsFirst:  true,
		},
		Stdout: true,
	}
}
