package cmd

import (
	"fmt"
	"os"

	"github.com/fullstackwebdev/catrepo/pkg/dump"
	"github.com/fullstackwebdev/catrepo/pkg/fetch"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootLogger *zap.Logger

// RootCmd is the base command; catrepo is a single-verb tool, so the root
// command carries the dump operation itself.
var RootCmd = &cobra.Command{
	Use:   "catrepo [path]",
	Short: "Flatten a repository into one text dump",
	Long: `catrepo flattens a file tree into a single, deterministic, budget-bounded
text artifact suitable for LLM context windows. It filters files through
include/exclude globs and .gitignore rules, skips binaries and oversized
files, estimates token counts, enforces a hard token budget by truncating
the largest files first, and prints a tree view with per-directory totals.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDump,
}

// Execute adds all child commands to the root command and runs it.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

func runDump(cmd *cobra.Command, positional []string) error {
	args := dump.DefaultArguments()
	if len(positional) == 1 {
		args.Path = positional[0]
	}

	args.RemoteURL = viper.GetString("remote_url")
	args.PrivateToken = viper.GetString("private_token")
	args.Include = viper.GetStringSlice("include")
	args.Exclude = viper.GetStringSlice("exclude")
	args.MaxFileSize = viper.GetInt64("max_size")
	args.MaxTokens = viper.GetInt("max_tokens")
	args.Format = viper.GetString("format")
	args.BinaryStrict = viper.GetBool("binary_strict")
	args.UseGitignore = viper.GetBool("gitignore")
	args.Tokenizer = viper.GetString("tokenizer")
	args.TokenizerModel = viper.GetString("model")
	args.Tree.Show = viper.GetBool("tree")
	args.Tree.MaxDepth = viper.GetInt("tree_depth")
	args.Tree.ShowTokens = viper.GetBool("tree_tokens")
	args.Tree.ShowSize = viper.GetBool("tree_size")
	args.Tree.SortBy = viper.GetString("tree_sort")
	args.Tree.DirsFirst = viper.GetBool("tree_dirs_first")
	args.Stdout = viper.GetBool("stdout")
	args.Outfile = viper.GetString("outfile")
	args.Copy = viper.GetBool("copy")

	if args.Path == "" && args.RemoteURL == "" {
		args.Path = "."
	}

	if args.RemoteURL != "" {
		if args.Path != "" {
			return fmt.Errorf("--remote-url cannot be used together with a path")
		}
		dir, cleanup, err := fetch.Clone(args.RemoteURL, args.PrivateToken, rootLogger)
		if err != nil {
			return err
		}
		defer cleanup()
		args.Path = dir
		args.RemoteURL = ""
	}

	result, output, err := dump.Run(args, rootLogger)
	if err != nil {
		return err
	}
	for _, warning := range result.Summary.Warnings {
		rootLogger.Warn(warning)
	}

	if args.Outfile != "" {
		if err := writeOutfile(args.Outfile, output); err != nil {
			return err
		}
		rootLogger.Info("Wrote dump", zap.String("outfile", args.Outfile))
	}
	if args.Copy {
		if err := clipboard.WriteAll(output); err != nil {
			rootLogger.Warn("Failed to copy dump to clipboard", zap.Error(err))
		}
	}
	if args.Stdout {
		fmt.Fprint(cmd.OutOrStdout(), output)
	}
	return nil
}

// writeOutfile writes the rendered dump to disk.
func writeOutfile(path, output string) error {
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write dump to %s: %w", path, err)
	}
	return nil
}

func init() {
	flags := RootCmd.Flags()

	flags.String("remote-url", "", "Git repository URL to clone and dump")
	flags.String("private-token", "", "Token for private repositories (env GITHUB_TOKEN)")
	flags.StringSlice("include", nil, "Glob(s) to include (repeatable; default everything)")
	flags.StringSlice("exclude", nil, "Glob(s) to exclude; '.git' is excluded by default")
	flags.Int64("max-size", dump.DefaultMaxFileSize, "Skip files larger than this many bytes")
	flags.Int("max-tokens", 0, "Hard token cap; truncate largest files first (0 = unlimited)")
	flags.String("format", dump.FormatText, "Output format: text, json or html")
	flags.Bool("binary-strict", true, "Strict content-based binary detection")
	flags.Bool("gitignore", true, "Respect .gitignore patterns")
	flags.String("tokenizer", dump.TokenizerHeuristic, "Token estimator: heuristic or tiktoken")
	flags.String("model", "", "Model name for the tiktoken estimator (default gpt-4o)")
	flags.Bool("tree", true, "Show tree view at the top of the output")
	flags.Int("tree-depth", 0, "Maximum depth for the tree view (0 = unlimited)")
	flags.Bool("tree-tokens", true, "Show token counts in the tree view")
	flags.Bool("tree-size", false, "Show file sizes in the tree view")
	flags.String("tree-sort", dump.SortByName, "Tree sort order: name, size or tokens")
	flags.Bool("tree-dirs-first", true, "List directories before files in the tree")
	flags.Bool("stdout", true, "Print the dump to STDOUT")
	flags.String("outfile", "", "Write the dump to a file")
	flags.Bool("copy", false, "Copy the dump to the system clipboard")
	flags.Bool("debug", false, "Enable development logging")

	bindings := map[string]string{
		"remote_url":      "remote-url",
		"private_token":   "private-token",
		"include":         "include",
		"exclude":         "exclude",
		"max_size":        "max-size",
		"max_tokens":      "max-tokens",
		"format":          "format",
		"binary_strict":   "binary-strict",
		"gitignore":       "gitignore",
		"tokenizer":       "tokenizer",
		"model":           "model",
		"tree":            "tree",
		"tree_depth":      "tree-depth",
		"tree_tokens":     "tree-tokens",
		"tree_size":       "tree-size",
		"tree_sort":       "tree-sort",
		"tree_dirs_first": "tree-dirs-first",
		"stdout":          "stdout",
		"outfile":         "outfile",
		"copy":            "copy",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	if err := viper.BindEnv("private_token", "GITHUB_TOKEN"); err != nil {
		panic(err)
	}
}
