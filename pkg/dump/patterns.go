package dump

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
	singleStarPattern         = regexp.MustCompile(`\*`)
)

// escapeSpecialChars escapes regex special characters except for '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	var specialChars = `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' segments with regex that may cross
// path separators.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts the remaining '*' and '?' wildcards, which never
// cross a path separator.
func wildcardToRegex(pattern string) string {
	pattern = singleStarPattern.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)
	return pattern
}

// compileGlob converts a glob pattern into an anchored regular expression
// over slash-separated relative paths. A pattern without a leading '/'
// matches its segments at any depth, so a bare directory name such as
// "node_modules" excludes a/node_modules/b and node_modules/b alike. Every
// match also covers the subtree beneath the matched segment.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	trimmed := strings.TrimSpace(pattern)
	trimmed = strings.TrimPrefix(trimmed, "./")
	rooted := strings.HasPrefix(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("empty glob pattern %q", pattern)
	}
	if trimmed == "*" || trimmed == "**" {
		return regexp.MustCompile(`^.*$`), nil
	}

	expr := escapeSpecialChars(trimmed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)

	var anchored strings.Builder
	if rooted {
		anchored.WriteString(`^`)
	} else {
		anchored.WriteString(`^(|.*/)`)
	}
	anchored.WriteString(expr)
	anchored.WriteString(`(/.*)?$`)

	compiled, err := regexp.Compile(anchored.String())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return compiled, nil
}

// compileGlobs compiles a pattern list, failing on the first invalid entry.
func compileGlobs(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
