package dump

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// Matcher decides whether a relative path participates in the dump. A path is
// evaluated in three layers: include globs (files only; an empty set includes
// everything), explicit exclude globs, then scoped .gitignore rules. Explicit
// excludes are checked before gitignore rules, so a CLI exclude wins over a
// gitignore negation.
type Matcher struct {
	includes  []*regexp.Regexp
	excludes  []*regexp.Regexp
	gitignore bool
	scopes    []gitignoreScope
	logger    *zap.Logger
}

// gitignoreScope is one .gitignore file, effective for the directory that
// contains it and everything below.
type gitignoreScope struct {
	dir     string // Root-relative directory of the .gitignore; "." for the scan root.
	matcher gitignore.IgnoreMatcher
}

// NewMatcher compiles include and exclude globs. The .git directory is always
// excluded unless an include pattern explicitly names it.
func NewMatcher(includes, excludes []string, useGitignore bool, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	gitIncluded := false
	effective := make([]string, 0, len(includes))
	for _, pattern := range includes {
		trimmed := strings.TrimPrefix(strings.TrimSpace(pattern), "./")
		if strings.HasPrefix(trimmed, ".git") {
			gitIncluded = true
		}
		// Universal includes add nothing; leaving them out keeps the
		// include set empty, which means include-all.
		if trimmed == "*" || trimmed == "**" {
			continue
		}
		effective = append(effective, pattern)
	}

	compiledIncludes, err := compileGlobs(effective)
	if err != nil {
		return nil, err
	}

	if !gitIncluded {
		excludes = append(append([]string{}, excludes...), ".git")
	}
	compiledExcludes, err := compileGlobs(excludes)
	if err != nil {
		return nil, err
	}

	return &Matcher{
		includes:  compiledIncludes,
		excludes:  compiledExcludes,
		gitignore: useGitignore,
		logger:    logger,
	}, nil
}

// AddGitignore registers the text of a .gitignore file found at dir, a
// root-relative directory ("." for the scan root). Scopes must be added
// root-first, which the collector's walk order guarantees.
func (m *Matcher) AddGitignore(dir string, content []byte) {
	if !m.gitignore {
		return
	}
	scope := gitignoreScope{
		dir:     path.Clean(dir),
		matcher: gitignore.NewGitIgnoreFromReader(".", bytes.NewReader(content)),
	}
	m.scopes = append(m.scopes, scope)
	m.logger.Debug("Registered gitignore scope", zap.String("dir", scope.dir))
}

// IsExcluded reports whether the slash-separated relative path is excluded.
// Directories reported as excluded must be pruned entirely by the caller.
func (m *Matcher) IsExcluded(relPath string, isDir bool) bool {
	rel := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	if rel == "." || rel == "" {
		return false
	}
	if !isDir && len(m.includes) > 0 && !matchesAny(m.includes, rel) {
		return true
	}
	if matchesAny(m.excludes, rel) {
		return true
	}
	if m.gitignore && m.matchesGitignore(rel, isDir) {
		return true
	}
	return false
}

// matchesGitignore evaluates every scope that covers the path. Scopes are
// ordered root-first, so a deeper scope's verdict overrides an ancestor's
// when it matches.
func (m *Matcher) matchesGitignore(rel string, isDir bool) bool {
	ignored := false
	for _, scope := range m.scopes {
		sub, ok := scopeRelative(scope.dir, rel)
		if !ok {
			continue
		}
		if scope.matcher.Match(sub, isDir) {
			ignored = true
		}
	}
	return ignored
}

// scopeRelative rewrites a root-relative path into one relative to the scope
// directory, or reports that the scope does not cover the path.
func scopeRelative(scopeDir, rel string) (string, bool) {
	if scopeDir == "." {
		return rel, true
	}
	prefix := scopeDir + "/"
	if !strings.HasPrefix(rel, prefix) {
		return "", false
	}
	return rel[len(prefix):], true
}

func matchesAny(patterns []*regexp.Regexp, rel string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(rel) {
			return true
		}
	}
	return false
}
