package walker

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	".git", ".hg", ".svn",
	"node_modules", "bower_components", "vendor",
	"__pycache__", ".venv", "venv", ".tox",
	".codelocate",
	"dist", "build", "target", "out", ".next", ".nuxt",
	".idea", ".vscode",
}

var excludedDirs = func() map[string]bool {
	m := make(map[string]bool, len(DefaultExcludes))
	for _, d := range DefaultExcludes {
		m[strings.ToLower(d)] = true
	}
	return m
}()

func shouldExcludeDir(name string) bool {
	return excludedDirs[strings.ToLower(name)]
}

// MatchesInclude reports whether rel matches one of patterns. No patterns
// includes everything.
func MatchesInclude(rel string, patterns []string) bool {
	return len(patterns) == 0 || matchesAny(rel, patterns)
}

// MatchesExclude reports whether rel matches one of patterns.
func MatchesExclude(rel string, patterns []string) bool {
	return len(patterns) > 0 && matchesAny(rel, patterns)
}

// matchesAny tries each doublestar pattern against the whole relative path
// and against the base name, so "*.log" matches at any depth.
func matchesAny(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}
