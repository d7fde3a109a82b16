package collect

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchAny reports whether a slash-separated relative path matches any of
// the doublestar patterns. Patterns without a slash also match against the
// base name, so "*.min.js" applies in every directory. A "dir/**" pattern
// matches dir itself.
func MatchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(rel)); ok {
				return true
			}
		}
		if dir, found := strings.CutSuffix(pattern, "/**"); found {
			if ok, _ := doublestar.Match(dir, rel); ok {
				return true
			}
		}
	}
	return false
}
