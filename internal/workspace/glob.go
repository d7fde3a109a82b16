package workspace

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expand resolves workspace glob patterns, relative to the root, into
// sorted and deduplicated slash-separated directory paths. Patterns
// starting with "!" remove matches. node_modules is never descended.
func (p prober) expand(patterns []string) ([]string, error) {
	var include, exclude []string
	for _, pat := range patterns {
		pat = strings.TrimPrefix(path.Clean(filepath.ToSlash(pat)), "./")
		if neg, ok := strings.CutPrefix(pat, "!"); ok {
			exclude = append(exclude, strings.TrimPrefix(neg, "./"))
			continue
		}
		include = append(include, pat)
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, pat := range include {
		if !doublestar.ValidatePattern(pat) {
			continue
		}
		base, _ := doublestar.SplitPattern(pat)
		depth := -1
		if !strings.Contains(pat, "**") {
			depth = strings.Count(pat, "/") + 1
		}
		start := filepath.Join(p.root, filepath.FromSlash(base))
		err := p.fsys.WalkDir(start, func(abs string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // a missing base matches nothing
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(p.root, abs)
			if err != nil {
				return nil //nolint:nilerr // outside the root
			}
			rel = filepath.ToSlash(rel)
			if rel == "." {
				return nil
			}
			if depth > 0 && strings.Count(rel, "/")+1 > depth {
				return filepath.SkipDir
			}
			if seen[rel] || !match(pat, rel) || anyMatch(exclude, rel) {
				return nil
			}
			seen[rel] = true
			dirs = append(dirs, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

func match(pat, rel string) bool {
	ok, _ := doublestar.Match(pat, rel)
	return ok
}

func anyMatch(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if match(pat, rel) {
			return true
		}
	}
	return false
}
