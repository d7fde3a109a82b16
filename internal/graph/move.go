package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Rewrite is one specifier that must change when a module moves.
type Rewrite struct {
	File ModuleID `json:"file"`
	Path string   `json:"path"`
	Line int      `json:"line"`
	Old  string   `json:"old"`
	New  string   `json:"new"`
}

// MovePlan lists the rewrites a move needs.
type MovePlan struct {
	From     ModuleID  `json:"from"`
	To       ModuleID  `json:"to"`
	Rewrites []Rewrite `json:"rewrites"`
}

// MovePlan computes how specifiers change if module from moves to the
// root-relative or absolute path to. Importers of from get a specifier
// pointing at the new location; the moved module's own relative
// specifiers are recomputed from its new directory. Each new specifier
// keeps the style of the old one: no extension stays no extension, a
// directory import stays a directory import when the target is still an
// index file.
func (g *Graph) MovePlan(from ModuleID, to string) (*MovePlan, error) {
	if !g.Has(from) {
		return nil, &SeedNotFoundError{Seed: string(from)}
	}
	target := path.Clean(strings.ReplaceAll(to, `\`, "/"))
	if !path.IsAbs(target) && !isDrivePath(target) {
		target = g.Root + "/" + target
	}
	dest := ModuleID(target)
	if g.Has(dest) && dest != from {
		return nil, fmt.Errorf("move %s: destination %s is already a module", g.Path(from), g.relPath(dest))
	}

	plan := &MovePlan{From: from, To: dest, Rewrites: []Rewrite{}}
	add := func(e Edge, file ModuleID, filePath string, newSpec string) {
		if newSpec != e.Specifier {
			plan.Rewrites = append(plan.Rewrites, Rewrite{
				File: file, Path: filePath, Line: e.Line, Old: e.Specifier, New: newSpec,
			})
		}
	}

	for _, e := range g.EdgesTo(from) {
		if e.From == from {
			continue
		}
		add(e, e.From, g.Path(e.From), respell(e.Specifier, string(e.From), string(from), target))
	}
	for _, e := range g.EdgesFrom(from) {
		newTo := string(e.To)
		if e.To == from {
			newTo = target
		}
		add(e, from, g.relPath(dest), respell(e.Specifier, target, string(e.To), newTo))
	}

	sort.Slice(plan.Rewrites, func(i, j int) bool {
		a, b := plan.Rewrites[i], plan.Rewrites[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})
	return plan, nil
}

// respell returns the relative specifier from importer to newTarget,
// spelled the way old spelled oldTarget.
func respell(old, importer, oldTarget, newTarget string) string {
	oldExt := path.Ext(oldTarget)
	newExt := path.Ext(newTarget)
	newBase := strings.TrimSuffix(path.Base(newTarget), newExt)

	spec := relative(path.Dir(importer), newTarget)
	switch specExt := path.Ext(old); {
	case isIndexImport(old, oldTarget) && newBase == "index":
		spec = path.Dir(spec)
		if spec == "." {
			return "."
		}
	case specExt == oldExt:
		// Explicit extension: keep the new file's.
	case jsExts[specExt]:
		// Compiled-output spelling such as ./a.js for a.ts.
		spec = strings.TrimSuffix(spec, newExt) + jsFor(newExt, specExt)
	default:
		spec = strings.TrimSuffix(spec, newExt)
	}
	if !strings.HasPrefix(spec, "../") && !strings.HasPrefix(spec, "./") && spec != ".." {
		spec = "./" + spec
	}
	return spec
}

// isIndexImport reports whether old named the directory of an index file.
func isIndexImport(old, target string) bool {
	if !strings.HasPrefix(path.Base(target), "index.") {
		return false
	}
	last := path.Base(strings.TrimSuffix(old, "/"))
	return last != "index" && !strings.HasPrefix(last, "index.")
}

var jsExts = map[string]bool{".js": true, ".jsx": true, ".mjs": true, ".cjs": true}

var tsToJS = map[string]string{
	".ts":  ".js",
	".tsx": ".js",
	".mts": ".mjs",
	".cts": ".cjs",
}

// jsFor returns the compiled extension for a TypeScript source, falling
// back to the previous spelling.
func jsFor(tsExt, fallback string) string {
	if js, ok := tsToJS[tsExt]; ok {
		return js
	}
	return fallback
}

// relative returns the slash path from dir to target.
func relative(dir, target string) string {
	from := strings.Split(strings.Trim(dir, "/"), "/")
	to := strings.Split(strings.Trim(target, "/"), "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}

func isDrivePath(p string) bool {
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}
