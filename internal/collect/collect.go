// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package collect enumerates candidate source files under a scan root.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/testable"
)

// File is one collected source file.
type File struct {
	// Path is slash-separated and relative to the canonical scan root.
	Path string `json:"path"`

	// Abs is the canonical absolute path with symlinks evaluated.
	Abs string `json:"-"`
}

// WalkError records a directory or entry that could not be read.
type WalkError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e *WalkError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *WalkError) Unwrap() error { return e.Err }

// Result holds the collected files sorted by Path.
type Result struct {
	// Root is the canonical absolute scan root.
	Root string

	Files []File

	// Truncated is set when files past MaxFiles, in path order, were
	// dropped.
	Truncated bool

	// Errors lists unreadable directories. The walk continues past them.
	Errors []*WalkError
}

type walker struct {
	ctx     context.Context
	fsys    testable.FileSystem
	rules   config.Rules
	root    string
	visited map[string]bool
	seen    map[string]bool
	result  *Result
}

// Collect walks root and returns every file whose name ends in one of
// rules.Extensions, skipping excluded directories before descending into
// them. Symlinked directories are followed once, and only when they resolve
// inside root.
func Collect(ctx context.Context, root string, rules config.Rules, fsys testable.FileSystem) (*Result, error) {
	fsys = testable.OrDefault(fsys)
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	abs, err := fsys.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	canonical, err := fsys.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	info, err := fsys.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", root)
	}

	w := &walker{
		ctx:     ctx,
		fsys:    fsys,
		rules:   rules,
		root:    canonical,
		visited: map[string]bool{canonical: true},
		seen:    make(map[string]bool),
		result:  &Result{Root: canonical},
	}

	entries, err := fsys.ReadDir(canonical)
	if err != nil {
		return nil, fmt.Errorf("read root %q: %w", root, err)
	}
	if err := w.walkEntries(canonical, entries); err != nil {
		return nil, err
	}

	// The walk is depth-first, so a/x.ts precedes a.ts; sort before
	// applying the cap so the kept files are a prefix in path order.
	res := w.result
	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	if rules.MaxFiles > 0 && len(res.Files) > rules.MaxFiles {
		res.Files = res.Files[:rules.MaxFiles]
		res.Truncated = true
	}
	slog.Debug("collected files", "root", canonical, "files", len(res.Files), "truncated", res.Truncated, "errors", len(res.Errors))
	return res, nil
}

func (w *walker) walkDir(dir string) error {
	entries, err := w.fsys.ReadDir(dir)
	if err != nil {
		w.result.Errors = append(w.result.Errors, &WalkError{Path: w.rel(dir), Err: err})
		slog.Warn("cannot read directory", "path", dir, "error", err)
		return nil
	}
	return w.walkEntries(dir, entries)
}

func (w *walker) walkEntries(dir string, entries []os.DirEntry) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, ok := w.followSymlink(path)
			if !ok {
				continue
			}
			info, err := w.fsys.Stat(target)
			if err != nil {
				continue
			}
			path = target
			isDir = info.IsDir()
		}

		if isDir {
			if w.visited[path] || w.excludedDir(path) {
				continue
			}
			w.visited[path] = true
			if err := w.walkDir(path); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		w.addFile(path)
	}
	return nil
}

// followSymlink returns the canonical target of a symlink when it lies
// inside the scan root.
func (w *walker) followSymlink(path string) (string, bool) {
	target, err := w.fsys.EvalSymlinks(path)
	if err != nil {
		slog.Debug("skipping broken symlink", "path", path, "error", err)
		return "", false
	}
	if !w.inRoot(target) {
		slog.Debug("skipping symlink outside root", "path", path, "target", target)
		return "", false
	}
	return target, true
}

func (w *walker) addFile(path string) {
	rel := w.rel(path)
	if !hasExtension(rel, w.rules.Extensions) || w.excluded(rel) || w.seen[path] {
		return
	}
	w.seen[path] = true
	w.result.Files = append(w.result.Files, File{Path: rel, Abs: path})
}

// excludedDir reports whether any segment of the directory's root-relative
// path is an excluded name, or the path matches an exclude glob. Checking
// every segment matters for symlinks that land inside an excluded tree.
func (w *walker) excludedDir(path string) bool {
	rel := w.rel(path)
	for _, seg := range strings.Split(rel, "/") {
		for _, name := range w.rules.ExcludeDirs {
			if seg == name {
				return true
			}
		}
	}
	return w.excluded(rel)
}

func (w *walker) excluded(rel string) bool {
	return MatchAny(w.rules.ExcludeGlobs, rel)
}

func (w *walker) inRoot(path string) bool {
	return path == w.root || strings.HasPrefix(path, w.root+string(filepath.Separator))
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}
