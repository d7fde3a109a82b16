// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package watch reports batches of source changes under a scan root so the
// caller can rebuild. Events are debounced: a batch is delivered once the
// tree has been quiet for the debounce window.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davetashner/modgraph/internal/collect"
	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/testable"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 100 * time.Millisecond

// HandlerFunc receives one batch of changed paths, relative to the root,
// slash-separated and sorted.
type HandlerFunc func(ctx context.Context, changed []string) error

// Watcher watches the directories of a scan root.
type Watcher struct {
	fsys     testable.FileSystem
	root     string
	rules    config.Rules
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New starts watching every directory under root that the rules do not
// exclude. A nil fsys means the real filesystem. The caller must Close the
// watcher.
func New(fsys testable.FileSystem, root string, rules config.Rules, debounce time.Duration) (*Watcher, error) {
	fsys = testable.OrDefault(fsys)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := fsys.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsys: fsys, root: abs, rules: rules.WithDefaults(), debounce: debounce, fsw: fsw}
	if err := w.addRecursive(abs); err != nil {
		fsw.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return w.fsys.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.excludedDir(p) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *Watcher) rel(p string) (string, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) excludedDir(p string) bool {
	rel, ok := w.rel(p)
	return !ok || w.excludedRel(rel)
}

// excludedRel reports whether a root-relative path lies in an excluded
// directory or matches an exclude glob.
func (w *Watcher) excludedRel(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if slices.Contains(w.rules.ExcludeDirs, seg) {
			return true
		}
	}
	return collect.MatchAny(w.rules.ExcludeGlobs, rel)
}

// relevant reports whether a change to rel can alter the graph: a source
// file, a config file, or any removal (which may be a whole directory).
func (w *Watcher) relevant(rel string, op fsnotify.Op) bool {
	if w.excludedRel(rel) {
		return false
	}
	switch path.Base(rel) {
	case config.FileName, config.FileNameYML, config.FileNameTOML:
		return true
	}
	if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
		return true
	}
	return slices.Contains(w.rules.Extensions, path.Ext(rel))
}

// Run delivers debounced batches to fn until ctx is done. A handler error
// other than cancellation is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn HandlerFunc) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, inside := w.rel(ev.Name)
			if !inside {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := w.fsys.Stat(ev.Name); err == nil && info.IsDir() {
					if !w.excludedDir(ev.Name) {
						if err := w.addRecursive(ev.Name); err != nil {
							slog.Warn("cannot watch new directory", "path", rel, "error", err)
						}
						pending[rel] = true
						timer.Reset(w.debounce)
					}
					continue
				}
			}
			if !w.relevant(rel, ev.Op) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)

			slog.Debug("watch: change batch", "paths", len(batch))
			if err := fn(ctx, batch); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("rebuild failed", "error", err)
			}
		}
	}
}
