// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package workspace detects JavaScript monorepo layouts and enumerates their
// packages, so that imports between sibling packages are recognized as
// internal.
package workspace

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/davetashner/modgraph/internal/testable"
)

// Kind identifies the monorepo tool or convention that defines the workspace layout.
type Kind string

const (
	KindPnpm  Kind = "pnpm"
	KindNpm   Kind = "npm"
	KindLerna Kind = "lerna"
	KindNx    Kind = "nx"
)

// Workspace represents a single package within a monorepo.
type Workspace struct {
	Name string // package.json name, or the directory basename
	Path string // absolute path
	Rel  string // slash-separated, relative to the monorepo root
}

// Layout describes a detected monorepo structure.
type Layout struct {
	Kind       Kind
	Root       string
	Workspaces []Workspace
}

// PackageNames returns the workspace names, sorted.
func (l *Layout) PackageNames() []string {
	names := make([]string, 0, len(l.Workspaces))
	for _, ws := range l.Workspaces {
		names = append(names, ws.Name)
	}
	sort.Strings(names)
	return names
}

// EntryPoints returns glob patterns for the index file of every
// workspace, at the package root or under src/. Other packages import a
// workspace through it, so its exports are public.
func (l *Layout) EntryPoints() []string {
	var out []string
	for _, ws := range l.Workspaces {
		out = append(out, ws.Rel+"/index.*", ws.Rel+"/src/index.*")
	}
	return out
}

// prober reads one candidate root.
type prober struct {
	fsys testable.FileSystem
	root string
}

// detector attempts to detect a monorepo layout. It returns nil, nil when
// the expected manifest file is not present.
type detector func(p prober) (*Layout, error)

// detectors is the ordered list of detection functions. First match wins.
var detectors = []detector{
	detectPnpm,
	detectNpm,
	detectLerna,
	detectNx,
}

// Detect probes root for known monorepo layouts. It returns the first
// matching Layout, or nil if no monorepo structure is detected.
func Detect(fsys testable.FileSystem, root string) (*Layout, error) {
	fsys = testable.OrDefault(fsys)
	abs, err := fsys.Abs(root)
	if err != nil {
		return nil, err
	}

	p := prober{fsys: fsys, root: abs}
	for _, fn := range detectors {
		layout, err := fn(p)
		if err != nil {
			return nil, err
		}
		if layout != nil {
			return layout, nil
		}
	}
	return nil, nil
}

// read returns the contents of a file in the root, or nil when it does not
// exist.
func (p prober) read(name string) ([]byte, error) {
	data, err := p.fsys.ReadFile(filepath.Join(p.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// layout expands patterns into a Layout of kind, or nil when nothing
// matches.
func (p prober) layout(kind Kind, patterns []string) (*Layout, error) {
	dirs, err := p.expand(patterns)
	if err != nil || len(dirs) == 0 {
		return nil, err
	}
	return &Layout{Kind: kind, Root: p.root, Workspaces: p.workspaces(dirs)}, nil
}

// workspaces names each directory after its package.json, falling back to
// the basename.
func (p prober) workspaces(rels []string) []Workspace {
	ws := make([]Workspace, 0, len(rels))
	for _, rel := range rels {
		dir := filepath.Join(p.root, filepath.FromSlash(rel))
		name := filepath.Base(dir)
		if data, err := p.fsys.ReadFile(filepath.Join(dir, "package.json")); err == nil {
			var pkg struct {
				Name string `json:"name"`
			}
			if json.Unmarshal(data, &pkg) == nil && pkg.Name != "" {
				name = pkg.Name
			}
		}
		ws = append(ws, Workspace{Name: name, Path: dir, Rel: rel})
	}
	return ws
}
