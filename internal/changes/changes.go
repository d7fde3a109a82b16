// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package changes turns a patch or a git revision range into the set of
// changed files, so a change can seed an impact query.
package changes

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/testable"
)

// Set is a list of changed files relative to Base.
type Set struct {
	// Base is the directory the paths are relative to. Empty means the
	// paths are relative to the scan root.
	Base string `json:"base,omitempty"`

	// Files is sorted and unique, slash-separated.
	Files []string `json:"files"`
}

// FromUnifiedDiff returns the files touched by a unified (git or plain)
// diff. Renames contribute both names; deletions contribute the old name.
func FromUnifiedDiff(data []byte) (*Set, error) {
	set := &Set{Files: []string{}}
	if len(strings.TrimSpace(string(data))) == 0 {
		return set, nil
	}
	fileDiffs, err := godiff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}
	var files []string
	for _, fd := range fileDiffs {
		for _, name := range []string{fd.OrigName, fd.NewName} {
			if p := cleanPath(name); p != "" {
				files = append(files, p)
			}
		}
	}
	set.Files = uniqueSorted(files)
	return set, nil
}

// cleanPath removes the a/ or b/ prefix git puts on diff paths.
func cleanPath(p string) string {
	if p == "" || p == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		p = p[2:]
	}
	return path.Clean(filepath.ToSlash(p))
}

// FromGit returns the files that differ between the commit ref names and
// HEAD in the repository containing dir. Paths are relative to the
// repository's working tree, which becomes Base.
func FromGit(opener testable.GitOpener, dir, ref string) (*Set, error) {
	if opener == nil {
		opener = testable.DefaultGitOpener
	}
	repo, err := opener.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root, err := repo.Root()
	if err != nil {
		return nil, fmt.Errorf("locate working tree: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	baseHash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}

	baseTree, err := commitTree(repo, *baseHash)
	if err != nil {
		return nil, err
	}
	headTree, err := commitTree(repo, head.Hash())
	if err != nil {
		return nil, err
	}
	diff, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	var files []string
	for _, c := range diff {
		for _, name := range []string{c.From.Name, c.To.Name} {
			if name != "" {
				files = append(files, name)
			}
		}
	}
	return &Set{Base: filepath.ToSlash(root), Files: uniqueSorted(files)}, nil
}

func commitTree(repo testable.GitRepository, h plumbing.Hash) (*object.Tree, error) {
	c, err := repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", h, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree of %s: %w", h, err)
	}
	return tree, nil
}

// Seeds maps changed files to graph modules. Files outside the graph
// (deleted files, non-source files, files outside the scan root) are
// returned as skipped. fsys canonicalizes Base the way the collector
// canonicalized the scan root.
func Seeds(g *graph.Graph, set *Set, fsys testable.FileSystem) (seeds []graph.ModuleID, skipped []string) {
	base := g.Root
	if set.Base != "" {
		base = filepath.ToSlash(set.Base)
		if canon, err := testable.OrDefault(fsys).EvalSymlinks(set.Base); err == nil {
			base = filepath.ToSlash(canon)
		}
	}

	seen := make(map[graph.ModuleID]bool)
	for _, f := range set.Files {
		abs := path.Join(base, f)
		if g.Has(graph.ModuleID(abs)) {
			if !seen[graph.ModuleID(abs)] {
				seen[graph.ModuleID(abs)] = true
				seeds = append(seeds, graph.ModuleID(abs))
			}
			continue
		}
		skipped = append(skipped, f)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	return seeds, skipped
}

// ErrNoSeeds is returned when none of the changed files is in the graph.
var ErrNoSeeds = errors.New("no changed file is a module of the graph")

// Impact runs an impact query seeded by every changed module.
func Impact(g *graph.Graph, set *Set, fsys testable.FileSystem, opts graph.ImpactOptions) (*graph.ImpactSet, []string, error) {
	seeds, skipped := Seeds(g, set, fsys)
	if len(seeds) == 0 {
		return nil, skipped, ErrNoSeeds
	}
	impact, err := g.ImpactOf(seeds, opts)
	return impact, skipped, err
}

func uniqueSorted(in []string) []string {
	sort.Strings(in)
	out := make([]string, 0, len(in))
	for i, s := range in {
		if i > 0 && s == in[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
