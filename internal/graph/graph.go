// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package graph builds the module dependency graph of a source tree and
// answers structural queries over it: cycles, strongly connected
// components, fan-in and fan-out hotspots, and transitive impact.
//
// A Graph is immutable once built. Any number of goroutines may query the
// same Graph concurrently without locking.
package graph

import (
	"sort"
	"strings"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/extract"
)

// ModuleID is the canonical identity of a collected file: its absolute,
// slash-separated path with symlinks evaluated.
type ModuleID string

// ModuleNode is one file in the graph.
type ModuleNode struct {
	ID ModuleID `json:"id"`

	// Path is slash-separated and relative to the scan root.
	Path string `json:"path"`

	// Out lists the modules this one references, sorted and unique.
	Out []ModuleID `json:"out"`

	// In lists the modules that reference this one, sorted and unique.
	In []ModuleID `json:"in"`
}

// FanOut returns the number of distinct modules this one references.
func (n *ModuleNode) FanOut() int { return len(n.Out) }

// FanIn returns the number of distinct modules referencing this one.
func (n *ModuleNode) FanIn() int { return len(n.In) }

// Edge is one resolved internal reference.
type Edge struct {
	From      ModuleID     `json:"from"`
	To        ModuleID     `json:"to"`
	Specifier string       `json:"specifier"`
	Kind      extract.Kind `json:"kind"`
	Line      int          `json:"line"`
}

func (e Edge) less(o Edge) bool {
	if e.From != o.From {
		return e.From < o.From
	}
	if e.To != o.To {
		return e.To < o.To
	}
	if e.Line != o.Line {
		return e.Line < o.Line
	}
	if e.Specifier != o.Specifier {
		return e.Specifier < o.Specifier
	}
	return e.Kind < o.Kind
}

// Graph is a directed module graph with forward and reverse adjacency.
type Graph struct {
	// Root is the canonical scan root, slash-separated.
	Root string `json:"root"`

	// Nodes is sorted by ID.
	Nodes []*ModuleNode `json:"nodes"`

	// Edges holds every distinct (from, to, specifier, kind, line) edge,
	// sorted. Several edges may share the same (from, to) pair.
	Edges []Edge `json:"edges"`

	index      map[ModuleID]*ModuleNode
	extensions []string
}

// New assembles a graph from module IDs and edges. Edge endpoints missing
// from ids are added as nodes. Self-edges are kept. The result does not
// depend on the order of ids or edges.
func New(root string, ids []ModuleID, edges []Edge) *Graph {
	return newGraph(root, ids, edges, config.DefaultExtensions)
}

func newGraph(root string, ids []ModuleID, edges []Edge, extensions []string) *Graph {
	root = strings.TrimSuffix(root, "/")
	g := &Graph{
		Root:       root,
		Nodes:      []*ModuleNode{},
		Edges:      []Edge{},
		index:      make(map[ModuleID]*ModuleNode, len(ids)),
		extensions: extensions,
	}

	node := func(id ModuleID) *ModuleNode {
		if n, ok := g.index[id]; ok {
			return n
		}
		n := &ModuleNode{ID: id, Path: g.relPath(id), Out: []ModuleID{}, In: []ModuleID{}}
		g.index[id] = n
		g.Nodes = append(g.Nodes, n)
		return n
	}
	for _, id := range ids {
		node(id)
	}

	sorted := append([]Edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	for i, e := range sorted {
		if i > 0 && e == sorted[i-1] {
			continue
		}
		g.Edges = append(g.Edges, e)
		from, to := node(e.From), node(e.To)
		// Edges are sorted by From then To, so a repeated pair is adjacent
		// in from.Out.
		if k := len(from.Out); k == 0 || from.Out[k-1] != e.To {
			from.Out = append(from.Out, e.To)
			to.In = append(to.In, e.From)
		}
	}

	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	for _, n := range g.Nodes {
		sort.Slice(n.In, func(i, j int) bool { return n.In[i] < n.In[j] })
	}
	return g
}

func (g *Graph) relPath(id ModuleID) string {
	s := string(id)
	if rel, ok := strings.CutPrefix(s, g.Root+"/"); ok {
		return rel
	}
	return s
}

// Node returns the node for id.
func (g *Graph) Node(id ModuleID) (*ModuleNode, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id ModuleID) bool {
	_, ok := g.index[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// Path returns the root-relative path of id. IDs outside the root are
// returned unchanged.
func (g *Graph) Path(id ModuleID) string {
	if n, ok := g.index[id]; ok {
		return n.Path
	}
	if rel, ok := strings.CutPrefix(string(id), g.Root+"/"); ok && rel != "" {
		return rel
	}
	return string(id)
}

// IDs returns every node ID in sorted order.
func (g *Graph) IDs() []ModuleID {
	ids := make([]ModuleID, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgesFrom returns the edges leaving id, sorted.
func (g *Graph) EdgesFrom(id ModuleID) []Edge {
	i := sort.Search(len(g.Edges), func(i int) bool { return g.Edges[i].From >= id })
	j := i
	for j < len(g.Edges) && g.Edges[j].From == id {
		j++
	}
	return g.Edges[i:j]
}

// EdgesTo returns the edges arriving at id, sorted.
func (g *Graph) EdgesTo(id ModuleID) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}
