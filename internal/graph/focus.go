package graph

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/davetashner/modgraph/internal/resolve"
)

// Lookup finds a module by ModuleID, by absolute path, or by path relative
// to the root. Paths may omit the extension or name a directory holding an
// index file, as a relative import would.
func (g *Graph) Lookup(pathOrID string) (ModuleID, error) {
	if id := ModuleID(pathOrID); g.Has(id) {
		return id, nil
	}
	p := filepath.ToSlash(pathOrID)
	if !path.IsAbs(p) && !filepath.IsAbs(pathOrID) {
		p = g.Root + "/" + strings.TrimPrefix(path.Clean(p), "./")
	}
	p = path.Clean(p)

	known := make(map[string]bool, len(g.index))
	for id := range g.index {
		known[string(id)] = true
	}
	if id, _ := resolve.New(g.extensions, known).Probe(p); id != "" {
		return ModuleID(id), nil
	}
	return "", &SeedNotFoundError{Seed: pathOrID}
}

// Focus returns the subgraph of modules within depth hops of id, following
// edges in either direction (depth <= 0 means unbounded). Only edges
// between kept modules survive.
func (g *Graph) Focus(id ModuleID, depth int) (*Graph, error) {
	if !g.Has(id) {
		return nil, &SeedNotFoundError{Seed: string(id)}
	}
	dist := map[ModuleID]int{id: 0}
	queue := []ModuleID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth > 0 && dist[cur] >= depth {
			continue
		}
		n := g.index[cur]
		for _, list := range [][]ModuleID{n.Out, n.In} {
			for _, next := range list {
				if _, seen := dist[next]; !seen {
					dist[next] = dist[cur] + 1
					queue = append(queue, next)
				}
			}
		}
	}

	ids := make([]ModuleID, 0, len(dist))
	for m := range dist {
		ids = append(ids, m)
	}
	var edges []Edge
	for _, e := range g.Edges {
		_, fromOK := dist[e.From]
		_, toOK := dist[e.To]
		if fromOK && toOK {
			edges = append(edges, e)
		}
	}
	return newGraph(g.Root, ids, edges, g.extensions), nil
}
