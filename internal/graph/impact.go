package graph

import (
	"sort"

	"github.com/davetashner/modgraph/internal/extract"
)

// ImpactOptions bounds an impact query.
type ImpactOptions struct {
	// MaxDepth stops the traversal after this many hops (0 = unbounded).
	MaxDepth int
}

// ImpactEntry is one affected module and its distance from the nearest seed.
type ImpactEntry struct {
	ID       ModuleID `json:"id"`
	Path     string   `json:"path"`
	Distance int      `json:"distance"`
}

// ImpactSet lists everything that depends, directly or transitively, on the
// seeds. Seeds themselves are not entries.
type ImpactSet struct {
	Seeds    []ModuleID    `json:"seeds"`
	Entries  []ImpactEntry `json:"entries"`
	MaxDepth int           `json:"max_depth,omitempty"`
}

// Distance returns the hop count of id, 0 for a seed.
func (s *ImpactSet) Distance(id ModuleID) (int, bool) {
	for _, seed := range s.Seeds {
		if seed == id {
			return 0, true
		}
	}
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Distance, true
		}
	}
	return 0, false
}

// AtDistance returns the entries exactly d hops away, in path order.
func (s *ImpactSet) AtDistance(d int) []ImpactEntry {
	var out []ImpactEntry
	for _, e := range s.Entries {
		if e.Distance == d {
			out = append(out, e)
		}
	}
	return out
}

// Impact returns every module that would be affected if seed changed.
func (g *Graph) Impact(seed ModuleID, opts ImpactOptions) (*ImpactSet, error) {
	return g.ImpactOf([]ModuleID{seed}, opts)
}

// ImpactOf walks the reverse graph breadth-first from all seeds at once and
// keeps each module's minimum distance to any seed. An unknown seed fails
// the whole query with a *SeedNotFoundError.
func (g *Graph) ImpactOf(seeds []ModuleID, opts ImpactOptions) (*ImpactSet, error) {
	dist := make(map[ModuleID]int)
	var queue []ModuleID
	set := &ImpactSet{Seeds: []ModuleID{}, Entries: []ImpactEntry{}, MaxDepth: opts.MaxDepth}

	for _, s := range seeds {
		if !g.Has(s) {
			return nil, &SeedNotFoundError{Seed: string(s)}
		}
		if _, dup := dist[s]; dup {
			continue
		}
		dist[s] = 0
		queue = append(queue, s)
		set.Seeds = append(set.Seeds, s)
	}
	sort.Slice(set.Seeds, func(i, j int) bool { return set.Seeds[i] < set.Seeds[j] })

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		if opts.MaxDepth > 0 && d >= opts.MaxDepth {
			continue
		}
		for _, dep := range g.index[cur].In {
			if _, seen := dist[dep]; seen {
				continue
			}
			dist[dep] = d + 1
			queue = append(queue, dep)
			set.Entries = append(set.Entries, ImpactEntry{ID: dep, Path: g.Path(dep), Distance: d + 1})
		}
	}

	sort.Slice(set.Entries, func(i, j int) bool {
		if set.Entries[i].Distance != set.Entries[j].Distance {
			return set.Entries[i].Distance < set.Entries[j].Distance
		}
		return set.Entries[i].Path < set.Entries[j].Path
	})
	return set, nil
}

// SymbolTable maps each module to the symbols it exports.
type SymbolTable map[ModuleID][]extract.ExportedSymbol

// Declarers returns the modules that declare name, named or default,
// ignoring modules that only re-export it.
func (t SymbolTable) Declarers(name string) []ModuleID {
	var out []ModuleID
	for id, syms := range t {
		for _, s := range syms {
			if s.Name == name && s.Kind != extract.ReExportSymbol {
				out = append(out, id)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ImpactOfSymbol resolves name to the modules declaring it and returns
// their combined impact. A name nothing declares is a *SeedNotFoundError.
func (g *Graph) ImpactOfSymbol(name string, exports SymbolTable, opts ImpactOptions) (*ImpactSet, error) {
	seeds := exports.Declarers(name)
	if len(seeds) == 0 {
		return nil, &SeedNotFoundError{Seed: name}
	}
	return g.ImpactOf(seeds, opts)
}

// Reachable reports whether to can be reached from from along forward
// edges. A module always reaches itself.
func (g *Graph) Reachable(from, to ModuleID) (bool, error) {
	if !g.Has(from) {
		return false, &SeedNotFoundError{Seed: string(from)}
	}
	if !g.Has(to) {
		return false, &SeedNotFoundError{Seed: string(to)}
	}
	seen := map[ModuleID]bool{from: true}
	queue := []ModuleID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true, nil
		}
		for _, next := range g.index[cur].Out {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false, nil
}
