package graph

import (
	"sort"
	"strings"
)

// Cycle is a closed path of modules: the first and last elements are the
// same module. A module that references itself yields [a, a].
type Cycle []ModuleID

// CycleOptions bounds cycle enumeration.
type CycleOptions struct {
	// Limit caps the number of cycles returned (0 = no limit).
	Limit int
}

// Cycles enumerates elementary cycles with an iterative depth-first search
// in sorted order. A back-edge to a module still on the stack yields the
// stack suffix from that module plus the closing edge; fully explored
// modules are not entered again. Each cycle is rotated to start at its
// smallest ModuleID, duplicates are dropped, and the result is sorted by
// length and then element by element.
func (g *Graph) Cycles(opts CycleOptions) []Cycle {
	const (
		white = iota
		gray
		black
	)
	color := make(map[ModuleID]int, len(g.Nodes))
	// Position of each gray module on the stack.
	pos := make(map[ModuleID]int)

	type frame struct {
		node *ModuleNode
		next int
	}
	seen := make(map[string]bool)
	var cycles []Cycle

	for _, start := range g.Nodes {
		if color[start.ID] != white {
			continue
		}
		stack := []frame{{node: start}}
		path := []ModuleID{start.ID}
		color[start.ID] = gray
		pos[start.ID] = 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.node.Out) {
				color[top.node.ID] = black
				delete(pos, top.node.ID)
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			w := top.node.Out[top.next]
			top.next++

			switch color[w] {
			case gray:
				c := make(Cycle, 0, len(path)-pos[w]+1)
				c = append(c, path[pos[w]:]...)
				c = append(c, w)
				c = canonical(c)
				if key := c.key(); !seen[key] {
					seen[key] = true
					cycles = append(cycles, c)
				}
			case white:
				next, ok := g.index[w]
				if !ok {
					continue
				}
				color[w] = gray
				pos[w] = len(path)
				path = append(path, w)
				stack = append(stack, frame{node: next})
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].less(cycles[j]) })
	if opts.Limit > 0 && len(cycles) > opts.Limit {
		cycles = cycles[:opts.Limit]
	}
	if cycles == nil {
		cycles = []Cycle{}
	}
	return cycles
}

// canonical rotates a closed cycle so it starts at its smallest module.
func canonical(c Cycle) Cycle {
	open := c[:len(c)-1]
	minAt := 0
	for i, id := range open {
		if id < open[minAt] {
			minAt = i
		}
	}
	out := make(Cycle, 0, len(c))
	out = append(out, open[minAt:]...)
	out = append(out, open[:minAt]...)
	return append(out, out[0])
}

func (c Cycle) key() string {
	parts := make([]string, len(c))
	for i, id := range c {
		parts[i] = string(id)
	}
	return strings.Join(parts, "\x00")
}

func (c Cycle) less(o Cycle) bool {
	if len(c) != len(o) {
		return len(c) < len(o)
	}
	for i := range c {
		if c[i] != o[i] {
			return c[i] < o[i]
		}
	}
	return false
}

// Contains reports whether id is on the cycle.
func (c Cycle) Contains(id ModuleID) bool {
	for _, m := range c {
		if m == id {
			return true
		}
	}
	return false
}
