package graph

import "sort"

// Components returns the strongly connected components that contain a
// cycle: those with two or more modules, plus single modules that
// reference themselves. Each component is sorted, and components are
// ordered by their first module.
func (g *Graph) Components() [][]ModuleID {
	index := 0
	var stack []ModuleID
	onStack := map[ModuleID]bool{}
	indices := map[ModuleID]int{}
	lowlinks := map[ModuleID]int{}
	comps := [][]ModuleID{}

	var strongConnect func(v *ModuleNode)
	strongConnect = func(v *ModuleNode) {
		indices[v.ID] = index
		lowlinks[v.ID] = index
		index++
		stack = append(stack, v.ID)
		onStack[v.ID] = true

		selfEdge := false
		for _, w := range v.Out {
			if w == v.ID {
				selfEdge = true
			}
			if _, visited := indices[w]; !visited {
				strongConnect(g.index[w])
				lowlinks[v.ID] = min(lowlinks[v.ID], lowlinks[w])
			} else if onStack[w] {
				lowlinks[v.ID] = min(lowlinks[v.ID], indices[w])
			}
		}

		// Root of an SCC.
		if lowlinks[v.ID] == indices[v.ID] {
			var comp []ModuleID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v.ID {
					break
				}
			}
			if len(comp) >= 2 || selfEdge {
				sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
				comps = append(comps, comp)
			}
		}
	}

	for _, n := range g.Nodes {
		if _, visited := indices[n.ID]; !visited {
			strongConnect(n)
		}
	}

	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}
