package graph

import (
	"fmt"
	"sort"
)

// Metric selects the adjacency a hotspot query counts.
type Metric string

const (
	// FanIn counts dependents.
	FanIn Metric = "fan-in"

	// FanOut counts dependencies.
	FanOut Metric = "fan-out"
)

// ParseMetric accepts "fan-in", "in", "fan-out" or "out".
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "fan-in", "in", "fanin":
		return FanIn, nil
	case "fan-out", "out", "fanout":
		return FanOut, nil
	}
	return "", fmt.Errorf("unknown metric %q (want fan-in or fan-out)", s)
}

// Hotspot is one module with its count for a metric.
type Hotspot struct {
	ID    ModuleID `json:"id"`
	Path  string   `json:"path"`
	Count int      `json:"count"`
}

func (n *ModuleNode) count(m Metric) int {
	if m == FanIn {
		return n.FanIn()
	}
	return n.FanOut()
}

// ranked returns every module ordered by count, highest first, ties by path.
func (g *Graph) ranked(m Metric) []Hotspot {
	out := make([]Hotspot, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = Hotspot{ID: n.ID, Path: n.Path, Count: n.count(m)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Rank returns the topN modules by metric (topN <= 0 returns all).
func (g *Graph) Rank(m Metric, topN int) []Hotspot {
	out := g.ranked(m)
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// OverThreshold returns every module whose count strictly exceeds
// threshold, in rank order.
func (g *Graph) OverThreshold(m Metric, threshold int) []Hotspot {
	out := []Hotspot{}
	for _, h := range g.ranked(m) {
		if h.Count <= threshold {
			break
		}
		out = append(out, h)
	}
	return out
}
