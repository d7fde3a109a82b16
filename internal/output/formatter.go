// Package output renders query results in the formats the CLI offers:
// colored text tables, JSON, and Mermaid or Graphviz diagrams.
package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Formatter writes a report to w in one format.
type Formatter interface {
	// Name returns the format name (e.g. "text", "json", "dot").
	Name() string

	// Format writes r to w.
	Format(r *Report, w io.Writer) error
}

// ErrNoGraph is returned by diagram formats for reports without a graph.
var ErrNoGraph = errors.New("format needs a graph to draw")

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

func init() {
	RegisterFormatter(NewTextFormatter())
	RegisterFormatter(NewJSONFormatter())
	RegisterFormatter(NewMermaidFormatter())
	RegisterFormatter(NewDOTFormatter())
}

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, formatNames())
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatNames must be called with fmtMu held.
func formatNames() string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
