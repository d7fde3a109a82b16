package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davetashner/modgraph/internal/extract"
)

// ErrSeedNotFound is wrapped by SeedNotFoundError.
var ErrSeedNotFound = errors.New("seed not found")

// SeedNotFoundError is returned by a query whose seed module or symbol is
// not in the graph. The graph itself is still valid.
type SeedNotFoundError struct {
	Seed string
}

func (e *SeedNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrSeedNotFound, e.Seed)
}

func (e *SeedNotFoundError) Unwrap() error { return ErrSeedNotFound }

// FileError records a file that stayed unread after all retries. The file
// is still a node, but its references are missing from the graph.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// MarshalJSON renders the wrapped error as its message.
func (e *FileError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{e.Path, e.Op, e.Err.Error()})
}

// UnresolvedRef is a relative reference that matched no collected file.
type UnresolvedRef struct {
	From       ModuleID     `json:"from"`
	Path       string       `json:"path"`
	Specifier  string       `json:"specifier"`
	Kind       extract.Kind `json:"kind"`
	Line       int          `json:"line"`
	Candidates []string     `json:"candidates,omitempty"`
}

func (r UnresolvedRef) Error() string {
	return fmt.Sprintf("%s:%d: cannot resolve %q", r.Path, r.Line, r.Specifier)
}

// UnresolvableRef is a dynamic load whose specifier is computed at run time.
type UnresolvableRef struct {
	From       ModuleID `json:"from"`
	Path       string   `json:"path"`
	Line       int      `json:"line"`
	Expression string   `json:"expression"`
}

// Diagnostics collects everything that kept a build from being complete.
// It is reported next to the graph, never instead of it.
type Diagnostics struct {
	FileErrors   []*FileError      `json:"file_errors,omitempty"`
	Unresolved   []UnresolvedRef   `json:"unresolved,omitempty"`
	Unresolvable []UnresolvableRef `json:"unresolvable,omitempty"`
	WalkErrors   []string          `json:"walk_errors,omitempty"`
	Truncated    bool              `json:"truncated,omitempty"`
}

// Clean reports whether the build saw no problems at all.
func (d Diagnostics) Clean() bool {
	return len(d.FileErrors) == 0 && len(d.Unresolved) == 0 &&
		len(d.Unresolvable) == 0 && len(d.WalkErrors) == 0 && !d.Truncated
}

// Summary returns a one-line count of each problem class, or "clean".
func (d Diagnostics) Summary() string {
	if d.Clean() {
		return "clean"
	}
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(len(d.FileErrors), "unreadable files")
	add(len(d.Unresolved), "unresolved references")
	add(len(d.Unresolvable), "computed dynamic references")
	add(len(d.WalkErrors), "unreadable directories")
	if d.Truncated {
		parts = append(parts, "file limit reached")
	}
	return strings.Join(parts, ", ")
}
