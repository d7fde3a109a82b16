// Package snapshot persists the shape of a module graph between runs and
// reports how the graph drifted since the last saved snapshot.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/testable"
)

// Dir is the directory inside the scan root where snapshots are kept.
const Dir = ".modgraph"

// fileName is the snapshot file inside Dir.
const fileName = "last-graph.json"

// schemaVersion is the current snapshot schema version.
const schemaVersion = "1"

// ErrVersion is returned when a snapshot was written by an incompatible
// schema.
var ErrVersion = errors.New("unsupported snapshot version")

// Edge is one graph edge by root-relative paths.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Specifier string `json:"specifier"`
	Line      int    `json:"line,omitempty"`
}

// Snapshot is the persisted shape of one build.
type Snapshot struct {
	Version   string     `json:"version"`
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	GitHead   string     `json:"git_head,omitempty"`
	Modules   []string   `json:"modules"`
	Edges     []Edge     `json:"edges"`
	Cycles    [][]string `json:"cycles"`
}

// Store reads and writes snapshots. The zero value uses the real
// filesystem and git.
type Store struct {
	FS  testable.FileSystem
	Git testable.GitOpener
}

// Path returns the snapshot file for a scan root.
func Path(root string) string {
	return filepath.Join(root, Dir, fileName)
}

// Load reads the snapshot saved under root. It returns (nil, nil) when none
// exists.
func (s Store) Load(root string) (*Snapshot, error) {
	data, err := testable.OrDefault(s.FS).ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	if snap.Version != schemaVersion {
		return nil, fmt.Errorf("%w %q", ErrVersion, snap.Version)
	}
	return &snap, nil
}

// Save writes snap under root, creating the snapshot directory.
func (s Store) Save(root string, snap *Snapshot) error {
	fsys := testable.OrDefault(s.FS)
	dir := filepath.Join(root, Dir)
	if err := fsys.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Take captures g as a new snapshot. root locates the git repository whose
// HEAD is recorded; outside a repository GitHead stays empty.
func (s Store) Take(root string, g *graph.Graph) *Snapshot {
	snap := &Snapshot{
		Version:   schemaVersion,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		GitHead:   s.resolveHead(root),
		Modules:   make([]string, 0, g.Len()),
		Edges:     make([]Edge, 0, len(g.Edges)),
		Cycles:    [][]string{},
	}
	for _, n := range g.Nodes {
		snap.Modules = append(snap.Modules, n.Path)
	}
	sort.Strings(snap.Modules)
	for _, e := range g.Edges {
		snap.Edges = append(snap.Edges, Edge{From: g.Path(e.From), To: g.Path(e.To), Specifier: e.Specifier, Line: e.Line})
	}
	for _, c := range g.Cycles(graph.CycleOptions{}) {
		paths := make([]string, len(c))
		for i, id := range c {
			paths[i] = g.Path(id)
		}
		snap.Cycles = append(snap.Cycles, paths)
	}
	return snap
}

func (s Store) resolveHead(root string) string {
	opener := s.Git
	if opener == nil {
		opener = testable.DefaultGitOpener
	}
	repo, err := opener.PlainOpen(root)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
