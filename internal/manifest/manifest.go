// Package manifest compares the packages a project declares in package.json
// with the external packages its modules actually reference.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/davetashner/modgraph/internal/testable"
)

// FileName is the manifest read from the scan root.
const FileName = "package.json"

// ErrNoManifest is returned when the scan root has no package.json.
var ErrNoManifest = errors.New("no package.json in scan root")

// Section is a dependency block of package.json.
type Section string

const (
	Dependencies         Section = "dependencies"
	DevDependencies      Section = "devDependencies"
	PeerDependencies     Section = "peerDependencies"
	OptionalDependencies Section = "optionalDependencies"
)

// Manifest holds the declared packages by section.
type Manifest struct {
	Name     string                        `json:"name,omitempty"`
	Declared map[Section]map[string]string `json:"declared"`

	// Internal names packages of the same monorepo. Referencing one is
	// never reported as undeclared.
	Internal []string `json:"internal,omitempty"`
}

// Package is one declared or referenced package in a report.
type Package struct {
	Name       string  `json:"name"`
	Section    Section `json:"section,omitempty"`
	References int     `json:"references,omitempty"`
}

// Report lists the mismatches between a manifest and the graph.
type Report struct {
	// Unused are runtime dependencies no module references.
	Unused []Package `json:"unused"`

	// Undeclared are referenced packages missing from every section.
	Undeclared []Package `json:"undeclared"`

	// DevOnly are dev dependencies that runtime code references. Test
	// files are not told apart here, so this is informational.
	DevOnly []Package `json:"dev_only"`
}

// Clean reports whether the manifest and the references agree.
func (r *Report) Clean() bool {
	return len(r.Unused) == 0 && len(r.Undeclared) == 0
}

// Load reads package.json from root.
func Load(fsys testable.FileSystem, root string) (*Manifest, error) {
	data, err := testable.OrDefault(fsys).ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoManifest
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes package.json content.
func Parse(data []byte) (*Manifest, error) {
	var raw struct {
		Name                 string            `json:"name"`
		Dependencies         map[string]string `json:"dependencies"`
		DevDependencies      map[string]string `json:"devDependencies"`
		PeerDependencies     map[string]string `json:"peerDependencies"`
		OptionalDependencies map[string]string `json:"optionalDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	m := &Manifest{Name: raw.Name, Declared: map[Section]map[string]string{}}
	for s, deps := range map[Section]map[string]string{
		Dependencies:         raw.Dependencies,
		DevDependencies:      raw.DevDependencies,
		PeerDependencies:     raw.PeerDependencies,
		OptionalDependencies: raw.OptionalDependencies,
	} {
		if len(deps) > 0 {
			m.Declared[s] = deps
		}
	}
	return m, nil
}

// sectionOf returns the first section declaring name, runtime sections
// first.
func (m *Manifest) sectionOf(name string) (Section, bool) {
	for _, s := range []Section{Dependencies, PeerDependencies, OptionalDependencies, DevDependencies} {
		if _, ok := m.Declared[s][name]; ok {
			return s, true
		}
	}
	return "", false
}

// Check compares the manifest with external reference counts keyed by
// package name, as produced by a graph build. Node builtins, the project's
// own name and its internal packages are never reported.
func Check(m *Manifest, external map[string]int) *Report {
	r := &Report{Unused: []Package{}, Undeclared: []Package{}, DevOnly: []Package{}}

	for name, n := range external {
		if IsBuiltin(name) || name == m.Name || slices.Contains(m.Internal, name) {
			continue
		}
		s, ok := m.sectionOf(name)
		switch {
		case !ok:
			r.Undeclared = append(r.Undeclared, Package{Name: name, References: n})
		case s == DevDependencies:
			r.DevOnly = append(r.DevOnly, Package{Name: name, Section: s, References: n})
		}
	}

	for _, s := range []Section{Dependencies, OptionalDependencies} {
		for name := range m.Declared[s] {
			if external[name] > 0 || typesOnly(name, external) {
				continue
			}
			r.Unused = append(r.Unused, Package{Name: name, Section: s})
		}
	}

	for _, list := range [][]Package{r.Unused, r.Undeclared, r.DevOnly} {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return r
}

// typesOnly reports whether name is a @types package for a referenced
// package.
func typesOnly(name string, external map[string]int) bool {
	rest, ok := strings.CutPrefix(name, "@types/")
	if !ok {
		return false
	}
	// @types/scope__pkg types @scope/pkg.
	if scope, pkg, ok := strings.Cut(rest, "__"); ok {
		rest = "@" + scope + "/" + pkg
	}
	return external[rest] > 0
}

var builtins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// IsBuiltin reports whether a package name is a Node.js core module.
func IsBuiltin(name string) bool {
	if strings.HasPrefix(name, "node:") || strings.HasPrefix(name, "bun:") {
		return true
	}
	return builtins[name]
}
