// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package resolve maps module specifiers to collected files.
package resolve

import (
	"path"
	"strings"
)

// Kind is the outcome of resolving one specifier.
type Kind string

const (
	// Internal means the specifier resolved to a collected file.
	Internal Kind = "internal"

	// External means the specifier names a package outside the tree.
	External Kind = "external"

	// Unresolved means the specifier is relative but no collected file
	// matched. This usually points at a broken reference.
	Unresolved Kind = "unresolved"
)

// Resolution is the result of Resolve.
type Resolution struct {
	Kind Kind `json:"kind"`

	// ID is the matched file when Kind is Internal.
	ID string `json:"id,omitempty"`

	// Candidates lists every path probed, in order, when Kind is Unresolved.
	Candidates []string `json:"candidates,omitempty"`
}

// tsSwaps maps a JavaScript extension in a specifier to the TypeScript
// sources that compile to it.
var tsSwaps = map[string][]string{
	".js":  {".ts", ".tsx"},
	".jsx": {".tsx"},
	".mjs": {".mts"},
	".cjs": {".cts"},
}

// Resolver resolves specifiers against a fixed set of known files. Paths
// are slash-separated and absolute. A Resolver is safe for concurrent use.
type Resolver struct {
	extensions []string
	known      map[string]bool
}

// New returns a resolver that tries extensions in the given priority order.
// known holds the canonical IDs of every collected file and is not copied;
// callers must not modify it afterwards.
func New(extensions []string, known map[string]bool) *Resolver {
	return &Resolver{extensions: extensions, known: known}
}

// IsRelative reports whether a specifier is a relative path.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// Resolve classifies specifier as written in the file fromFile.
func (r *Resolver) Resolve(specifier, fromFile string) Resolution {
	if !IsRelative(specifier) {
		return Resolution{Kind: External}
	}
	candidate := path.Join(path.Dir(fromFile), specifier)
	id, probed := r.Probe(candidate)
	if id != "" {
		return Resolution{Kind: Internal, ID: id}
	}
	return Resolution{Kind: Unresolved, Candidates: probed}
}

// Probe tries candidate as an exact file, with each extension appended,
// with a JavaScript extension swapped for its TypeScript sources, and as a
// directory holding an index file. It returns the first known match, or ""
// and every path tried.
func (r *Resolver) Probe(candidate string) (string, []string) {
	probed := make([]string, 0, 2*len(r.extensions)+3)
	try := func(p string) bool {
		probed = append(probed, p)
		return r.known[p]
	}

	if try(candidate) {
		return candidate, nil
	}
	for _, ext := range r.extensions {
		if p := candidate + ext; try(p) {
			return p, nil
		}
	}
	if swaps, ok := tsSwaps[path.Ext(candidate)]; ok {
		base := strings.TrimSuffix(candidate, path.Ext(candidate))
		for _, ext := range r.extensions {
			if !contains(swaps, ext) {
				continue
			}
			if p := base + ext; try(p) {
				return p, nil
			}
		}
	}
	for _, ext := range r.extensions {
		if p := candidate + "/index" + ext; try(p) {
			return p, nil
		}
	}
	return "", probed
}

// PackageName returns the package an external specifier refers to:
// "@scope/pkg" for scoped specifiers, otherwise the first path segment.
// A "node:" prefix is kept.
func PackageName(specifier string) string {
	parts := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
