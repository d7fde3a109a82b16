// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package deadexport finds exported symbols that no other module mentions.
//
// Usage is a textual, whole-project search for the symbol name at
// identifier boundaries. It is not scoped by graph edges, because a symbol
// reached through a re-export barrel is imported from the barrel, not from
// its declaring module. Mentions in comments and strings count as usage
// unless the analyzer is syntax-aware, which errs toward reporting less.
package deadexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davetashner/modgraph/internal/collect"
	"github.com/davetashner/modgraph/internal/extract"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/syntax"
)

// Confidence grades a dead-export finding.
type Confidence string

const (
	// High means nothing outside the declaring file mentions the symbol.
	High Confidence = "high"

	// Medium means nothing uses the symbol, but the file is an entry point
	// or test, or the symbol is only re-exported by barrels whose own
	// consumers were not checked.
	Medium Confidence = "medium"
)

// DeadExport is one unused exported symbol.
type DeadExport struct {
	Module     graph.ModuleID     `json:"module"`
	Path       string             `json:"path"`
	Symbol     string             `json:"symbol"`
	Kind       extract.ExportKind `json:"kind"`
	Line       int                `json:"line"`
	Confidence Confidence         `json:"confidence"`
	Reason     string             `json:"reason"`
}

// regexCacheSize bounds the compiled-pattern cache.
const regexCacheSize = 4096

// Analyzer classifies exported symbols. Use a pointer; the zero value is
// ready to use. An Analyzer is safe for concurrent use and keeps its
// compiled patterns between calls.
type Analyzer struct {
	// EntryPatterns are doublestar patterns for entry-point files, matched
	// in addition to the built-in conventions.
	EntryPatterns []string

	// SyntaxAware ignores mentions inside comments and string literals.
	SyntaxAware bool

	once  sync.Once
	cache *lru.Cache[string, *regexp.Regexp]
}

func (a *Analyzer) pattern(name string) *regexp.Regexp {
	a.once.Do(func() {
		// Only fails for a non-positive size.
		a.cache, _ = lru.New[string, *regexp.Regexp](regexCacheSize)
	})
	if re, ok := a.cache.Get(name); ok {
		return re
	}
	re := regexp.MustCompile(`(?:^|[^\w$])` + regexp.QuoteMeta(name) + `(?:[^\w$]|$)`)
	a.cache.Add(name, re)
	return re
}

// usageText holds the text searched for one module.
type usageText struct {
	full []byte
	// withoutReExports has re-export clauses blanked.
	withoutReExports []byte
}

// Find returns the dead exports of every module in exports, sorted by path,
// line and symbol. texts holds each module's source; modules missing from
// texts (unreadable files) are neither analyzed as users nor reported, and
// while any graph module lacks a text no finding is graded High.
func (a *Analyzer) Find(ctx context.Context, g *graph.Graph, exports graph.SymbolTable, texts map[graph.ModuleID][]byte) ([]DeadExport, error) {
	usage := make(map[graph.ModuleID]usageText, len(texts))
	for id, content := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := content
		if a.SyntaxAware {
			blanked, err := syntax.Blank(ctx, string(id), content)
			switch {
			case err == nil:
				text = blanked
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil, err
			default:
				slog.Debug("syntax-aware scan unavailable, using raw text", "module", g.Path(id), "error", err)
			}
		}
		usage[id] = usageText{full: text, withoutReExports: extract.StripReExports(text)}
	}
	others := make([]graph.ModuleID, 0, len(usage))
	for id := range usage {
		others = append(others, id)
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
	unread := 0
	for _, id := range g.IDs() {
		if _, ok := texts[id]; !ok {
			unread++
		}
	}

	var dead []DeadExport
	for _, id := range sortedModules(exports) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := texts[id]; !ok {
			continue
		}
		relPath := g.Path(id)
		entry := a.isEntry(relPath)
		node, _ := g.Node(id)

		for _, sym := range exports[id] {
			d, ok := a.classify(g, id, node, sym, entry, others, usage)
			if !ok {
				continue
			}
			d.Module, d.Path, d.Symbol, d.Kind, d.Line = id, relPath, sym.Name, sym.Kind, sym.Line
			if d.Confidence == High && unread > 0 {
				d.Confidence = Medium
				d.Reason += fmt.Sprintf("; %d unreadable files were not searched", unread)
			}
			dead = append(dead, d)
		}
	}

	sort.SliceStable(dead, func(i, j int) bool {
		if dead[i].Path != dead[j].Path {
			return dead[i].Path < dead[j].Path
		}
		if dead[i].Line != dead[j].Line {
			return dead[i].Line < dead[j].Line
		}
		return dead[i].Symbol < dead[j].Symbol
	})
	if dead == nil {
		dead = []DeadExport{}
	}
	return dead, nil
}

// classify returns a finding with Confidence and Reason set, or false when
// the symbol is used or not analysed.
func (a *Analyzer) classify(g *graph.Graph, id graph.ModuleID, node *graph.ModuleNode, sym extract.ExportedSymbol,
	entry string, others []graph.ModuleID, usage map[graph.ModuleID]usageText) (DeadExport, bool) {
	if sym.Name == "*" {
		return DeadExport{}, false
	}

	if sym.Kind == extract.Default && sym.Name == "default" {
		if node != nil && node.FanIn() > 0 {
			return DeadExport{}, false
		}
		return grade(entry, nil, "no module imports this file")
	}

	skip := map[graph.ModuleID]bool{id: true}
	if sym.Kind == extract.ReExportSymbol {
		for _, e := range g.EdgesFrom(id) {
			if e.Specifier == sym.Source {
				skip[e.To] = true
			}
		}
	}

	re := a.pattern(sym.Name)
	name := []byte(sym.Name)
	var barrels []string
	for _, other := range others {
		if skip[other] {
			continue
		}
		text := usage[other]
		if !bytes.Contains(text.full, name) || !re.Match(text.full) {
			continue
		}
		if re.Match(text.withoutReExports) {
			return DeadExport{}, false
		}
		barrels = append(barrels, g.Path(other))
	}
	// A default export with a declared name is also imported under any
	// local name, so an importer keeps it alive.
	if sym.Kind == extract.Default && node != nil && node.FanIn() > 0 {
		return DeadExport{}, false
	}
	return grade(entry, barrels, "no other module mentions "+sym.Name)
}

func grade(entry string, barrels []string, reason string) (DeadExport, bool) {
	switch {
	case len(barrels) > 0:
		return DeadExport{
			Confidence: Medium,
			Reason:     fmt.Sprintf("only re-exported by %s; its consumers were not checked", strings.Join(barrels, ", ")),
		}, true
	case entry != "":
		return DeadExport{Confidence: Medium, Reason: reason + "; " + entry}, true
	}
	return DeadExport{Confidence: High, Reason: reason}, true
}

func sortedModules(t graph.SymbolTable) []graph.ModuleID {
	ids := make([]graph.ModuleID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// entryNames are file stems treated as entry points at the root or in
// src/, app/ or bin/.
var entryNames = map[string]bool{
	"index": true, "main": true, "app": true, "server": true, "cli": true,
}

// isEntry returns why relPath is an entry point or test file, or "".
func (a *Analyzer) isEntry(relPath string) string {
	if collect.MatchAny(a.EntryPatterns, relPath) {
		return "file matches an entry-point pattern"
	}
	if IsTestFile(relPath) {
		return "test file"
	}

	base := path.Base(relPath)
	stem := base
	if i := strings.IndexByte(base, '.'); i > 0 {
		stem = base[:i]
	}
	dir := path.Dir(relPath)
	if entryNames[stem] && (dir == "." || dir == "src" || dir == "app" || dir == "bin") {
		return "entry-point file"
	}
	if strings.HasPrefix(relPath, "bin/") {
		return "entry-point file"
	}
	if strings.Contains(base, ".config.") || strings.HasPrefix(base, ".") {
		return "tool configuration file"
	}
	return ""
}

// IsTestFile reports whether a slash-separated path follows a JavaScript or
// TypeScript test naming convention.
func IsTestFile(relPath string) bool {
	base := path.Base(relPath)
	for _, marker := range []string{".test.", ".spec.", ".stories.", ".e2e."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	for _, seg := range strings.Split(path.Dir(relPath), "/") {
		switch seg {
		case "__tests__", "__mocks__", "test", "tests", "e2e", "cypress":
			return true
		}
	}
	return false
}
