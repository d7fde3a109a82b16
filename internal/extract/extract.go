// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package extract finds module references and exported symbols in
// JavaScript and TypeScript source text. It scans text, not syntax trees:
// matches inside comments and string literals are skipped, and anything
// that looks like a module load but cannot be read statically is reported
// rather than dropped.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Kind classifies a reference.
type Kind string

const (
	Static   Kind = "static"
	Dynamic  Kind = "dynamic"
	ReExport Kind = "re-export"
)

// Reference is one module reference found in a file.
type Reference struct {
	// Specifier is the literal module string as written, without quotes.
	Specifier string `json:"specifier"`
	Kind      Kind   `json:"kind"`
	Line      int    `json:"line"`

	// Names lists the imported names ("default" for a default import) or,
	// for re-exports, the exported names. "*" stands for a namespace import
	// or a bare `export *`.
	Names []string `json:"names,omitempty"`

	// TypeOnly is set for `import type` and `export type` clauses.
	TypeOnly bool `json:"type_only,omitempty"`

	// Unresolvable marks a dynamic load whose argument is computed.
	// Specifier is empty and Expression holds the argument text.
	Unresolvable bool   `json:"unresolvable,omitempty"`
	Expression   string `json:"expression,omitempty"`
}

const (
	ident = `[A-Za-z_$][\w$]*`
	lit   = `('[^'\n]*'|"[^"\n]*")`
	tlit  = `('[^'\n]*'|"[^"\n]*"|` + "`[^`$]*`" + `)`
)

var (
	// import x from 'm' / import {a, b as c} from 'm' / import * as ns from 'm'
	importFromRe = regexp.MustCompile(`import(\s+type)?(\s+` + ident + `(?:\s*,\s*(?:\{[^}]*\}|\*\s*as\s+` + ident + `))?|\s*\{[^}]*\}|\s*\*\s*as\s+` + ident + `)\s*from\s*` + lit)

	// import 'm'
	importSideEffectRe = regexp.MustCompile(`import\s*` + lit)

	// import x = require('m')
	importEqualsRe = regexp.MustCompile(`import\s+(?:type\s+)?` + ident + `\s*=\s*require\s*\(\s*` + lit + `\s*\)`)

	// require('m')
	requireRe = regexp.MustCompile(`require\s*\(\s*` + tlit + `\s*\)`)

	// import('m') and import('m', { with: ... })
	dynamicImportRe = regexp.MustCompile(`import\s*\(\s*` + tlit + `\s*[,)]`)

	// export * from 'm' / export * as ns from 'm' / export {a, b as c} from 'm'
	exportFromRe = regexp.MustCompile(`export(\s+type)?\s*(\*(?:\s*as\s+` + ident + `)?|\{[^}]*\})\s*from\s*` + lit)

	// Any load call, literal or not.
	loadCallRe = regexp.MustCompile(`(?:import|require)\s*\(`)
)

// maxExpression caps the recorded text of a computed specifier.
const maxExpression = 120

type found struct {
	offset int
	ref    Reference
}

// References returns every module reference in content, ordered by
// position.
func References(content []byte) []Reference {
	src := newSource(content)
	var refs []found
	// Offsets of specifier literals already attributed to a reference.
	literals := make(map[int]bool)

	add := func(start, litStart, litEnd int, ref Reference) {
		if literals[litStart] {
			return
		}
		literals[litStart] = true
		ref.Specifier = unquote(src.text[litStart:litEnd])
		ref.Line = src.line(start)
		refs = append(refs, found{offset: start, ref: ref})
	}

	for _, m := range importFromRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		clause := string(src.text[m[4]:m[5]])
		add(m[0], m[6], m[7], Reference{
			Kind:     Static,
			Names:    importNames(clause),
			TypeOnly: m[2] >= 0,
		})
	}
	for _, m := range exportFromRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		clause := string(src.text[m[4]:m[5]])
		add(m[0], m[6], m[7], Reference{
			Kind:     ReExport,
			Names:    reExportNames(clause),
			TypeOnly: m[2] >= 0,
		})
	}
	for _, m := range importEqualsRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], m[2], m[3], Reference{Kind: Static, Names: []string{"default"}})
		}
	}
	for _, m := range importSideEffectRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], m[2], m[3], Reference{Kind: Static})
		}
	}
	for _, m := range requireRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], m[2], m[3], Reference{Kind: Static})
		}
	}
	for _, m := range dynamicImportRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], m[2], m[3], Reference{Kind: Dynamic})
		}
	}

	// Whatever load call is left has an argument we could not read.
	for _, m := range loadCallRe.FindAllIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		arg := skipSpace(src.text, m[1])
		if literals[arg] {
			continue
		}
		expr := callArgument(src.text, m[1])
		if expr == "" {
			// import() or require() with no argument loads nothing.
			continue
		}
		refs = append(refs, found{offset: m[0], ref: Reference{
			Kind:         Dynamic,
			Line:         src.line(m[0]),
			Unresolvable: true,
			Expression:   expr,
		}})
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].offset < refs[j].offset })
	out := make([]Reference, len(refs))
	for i, f := range refs {
		out[i] = f.ref
	}
	return out
}

// importNames lists the names bound by an import clause, using the
// exporting module's names.
func importNames(clause string) []string {
	clause = strings.TrimSpace(clause)
	var names []string
	if !strings.HasPrefix(clause, "{") && !strings.HasPrefix(clause, "*") {
		names = append(names, "default")
		_, rest, ok := strings.Cut(clause, ",")
		if !ok {
			return names
		}
		clause = strings.TrimSpace(rest)
	}
	if strings.HasPrefix(clause, "*") {
		return append(names, "*")
	}
	for _, spec := range splitList(clause) {
		local, _ := splitAlias(spec)
		names = append(names, local)
	}
	return names
}

// reExportNames lists the names a re-export clause exports. `* as ns`
// exports ns; a bare `*` exports everything and is recorded as "*".
func reExportNames(clause string) []string {
	clause = strings.TrimSpace(clause)
	if rest, ok := strings.CutPrefix(clause, "*"); ok {
		if f := strings.Fields(rest); len(f) == 2 && f[0] == "as" {
			return []string{f[1]}
		}
		return []string{"*"}
	}
	var names []string
	for _, spec := range splitList(clause) {
		_, exported := splitAlias(spec)
		names = append(names, exported)
	}
	return names
}

// splitList returns the trimmed entries of a "{a, type b as c}" list.
func splitList(braced string) []string {
	braced = strings.TrimSpace(braced)
	braced = strings.TrimPrefix(braced, "{")
	braced = strings.TrimSuffix(braced, "}")
	var out []string
	for _, part := range strings.Split(braced, ",") {
		part = strings.Join(strings.Fields(part), " ")
		part = strings.TrimPrefix(part, "type ")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitAlias splits "a as b" into ("a", "b"); a bare name maps to itself.
func splitAlias(spec string) (string, string) {
	if orig, alias, ok := strings.Cut(spec, " as "); ok {
		return strings.TrimSpace(orig), strings.TrimSpace(alias)
	}
	return spec, spec
}

func unquote(b []byte) string {
	if len(b) >= 2 {
		return string(b[1 : len(b)-1])
	}
	return string(b)
}

func skipSpace(text []byte, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

// callArgument returns the whitespace-collapsed text between the opening
// parenthesis ending at start and its matching close.
func callArgument(text []byte, start int) string {
	depth := 1
	end := start
	for end < len(text) && depth > 0 {
		switch text[end] {
		case '(':
			depth++
		case ')':
			depth--
		}
		end++
	}
	if depth == 0 {
		end--
	}
	arg := strings.Join(strings.Fields(string(text[start:end])), " ")
	if len(arg) > maxExpression {
		arg = arg[:maxExpression] + "…"
	}
	return arg
}

// StripReExports returns a copy of content with every re-export clause
// (`export ... from 'm'`) blanked, keeping newlines. Names that remain are
// mentioned somewhere other than a barrel clause.
func StripReExports(content []byte) []byte {
	src := newSource(content)
	out := make([]byte, len(content))
	copy(out, content)
	for _, m := range exportFromRe.FindAllIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		for i := m[0]; i < m[1]; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}
