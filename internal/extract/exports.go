package extract

import (
	"regexp"
	"sort"
	"strings"
)

// ExportKind classifies an exported symbol.
type ExportKind string

const (
	Named          ExportKind = "named"
	Default        ExportKind = "default"
	ReExportSymbol ExportKind = "re-export"
)

// ExportedSymbol is a name a module exports.
type ExportedSymbol struct {
	Name string     `json:"name"`
	Kind ExportKind `json:"kind"`
	Line int        `json:"line"`

	// Source is the specifier a re-export reads from.
	Source string `json:"source,omitempty"`
}

var (
	// export [declare] [async] [abstract] const|function|class|... NAME
	exportDeclRe = regexp.MustCompile(`export\s+(?:declare\s+)?(?:async\s+)?(?:abstract\s+)?(?:const\s+enum|enum|const|let|var|function\s*\*?|class|interface|type|namespace|module)\s*(` + ident + `)`)

	// export const {a, b: c} = ... / export const [a, b] = ...
	exportDestructRe = regexp.MustCompile(`export\s+(?:const|let|var)\s*(\{[^}]*\}|\[[^\]]*\])\s*=`)

	// export default [async] function NAME / export default class NAME / export default expr
	exportDefaultRe = regexp.MustCompile(`export\s+default\b(?:\s+(?:async\s+)?(?:abstract\s+)?(?:function\s*\*?|class)\s*(` + ident + `)?)?`)

	// export {a, b as c} with or without a trailing from clause
	exportListRe = regexp.MustCompile(`export(\s+type)?\s*(\{[^}]*\})(\s*from\s*` + lit + `)?`)

	// export * from 'm' / export * as ns from 'm'
	exportStarRe = regexp.MustCompile(`export\s*\*\s*(?:as\s+(` + ident + `)\s*)?from\s*` + lit)

	// exports.foo = / module.exports.foo =
	commonJSNamedRe = regexp.MustCompile(`(?:module\.)?exports\.(` + ident + `)\s*=[^=]`)

	// module.exports = / export =
	commonJSDefaultRe = regexp.MustCompile(`(?:module\.exports|export)\s*=[^=>]`)
)

// Exports returns the symbols content exports, ordered by line then name.
func Exports(content []byte) []ExportedSymbol {
	src := newSource(content)
	var out []ExportedSymbol
	seen := make(map[ExportedSymbol]bool)
	add := func(offset int, sym ExportedSymbol) {
		sym.Line = src.line(offset)
		if sym.Name == "" || seen[sym] {
			return
		}
		seen[sym] = true
		out = append(out, sym)
	}

	for _, m := range exportDeclRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], ExportedSymbol{Name: string(src.text[m[2]:m[3]]), Kind: Named})
		}
	}
	for _, m := range exportDestructRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		for _, name := range bindingNames(string(src.text[m[2]:m[3]])) {
			add(m[0], ExportedSymbol{Name: name, Kind: Named})
		}
	}
	for _, m := range exportDefaultRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		name := "default"
		if m[2] >= 0 {
			if n := string(src.text[m[2]:m[3]]); n != "extends" && n != "implements" {
				name = n
			}
		}
		add(m[0], ExportedSymbol{Name: name, Kind: Default})
	}
	for _, m := range exportListRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		source := ""
		if m[8] >= 0 {
			source = unquote(src.text[m[8]:m[9]])
		}
		for _, spec := range splitList(string(src.text[m[4]:m[5]])) {
			_, exported := splitAlias(spec)
			sym := ExportedSymbol{Name: exported, Kind: Named}
			switch {
			case m[6] >= 0:
				sym.Kind = ReExportSymbol
				sym.Source = source
			case exported == "default":
				sym.Kind = Default
			}
			add(m[0], sym)
		}
	}
	for _, m := range exportStarRe.FindAllSubmatchIndex(src.text, -1) {
		if !src.inCode(m[0]) {
			continue
		}
		name := "*"
		if m[2] >= 0 {
			name = string(src.text[m[2]:m[3]])
		}
		add(m[0], ExportedSymbol{Name: name, Kind: ReExportSymbol, Source: unquote(src.text[m[4]:m[5]])})
	}
	for _, m := range commonJSNamedRe.FindAllSubmatchIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], ExportedSymbol{Name: string(src.text[m[2]:m[3]]), Kind: Named})
		}
	}
	for _, m := range commonJSDefaultRe.FindAllIndex(src.text, -1) {
		if src.inCode(m[0]) {
			add(m[0], ExportedSymbol{Name: "default", Kind: Default})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// bindingNames returns the local names bound by a destructuring pattern.
func bindingNames(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	pattern = strings.Trim(pattern, "{}[]")
	var names []string
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "...")
		if before, _, ok := strings.Cut(part, "="); ok {
			part = strings.TrimSpace(before)
		}
		if _, after, ok := strings.Cut(part, ":"); ok {
			part = strings.TrimSpace(after)
		}
		if isIdent(part) {
			names = append(names, part)
		}
	}
	return names
}

func isIdent(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
