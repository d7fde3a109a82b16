// Package syntax uses tree-sitter grammars to locate comments and string
// literals in JavaScript and TypeScript sources.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	tsgrammar "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupported is returned for files no grammar covers.
var ErrUnsupported = errors.New("no grammar for file")

// ErrSyntax is returned when a file does not parse cleanly.
var ErrSyntax = errors.New("syntax errors in file")

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return tsgrammar.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		// The JavaScript grammar accepts JSX.
		return javascript.GetLanguage()
	}
	return nil
}

// Blank returns a copy of content with every comment, string literal,
// template literal text and regular expression replaced by spaces.
// Newlines and template substitutions are kept, so offsets and line
// numbers still match. Files with parse errors return ErrSyntax and the
// caller should fall back to the raw text.
func Blank(ctx context.Context, path string, content []byte) ([]byte, error) {
	lang := languageFor(path)
	if lang == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	psr := sitter.NewParser()
	psr.SetLanguage(lang)

	tree, err := psr.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w", path, ErrSyntax)
	}

	out := make([]byte, len(content))
	copy(out, content)
	b := &blanker{src: content, out: out}
	b.visit(root)
	return out, nil
}

type blanker struct {
	src []byte
	out []byte
}

func (b *blanker) visit(n *sitter.Node) {
	switch n.Type() {
	case "comment", "string", "regex", "html_comment":
		b.blank(n)
		return
	case "template_string":
		b.blank(n)
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == "template_substitution" {
				b.restore(child)
				b.visit(child)
			}
		}
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		b.visit(n.Child(i))
	}
}

func (b *blanker) blank(n *sitter.Node) {
	for i := n.StartByte(); i < n.EndByte() && int(i) < len(b.out); i++ {
		if b.out[i] != '\n' {
			b.out[i] = ' '
		}
	}
}

func (b *blanker) restore(n *sitter.Node) {
	copy(b.out[n.StartByte():n.EndByte()], b.src[n.StartByte():n.EndByte()])
}
