package syntax

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlank_CommentsAndStrings(t *testing.T) {
	src := "// helper in comment\nconst a = 'helper';\n/* helper */ use(helper);\n"
	out, err := Blank(context.Background(), "a.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, out, len(src))

	lines := strings.Split(string(out), "\n")
	assert.NotContains(t, lines[0], "helper")
	assert.NotContains(t, lines[1], "helper")
	assert.Contains(t, lines[1], "const a =")
	assert.Equal(t, 1, strings.Count(lines[2], "helper"))
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(string(out), "\n"))
}

func TestBlank_TemplateSubstitutionKept(t *testing.T) {
	src := "const s = `helper ${helper()} done`;\n"
	out, err := Blank(context.Background(), "a.js", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), "helper"))
	assert.Contains(t, string(out), "${helper()}")
}

func TestBlank_TSX(t *testing.T) {
	src := "export const View = () => <div title=\"helper\">{helper}</div>;\n"
	out, err := Blank(context.Background(), "view.tsx", []byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), "{helper}")
}

func TestBlank_Unsupported(t *testing.T) {
	_, err := Blank(context.Background(), "notes.md", []byte("# hi"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestBlank_SyntaxError(t *testing.T) {
	_, err := Blank(context.Background(), "bad.ts", []byte("export const = = ;\n"))
	assert.ErrorIs(t, err, ErrSyntax)
}
