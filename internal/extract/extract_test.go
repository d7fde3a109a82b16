package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specs(refs []Reference) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Specifier)
	}
	return out
}

func TestReferences_StaticShapes(t *testing.T) {
	src := `import def from './default';
import { a, b as c } from "./named";
import * as ns from './ns';
import type { T } from './types';
import './side-effect';
import fs = require('./legacy');
const x = require('./cjs');
import React, { useState } from 'react';
`
	refs := References([]byte(src))
	require.Len(t, refs, 8)
	assert.Equal(t, []string{"./default", "./named", "./ns", "./types", "./side-effect", "./legacy", "./cjs", "react"}, specs(refs))
	for i, r := range refs {
		assert.Equal(t, Static, r.Kind, r.Specifier)
		assert.Equal(t, i+1, r.Line, r.Specifier)
	}
	assert.Equal(t, []string{"default"}, refs[0].Names)
	assert.Equal(t, []string{"a", "b"}, refs[1].Names)
	assert.Equal(t, []string{"*"}, refs[2].Names)
	assert.True(t, refs[3].TypeOnly)
	assert.Equal(t, []string{"T"}, refs[3].Names)
	assert.Empty(t, refs[4].Names)
	assert.Equal(t, []string{"default", "useState"}, refs[7].Names)
}

func TestReferences_MultiLineImport(t *testing.T) {
	src := `import {
  alpha,
  beta as gamma,
} from './multi';
`
	refs := References([]byte(src))
	require.Len(t, refs, 1)
	assert.Equal(t, "./multi", refs[0].Specifier)
	assert.Equal(t, 1, refs[0].Line)
	assert.Equal(t, []string{"alpha", "beta"}, refs[0].Names)
}

func TestReferences_Dynamic(t *testing.T) {
	src := "const a = import('./lazy');\n" +
		"const b = import(`./tpl`);\n" +
		"const c = import('./opts', { with: { type: 'json' } });\n" +
		"const d = import('./locale/' + lang);\n" +
		"const e = require(name);\n"
	refs := References([]byte(src))
	require.Len(t, refs, 5)

	assert.Equal(t, Reference{Specifier: "./lazy", Kind: Dynamic, Line: 1}, refs[0])
	assert.Equal(t, Reference{Specifier: "./tpl", Kind: Dynamic, Line: 2}, refs[1])
	assert.Equal(t, "./opts", refs[2].Specifier)

	assert.True(t, refs[3].Unresolvable)
	assert.Equal(t, Dynamic, refs[3].Kind)
	assert.Equal(t, "'./locale/' + lang", refs[3].Expression)
	assert.Empty(t, refs[3].Specifier)
	assert.Equal(t, 4, refs[3].Line)

	assert.True(t, refs[4].Unresolvable)
	assert.Equal(t, "name", refs[4].Expression)
}

func TestReferences_TemplateWithSubstitutionIsUnresolvable(t *testing.T) {
	refs := References([]byte("load(import(`./pages/${page}`));\n"))
	require.Len(t, refs, 1)
	assert.True(t, refs[0].Unresolvable)
	assert.Equal(t, "`./pages/${page}`", refs[0].Expression)
}

func TestReferences_ReExports(t *testing.T) {
	src := `export * from './all';
export * as utils from './utils';
export { a, b as c } from './named';
export type { T } from './types';
`
	refs := References([]byte(src))
	require.Len(t, refs, 4)
	for _, r := range refs {
		assert.Equal(t, ReExport, r.Kind)
	}
	assert.Equal(t, []string{"*"}, refs[0].Names)
	assert.Equal(t, []string{"utils"}, refs[1].Names)
	assert.Equal(t, []string{"a", "c"}, refs[2].Names)
	assert.True(t, refs[3].TypeOnly)
}

func TestReferences_SkipsCommentsAndStrings(t *testing.T) {
	src := `// import a from './commented';
/* import b from './block';
   require('./block2'); */
const s = "import c from './in-string'";
const t = 'require("./also-string")';
const u = ` + "`import d from './in-template'`" + `;
import real from './real';
`
	refs := References([]byte(src))
	require.Len(t, refs, 1)
	assert.Equal(t, "./real", refs[0].Specifier)
	assert.Equal(t, 7, refs[0].Line)
}

func TestReferences_TemplateSubstitutionIsCode(t *testing.T) {
	src := "const s = `value: ${require('./inner')}`;\n"
	refs := References([]byte(src))
	require.Len(t, refs, 1)
	assert.Equal(t, "./inner", refs[0].Specifier)
}

func TestReferences_PropertyCallsIgnored(t *testing.T) {
	src := `loader.import('./not-a-module');
context.require('./nope');
myrequire('./nope2');
`
	assert.Empty(t, References([]byte(src)))
}

func TestReferences_RegexLiteralDoesNotOpenString(t *testing.T) {
	src := `const re = /['"]/g;
import x from './after-regex';
`
	refs := References([]byte(src))
	require.Len(t, refs, 1)
	assert.Equal(t, "./after-regex", refs[0].Specifier)
}

func TestReferences_Empty(t *testing.T) {
	assert.Empty(t, References(nil))
	assert.Empty(t, References([]byte("const x = 1;\n")))
}

func TestMask_PreservesLengthAndNewlines(t *testing.T) {
	src := []byte("a /* x\ny */ b // z\nc")
	text, class := mask(src)
	require.Len(t, text, len(src))
	require.Len(t, class, len(src))
	assert.Equal(t, "a     \n     b     \nc", string(text))
	assert.Equal(t, classCode, class[0])
	assert.Equal(t, classComment, class[3])
}

func TestSourceLine(t *testing.T) {
	s := newSource([]byte("a\nbb\n\nc"))
	assert.Equal(t, 1, s.line(0))
	assert.Equal(t, 2, s.line(2))
	assert.Equal(t, 2, s.line(4))
	assert.Equal(t, 3, s.line(5))
	assert.Equal(t, 4, s.line(6))
}

func TestStripReExports(t *testing.T) {
	src := "export { helper } from './util';\nexport * as ns from './ns';\nhelper();\n"
	out := string(StripReExports([]byte(src)))
	assert.Equal(t, len(src), len(out))
	assert.Equal(t, 1, strings.Count(out, "helper"))
	assert.NotContains(t, out, "ns")
}
