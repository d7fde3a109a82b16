package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExports_Declarations(t *testing.T) {
	src := `export const one = 1;
export let two = 2;
export function three() {}
export async function four() {}
export function* five() {}
export class Six {}
export abstract class Seven {}
export interface Eight {}
export type Nine = string;
export enum Ten {}
export const enum Eleven {}
export namespace Twelve {}
export declare const thirteen: number;
`
	syms := Exports([]byte(src))
	names := make([]string, 0, len(syms))
	for _, s := range syms {
		assert.Equal(t, Named, s.Kind, s.Name)
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"one", "two", "three", "four", "five", "Six", "Seven",
		"Eight", "Nine", "Ten", "Eleven", "Twelve", "thirteen",
	}, names)
}

func TestExports_Defaults(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"export default function render() {}", "render"},
		{"export default class Widget {}", "Widget"},
		{"export default async function load() {}", "load"},
		{"export default function () {}", "default"},
		{"export default class extends Base {}", "default"},
		{"export default { a: 1 };", "default"},
		{"module.exports = factory;", "default"},
		{"export = Legacy;", "default"},
	}
	for _, tt := range tests {
		syms := Exports([]byte(tt.src))
		require.Len(t, syms, 1, tt.src)
		assert.Equal(t, tt.want, syms[0].Name, tt.src)
		assert.Equal(t, Default, syms[0].Kind, tt.src)
	}
}

func TestExports_ListsAndReExports(t *testing.T) {
	src := `const a = 1, b = 2;
export { a, b as beta };
export { helper } from './helpers';
export * from './all';
export * as ns from './ns';
export { x as default };
`
	syms := Exports([]byte(src))
	require.Len(t, syms, 6)

	assert.Equal(t, ExportedSymbol{Name: "a", Kind: Named, Line: 2}, syms[0])
	assert.Equal(t, ExportedSymbol{Name: "beta", Kind: Named, Line: 2}, syms[1])
	assert.Equal(t, ExportedSymbol{Name: "helper", Kind: ReExportSymbol, Line: 3, Source: "./helpers"}, syms[2])
	assert.Equal(t, ExportedSymbol{Name: "*", Kind: ReExportSymbol, Line: 4, Source: "./all"}, syms[3])
	assert.Equal(t, ExportedSymbol{Name: "ns", Kind: ReExportSymbol, Line: 5, Source: "./ns"}, syms[4])
	assert.Equal(t, ExportedSymbol{Name: "default", Kind: Default, Line: 6}, syms[5])
}

func TestExports_Destructured(t *testing.T) {
	syms := Exports([]byte("export const { a, b: renamed, ...rest } = obj;\nexport const [first, second = 2] = list;\n"))
	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "renamed", "rest", "first", "second"}, names)
}

func TestExports_CommonJS(t *testing.T) {
	syms := Exports([]byte("exports.alpha = 1;\nmodule.exports.beta = function () {};\nif (exports.alpha === 1) {}\n"))
	require.Len(t, syms, 2)
	assert.Equal(t, "alpha", syms[0].Name)
	assert.Equal(t, "beta", syms[1].Name)
}

func TestExports_IgnoresComments(t *testing.T) {
	syms := Exports([]byte("// export const hidden = 1;\n/* export function gone() {} */\nexport const shown = 1;\n"))
	require.Len(t, syms, 1)
	assert.Equal(t, "shown", syms[0].Name)
}
