// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package config handles .modgraph.yaml / .modgraph.toml configuration files
// and the scan rules consumed by the graph engine.
package config

import "runtime"

// Rules configures which files are collected and how references resolve.
// The zero value is not usable; call WithDefaults before validating.
type Rules struct {
	// Extensions lists the source file suffixes to collect. The order is also
	// the resolution priority when a specifier omits its extension.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty" json:"extensions,omitempty"`

	// ExcludeDirs lists directory base names pruned before descent.
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty" toml:"exclude_dirs,omitempty" json:"exclude_dirs,omitempty"`

	// ExcludeGlobs lists doublestar patterns, relative to the scan root, for
	// files and directories to skip.
	ExcludeGlobs []string `yaml:"exclude_globs,omitempty" toml:"exclude_globs,omitempty" json:"exclude_globs,omitempty"`

	// FocusModule restricts query output to the subgraph touching one module.
	FocusModule string `yaml:"focus_module,omitempty" toml:"focus_module,omitempty" json:"focus_module,omitempty"`

	// EntryPoints lists doublestar patterns for files treated as entry points
	// by the dead-export analysis, in addition to the built-in conventions.
	EntryPoints []string `yaml:"entry_points,omitempty" toml:"entry_points,omitempty" json:"entry_points,omitempty"`

	// MaxFiles caps the number of collected files (0 = unlimited).
	MaxFiles int `yaml:"max_files,omitempty" toml:"max_files,omitempty" json:"max_files,omitempty"`

	// MaxDepth bounds impact traversal (0 = unbounded).
	MaxDepth int `yaml:"max_depth,omitempty" toml:"max_depth,omitempty" json:"max_depth,omitempty"`

	// Workers bounds per-file extraction parallelism (0 = number of CPUs).
	Workers int `yaml:"workers,omitempty" toml:"workers,omitempty" json:"workers,omitempty"`

	// SyntaxAware ignores symbol mentions inside comments and string
	// literals when searching for export usages.
	SyntaxAware bool `yaml:"syntax_aware,omitempty" toml:"syntax_aware,omitempty" json:"syntax_aware,omitempty"`
}

// Config represents the contents of a modgraph configuration file.
type Config struct {
	Rules `yaml:",inline"`

	// HotspotThreshold reports modules whose fan-in or fan-out exceeds it.
	HotspotThreshold int `yaml:"hotspot_threshold,omitempty" toml:"hotspot_threshold,omitempty"`

	// HotspotTop is the number of modules listed in each hotspot ranking.
	HotspotTop int `yaml:"hotspot_top,omitempty" toml:"hotspot_top,omitempty"`

	// Format is the default output format for CLI commands.
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// File names probed in the scan root, in order.
const (
	FileName     = ".modgraph.yaml"
	FileNameYML  = ".modgraph.yml"
	FileNameTOML = ".modgraph.toml"
)

// Default values for the hotspot queries.
const (
	DefaultHotspotThreshold = 10
	DefaultHotspotTop       = 10
)

// DefaultExtensions is the built-in extension priority: typed variants are
// tried before plain JavaScript so resolution is deterministic when both a
// .ts and a .js file could satisfy the same specifier.
var DefaultExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// DefaultExcludeDirs are build output and dependency-cache directories.
var DefaultExcludeDirs = []string{
	"node_modules", "bower_components", "jspm_packages",
	"dist", "build", "out", "coverage",
	".git", ".hg", ".svn",
	".next", ".nuxt", ".svelte-kit", ".turbo", ".cache",
	".modgraph",
}

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() Rules {
	return Rules{}.WithDefaults()
}

// WithDefaults fills unset (nil) fields with the built-in values. Fields the
// user set explicitly, including explicitly empty lists, are left alone so
// validation can reject them.
func (r Rules) WithDefaults() Rules {
	if r.Extensions == nil {
		r.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if r.ExcludeDirs == nil {
		r.ExcludeDirs = append([]string(nil), DefaultExcludeDirs...)
	}
	return r
}

// WorkerCount returns the effective worker pool size.
func (r Rules) WorkerCount() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.NumCPU()
}
