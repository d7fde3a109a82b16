// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

// Package project ties configuration loading, the graph build and the
// derived analyses together for one scan root. The CLI, the MCP server and
// watch mode all open projects through it.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/deadexport"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/testable"
)

// Options controls how a project is opened. The zero value probes the
// root for a config file and uses the real filesystem.
type Options struct {
	// CLI holds flag values. Zero fields fall through to the config file.
	CLI config.Config

	// ConfigPath names an explicit config file instead of probing the root.
	ConfigPath string

	// LocalPaths lets Lookup fall back to paths relative to the process
	// working directory. Only command-line callers set it.
	LocalPaths bool

	FS testable.FileSystem
}

// Project is one built scan root.
type Project struct {
	// Root is the absolute scan root as given.
	Root string

	// Config is the merged, defaulted and validated configuration.
	Config config.Config

	// ConfigFile is the file Config was read from, or "".
	ConfigFile string

	Result *graph.BuildResult

	fs         testable.FileSystem
	localPaths bool

	mu     sync.Mutex
	inputs *deadexport.Inputs
}

// Open loads the configuration for path and builds its graph. Invalid
// configuration fails with a *config.ConfigError before any source file is
// read.
func Open(ctx context.Context, path string, opts Options) (*Project, error) {
	fsys := testable.OrDefault(opts.FS)
	if path == "" {
		path = "."
	}
	root, err := fsys.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	var fileCfg *config.Config
	cfgPath := opts.ConfigPath
	if cfgPath != "" {
		fileCfg, err = config.LoadFile(fsys, cfgPath)
	} else {
		fileCfg, cfgPath, err = config.Load(fsys, root)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfgPath != "" {
		slog.Debug("loaded config", "path", cfgPath)
	}

	cfg := config.Finalize(config.Merge(fileCfg, opts.CLI))
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	res, err := graph.Build(ctx, root, cfg.Rules, graph.Options{FS: fsys})
	if err != nil {
		return nil, err
	}
	return &Project{Root: root, Config: cfg, ConfigFile: cfgPath, Result: res, fs: fsys, localPaths: opts.LocalPaths}, nil
}

// Graph returns the full graph.
func (p *Project) Graph() *graph.Graph {
	return p.Result.Graph
}

// View returns the graph queries report on: the full graph, or the
// subgraph around the configured focus module. MaxDepth bounds the focus
// radius; 0 keeps every module connected to it.
func (p *Project) View() (*graph.Graph, error) {
	if p.Config.FocusModule == "" {
		return p.Result.Graph, nil
	}
	id, err := p.Lookup(p.Config.FocusModule)
	if err != nil {
		return nil, fmt.Errorf("focus module: %w", err)
	}
	return p.Result.Graph.Focus(id, p.Config.MaxDepth)
}

// Lookup finds a module from a user-supplied path: a module ID, a path
// relative to the scan root, or one without its extension. With
// LocalPaths set, a path relative to the working directory is tried last.
func (p *Project) Lookup(arg string) (graph.ModuleID, error) {
	g := p.Result.Graph
	id, err := g.Lookup(arg)
	if err == nil || !p.localPaths {
		return id, err
	}
	if abs, absErr := p.fs.Abs(arg); absErr == nil {
		if canon, evalErr := p.fs.EvalSymlinks(abs); evalErr == nil {
			if local, lookupErr := g.Lookup(filepath.ToSlash(canon)); lookupErr == nil {
				return local, nil
			}
		}
	}
	return id, err
}

// Inputs reads every module for symbol analyses. A successful read is
// cached for the life of the project. Files that could not be read are
// added to the build's diagnostics.
func (p *Project) Inputs(ctx context.Context) (*deadexport.Inputs, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inputs != nil {
		return p.inputs, nil
	}
	in, err := deadexport.Collect(ctx, p.Result, p.Config.Rules, graph.Options{FS: p.fs})
	if err != nil {
		return nil, err
	}
	diag := &p.Result.Diagnostics
	for _, fe := range in.Errors {
		if !slices.ContainsFunc(diag.FileErrors, func(e *graph.FileError) bool { return e.Path == fe.Path }) {
			diag.FileErrors = append(diag.FileErrors, fe)
		}
	}
	slices.SortFunc(diag.FileErrors, func(a, b *graph.FileError) int { return strings.Compare(a.Path, b.Path) })
	p.inputs = in
	return in, nil
}

// DeadExports runs the dead-export analysis with the configured entry
// points and syntax mode. Usage is always searched project-wide; a focus
// module only narrows which findings are returned.
func (p *Project) DeadExports(ctx context.Context) ([]deadexport.DeadExport, error) {
	in, err := p.Inputs(ctx)
	if err != nil {
		return nil, err
	}
	a := &deadexport.Analyzer{EntryPatterns: p.Config.EntryPoints, SyntaxAware: p.Config.SyntaxAware}
	dead, err := a.Find(ctx, p.Result.Graph, in.Exports, in.Texts)
	if err != nil || p.Config.FocusModule == "" {
		return dead, err
	}

	view, err := p.View()
	if err != nil {
		return nil, err
	}
	kept := dead[:0]
	for _, d := range dead {
		if view.Has(d.Module) {
			kept = append(kept, d)
		}
	}
	return kept, nil
}

// ImpactOfSymbol runs an impact query seeded by every module declaring
// name.
func (p *Project) ImpactOfSymbol(ctx context.Context, name string) (*graph.ImpactSet, error) {
	in, err := p.Inputs(ctx)
	if err != nil {
		return nil, err
	}
	return p.Result.Graph.ImpactOfSymbol(name, in.Exports, graph.ImpactOptions{MaxDepth: p.Config.MaxDepth})
}
