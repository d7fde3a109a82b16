package graph

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/modgraph/internal/collect"
	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/extract"
	"github.com/davetashner/modgraph/internal/resolve"
	"github.com/davetashner/modgraph/internal/testable"
)

// Read retry defaults.
const (
	defaultReadAttempts = 3
	defaultRetryDelay   = 10 * time.Millisecond
)

// Options tunes a build. The zero value is ready to use.
type Options struct {
	// FS is the filesystem to scan. Nil means the real one.
	FS testable.FileSystem

	// ReadAttempts bounds reads of one file (0 = 3).
	ReadAttempts int

	// RetryDelay is the base backoff between read attempts, doubled after
	// each failure (0 = 10ms).
	RetryDelay time.Duration
}

// BuildResult is a built graph plus what the build could not do.
type BuildResult struct {
	Graph       *Graph      `json:"graph"`
	Diagnostics Diagnostics `json:"diagnostics"`

	// External counts references per external package name.
	External map[string]int `json:"external"`

	// Files lists the collected files in path order.
	Files []collect.File `json:"files"`
}

// fileResult is one worker's output. Workers only write their own slot.
type fileResult struct {
	edges        []Edge
	external     []string
	unresolved   []UnresolvedRef
	unresolvable []UnresolvableRef
	err          *FileError
}

// Build collects the files under root, extracts and resolves their
// references on a bounded worker pool, and assembles the graph. Invalid
// rules fail with a *config.ConfigError before any file is read. Problems
// with single files or references land in Diagnostics; only cancellation
// and an unusable root are returned as errors.
func Build(ctx context.Context, root string, rules config.Rules, opts Options) (*BuildResult, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	fsys := testable.OrDefault(opts.FS)

	start := time.Now()
	collected, err := collect.Collect(ctx, root, rules, fsys)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	slog.Debug("build: collected", "files", len(collected.Files), "elapsed", time.Since(start))

	ids := make([]ModuleID, len(collected.Files))
	known := make(map[string]bool, len(collected.Files))
	for i, f := range collected.Files {
		ids[i] = IDFromPath(f.Abs)
		known[string(ids[i])] = true
	}
	resolver := resolve.New(rules.Extensions, known)

	results := make([]fileResult, len(collected.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rules.WorkerCount())
	for i, f := range collected.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := ReadWithRetry(gctx, fsys, f.Abs, opts)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].err = &FileError{Path: f.Path, Op: "read", Err: err}
				return nil
			}
			results[i] = processFile(ids[i], f.Path, content, resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Debug("build: extracted", "files", len(results), "elapsed", time.Since(start))

	res := &BuildResult{
		External: make(map[string]int),
		Files:    collected.Files,
	}
	diag := &res.Diagnostics
	diag.Truncated = collected.Truncated
	for _, we := range collected.Errors {
		diag.WalkErrors = append(diag.WalkErrors, we.Error())
	}

	var edges []Edge
	for _, r := range results {
		if r.err != nil {
			diag.FileErrors = append(diag.FileErrors, r.err)
			slog.Warn("unreadable file", "path", r.err.Path, "error", r.err.Err)
			continue
		}
		edges = append(edges, r.edges...)
		for _, pkg := range r.external {
			res.External[pkg]++
		}
		diag.Unresolved = append(diag.Unresolved, r.unresolved...)
		diag.Unresolvable = append(diag.Unresolvable, r.unresolvable...)
	}
	// Results are already in file order; sort anyway so the output never
	// depends on how workers were scheduled.
	sort.SliceStable(diag.Unresolved, func(i, j int) bool {
		a, b := diag.Unresolved[i], diag.Unresolved[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})

	res.Graph = newGraph(filepath.ToSlash(collected.Root), ids, edges, rules.Extensions)
	slog.Debug("build: done",
		"modules", res.Graph.Len(),
		"edges", len(res.Graph.Edges),
		"external", len(res.External),
		"diagnostics", diag.Summary(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

// processFile extracts and resolves one file's references.
func processFile(id ModuleID, relPath string, content []byte, resolver *resolve.Resolver) fileResult {
	var r fileResult
	for _, ref := range extract.References(content) {
		if ref.Unresolvable {
			r.unresolvable = append(r.unresolvable, UnresolvableRef{
				From: id, Path: relPath, Line: ref.Line, Expression: ref.Expression,
			})
			continue
		}
		res := resolver.Resolve(ref.Specifier, string(id))
		switch res.Kind {
		case resolve.Internal:
			r.edges = append(r.edges, Edge{
				From: id, To: ModuleID(res.ID), Specifier: ref.Specifier, Kind: ref.Kind, Line: ref.Line,
			})
		case resolve.External:
			r.external = append(r.external, resolve.PackageName(ref.Specifier))
		case resolve.Unresolved:
			r.unresolved = append(r.unresolved, UnresolvedRef{
				From: id, Path: relPath, Specifier: ref.Specifier, Kind: ref.Kind,
				Line: ref.Line, Candidates: res.Candidates,
			})
		}
	}
	return r
}

// ReadWithRetry reads a file, retrying with exponential backoff on errors
// that may be transient. Missing files and permission errors fail at once.
// Only opts.ReadAttempts and opts.RetryDelay are consulted.
func ReadWithRetry(ctx context.Context, fsys testable.FileSystem, path string, opts Options) ([]byte, error) {
	attempts := opts.ReadAttempts
	if attempts <= 0 {
		attempts = defaultReadAttempts
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay << (attempt - 1)):
			}
		}
		content, err := fsys.ReadFile(path)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			break
		}
		slog.Debug("read failed, retrying", "path", path, "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

// IDFromPath converts a canonical OS path to a ModuleID.
func IDFromPath(p string) ModuleID {
	return ModuleID(filepath.ToSlash(p))
}
