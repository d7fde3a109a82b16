package deadexport

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/modgraph/internal/config"
	"github.com/davetashner/modgraph/internal/extract"
	"github.com/davetashner/modgraph/internal/graph"
	"github.com/davetashner/modgraph/internal/testable"
)

// Inputs are the per-module exports and texts the analyzer needs.
type Inputs struct {
	Exports graph.SymbolTable
	Texts   map[graph.ModuleID][]byte

	// Errors lists files whose read failed after retries, in path order.
	// Their modules have no text, so Find downgrades its findings.
	Errors []*graph.FileError
}

// Collect reads every file of a build and extracts its exports. Reads are
// retried like the build's; files that still fail are listed in
// Inputs.Errors. Only cancellation is returned as an error.
func Collect(ctx context.Context, res *graph.BuildResult, rules config.Rules, opts graph.Options) (*Inputs, error) {
	fsys := testable.OrDefault(opts.FS)

	type slot struct {
		content []byte
		exports []extract.ExportedSymbol
		err     *graph.FileError
	}
	slots := make([]slot, len(res.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rules.WorkerCount())
	for i, f := range res.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := graph.ReadWithRetry(gctx, fsys, f.Abs, opts)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slots[i].err = &graph.FileError{Path: f.Path, Op: "read", Err: err}
				return nil
			}
			slots[i] = slot{content: content, exports: extract.Exports(content)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in := &Inputs{
		Exports: make(graph.SymbolTable, len(slots)),
		Texts:   make(map[graph.ModuleID][]byte, len(slots)),
	}
	for i, s := range slots {
		if s.err != nil {
			slog.Warn("dead exports: unreadable file", "path", s.err.Path, "error", s.err.Err)
			in.Errors = append(in.Errors, s.err)
			continue
		}
		id := graph.IDFromPath(res.Files[i].Abs)
		in.Texts[id] = s.content
		if len(s.exports) > 0 {
			in.Exports[id] = s.exports
		}
	}
	return in, nil
}

// Run collects inputs for a build and returns its dead exports.
func (a *Analyzer) Run(ctx context.Context, res *graph.BuildResult, rules config.Rules, opts graph.Options) ([]DeadExport, error) {
	in, err := Collect(ctx, res, rules, opts)
	if err != nil {
		return nil, err
	}
	return a.Find(ctx, res.Graph, in.Exports, in.Texts)
}
