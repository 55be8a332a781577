// Package batch runs the Entry transform across many files concurrently
// (spec §5: "one transformer per file; they share nothing"), adapted from
// the teacher's pkg/loader "smart recursion" plus pkg/runner orchestration.
package batch

import (
	"context"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/covinstrument/covinstrument/pkg/ast"
	"github.com/covinstrument/covinstrument/pkg/config"
	"github.com/covinstrument/covinstrument/pkg/report"
	"github.com/covinstrument/covinstrument/pkg/source"
	"github.com/covinstrument/covinstrument/pkg/transform"
)

// File is one input to a batch run: its path, parsed program and the raw
// text the Position service is built from.
type File struct {
	Path    string
	Program *ast.Program
	Text    []byte
}

// Result is one file's outcome.
type Result struct {
	Path string
	*transform.Result
	Err error
}

// positionCacheSize bounds the per-process cache of Positions tables so a
// long batch run (many files, or repeated re-runs in watch mode) doesn't
// re-index a file's line table every time it's touched.
const positionCacheSize = 512

// ParallelTransform instruments files concurrently, one goroutine per
// file via errgroup, and tallies the outcome into rep. RunID is a
// per-invocation correlation id logged with each file's progress line so
// concurrent workers' interleaved output can be pieced back together.
func ParallelTransform(ctx context.Context, cfg config.Config, files []File, rep *report.Reporter, concurrency int) ([]Result, error) {
	runID := uuid.New().String()[:8]
	positions, err := lru.New[string, *source.Positions](positionCacheSize)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			pos, ok := positions.Get(f.Path)
			if !ok {
				pos = source.NewPositions(f.Text)
				positions.Add(f.Path, pos)
			}

			res, err := transform.Transform(f.Program, cfg, f.Path, pos)
			if err != nil {
				log.Printf("[%s] %s: transform failed: %v", runID, f.Path, err)
				results[i] = Result{Path: f.Path, Err: err}
				return nil
			}
			if res.Ignored {
				log.Printf("[%s] %s: skipped (ignore file)", runID, f.Path)
				rep.AddSkipped(f.Path)
			} else {
				log.Printf("[%s] %s: instrumented (%d statements, %d functions, %d branches)",
					runID, f.Path, len(res.Map.StatementMap), len(res.Map.FnMap), len(res.Map.BranchMap))
				rep.AddInstrumented(f.Path, len(res.Map.StatementMap), len(res.Map.FnMap), len(res.Map.BranchMap))
			}
			results[i] = Result{Path: f.Path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
