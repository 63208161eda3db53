package rmf

import (
	"context"
	"fmt"
	"runtime"

	"github.com/npillmayer/tubular"
	"golang.org/x/sync/errgroup"
)

// SolveAll computes frames for a batch of independent sample paths in
// parallel. Results are index-aligned with paths. The first failing path
// cancels the remaining computations and its error is returned, wrapped with
// the path index.
func SolveAll(ctx context.Context, paths [][]tubular.Vec, opts ...Option) ([]*Sequence, error) {
	results := make([]*Sequence, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seq, err := Solve(paths[i], opts...)
			if err != nil {
				return fmt.Errorf("path %d: %w", i, err)
			}
			results[i] = seq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tracer().Infof("solved %d sample paths", len(paths))
	return results, nil
}
