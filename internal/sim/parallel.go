package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Sweep builds n independent runners and runs them concurrently with at most
// workers in flight. The first failure cancels the remaining runs.
func Sweep(ctx context.Context, n, workers int, build func(i int) (Runner, error)) ([]*Result, error) {
	results := make([]*Result, n)

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := 0; i < n; i++ {
		g.Go(func() error {
			r, err := build(i)
			if err != nil {
				return fmt.Errorf("sweep run %d: %w", i, err)
			}
			res, err := r.Run(ctx)
			results[i] = res
			if err != nil {
				return fmt.Errorf("sweep run %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
