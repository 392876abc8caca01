package pricerunner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run calls fn for every index in [0, n) with at most concurrency calls in
// flight and waits for all of them. Results are written by fn into caller
// owned slots, so ordering is preserved regardless of completion order.
//
// The first non-nil error cancels the context handed to the remaining calls
// and is returned once everything has finished.
func Run(ctx context.Context, n, concurrency int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency == 1 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(gctx, i) })
	}
	return g.Wait()
}
