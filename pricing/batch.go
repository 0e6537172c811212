package pricing

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// BatchEntry is one item's outcome in OptimizeAll.
type BatchEntry struct {
	Item   string `json:"item"`
	Result Result `json:"result"`
}

// OptimizeAll runs Optimum for every item with at most workers analyses in flight
// and returns the entries sorted by item name. done, when set, is called once per
// finished item. Per-item failures stay in their Result; only ctx cancellation
// stops the batch.
func (e *Engine) OptimizeAll(ctx context.Context, items []string, step float64, workers int, done func(BatchEntry)) ([]BatchEntry, error) {
	if workers < 1 {
		workers = 1
	}
	entries := make([]BatchEntry, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = BatchEntry{Item: name, Result: e.Optimum(gctx, name, step)}
			if done != nil {
				done(entries[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(a, b BatchEntry) int {
		switch {
		case a.Item < b.Item:
			return -1
		case a.Item > b.Item:
			return 1
		}
		return 0
	})
	return entries, nil
}
