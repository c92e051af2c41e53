package monitor

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Run starts the aggregator and one goroutine per watcher, and blocks until the context is cancelled.
func Run(ctx context.Context, aggregator *Aggregator, watchers ...*Watcher) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return aggregator.Run(ctx)
	})
	for _, watcher := range watchers {
		watcher := watcher
		group.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
