package worker

import (
	"context"
	"sync"
)

// Map runs fn over items with at most workers concurrent goroutines and
// returns the results in input order. Cancellation is left to fn: when ctx
// is done, pending items still run but fn is expected to return promptly.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) []R {
	if workers <= 0 {
		workers = 1
	}

	results := make([]R, len(items))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = fn(ctx, it)
		}(i, item)
	}

	wg.Wait()
	return results
}
