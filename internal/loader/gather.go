// Package loader fans out independent fetches and joins them at a single barrier.
package loader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one fetch. Value is the zero value when Err is set.
type Result[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

// Options bound a Gather call. A Limit <= 0 runs every task at once and a
// zero TaskTimeout leaves each task bounded only by the parent context.
type Options struct {
	Limit       int
	TaskTimeout time.Duration
}

// Gather runs fetch once per key and waits for all of them. A failing task
// never cancels its siblings: its slot carries the error and the zero value.
// Results are returned in key order. Cancelling ctx cancels in-flight fetches
// and marks tasks that had not started with ctx's error.
func Gather[K comparable, V any](ctx context.Context, opts Options, keys []K, fetch func(ctx context.Context, key K) (V, error)) []Result[K, V] {
	results := make([]Result[K, V], len(keys))

	var g errgroup.Group
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}

	for i, key := range keys {
		results[i].Key = key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			taskCtx := ctx
			if opts.TaskTimeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, opts.TaskTimeout)
				defer cancel()
			}

			value, err := run(taskCtx, key, fetch)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value = value
			return nil
		})
	}

	// Tasks never return an error; isolation is carried in the result slots.
	_ = g.Wait()

	return results
}

func run[K comparable, V any](ctx context.Context, key K, fetch func(ctx context.Context, key K) (V, error)) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			value = zero
			err = fmt.Errorf("fetch %v panicked: %v", key, r)
		}
	}()
	return fetch(ctx, key)
}

// Errors returns the failed results.
func Errors[K comparable, V any](results []Result[K, V]) []Result[K, V] {
	var failed []Result[K, V]
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Values indexes the successful results by key.
func Values[K comparable, V any](results []Result[K, V]) map[K]V {
	out := make(map[K]V, len(results))
	for _, r := range results {
		if r.Err == nil {
			out[r.Key] = r.Value
		}
	}
	return out
}
