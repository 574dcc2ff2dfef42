package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Key   string
	Value T
	Err   error
}

// FetchEach calls fetch once per key with at most limit calls in flight and
// collects every outcome in key order. One failure does not cancel the rest.
//
// Example:
//
//	results := FetchEach(ctx, 4, guids, func(ctx context.Context, guid string) (*domain.GovernanceZone, error) {
//	    return zones.FetchZone(ctx, userID, guid)
//	})
func FetchEach[T any](
	ctx context.Context,
	limit int,
	keys []string,
	fetch func(context.Context, string) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(keys))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, key := range keys {
		g.Go(func() error {
			value, err := fetch(ctx, key)
			results[i] = PartialResult[T]{Key: key, Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
