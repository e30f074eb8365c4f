package usecase

import "github.com/sourcegraph/conc/iter"

// AggregationConfig tunes how aggregators walk the division registry.
type AggregationConfig struct {
	// FetchConcurrency above 1 fetches divisions in parallel. Results are still
	// returned in input order.
	FetchConcurrency int
}

func fanOut[T, R any](items []T, concurrency int, fn func(T) R) []R {
	if concurrency <= 1 || len(items) <= 1 {
		out := make([]R, 0, len(items))
		for _, item := range items {
			out = append(out, fn(item))
		}
		return out
	}

	mapper := iter.Mapper[T, R]{MaxGoroutines: concurrency}
	return mapper.Map(items, func(item *T) R {
		return fn(*item)
	})
}
