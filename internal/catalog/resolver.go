package catalog

import (
	"context"
	"sync"
)

// BatchResult holds the outcome of resolving a batch of movie identifiers.
type BatchResult struct {
	// Movies are the successfully resolved records, in input order.
	Movies []MovieDetail

	// FailedIDs are the identifiers whose fetch failed.
	FailedIDs []int
}

// ResolveMovies fetches the full detail record for every distinct identifier
// and returns the successfully resolved subset in input order. Duplicate
// identifiers are fetched once. The fetches run in parallel, each writing to
// its own result slot, and the call returns only after all of them finish.
//
// Individual failures are logged and reported through FailedIDs; the call
// itself fails only when nothing resolved.
func (c *Client) ResolveMovies(ctx context.Context, movieIDs []int) (*BatchResult, error) {
	ids := dedupeIDs(movieIDs)
	if len(ids) == 0 {
		return &BatchResult{}, nil
	}

	slots := make([]*MovieDetail, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			detail, err := c.MovieDetails(ctx, id)
			if err != nil {
				errs[i] = err
				return
			}
			slots[i] = detail
		}(i, id)
	}
	wg.Wait()

	result := &BatchResult{}
	for i, detail := range slots {
		if detail == nil {
			c.logger.Printf("Failed to resolve movie %d: %v", ids[i], errs[i])
			result.FailedIDs = append(result.FailedIDs, ids[i])
			continue
		}
		result.Movies = append(result.Movies, *detail)
	}

	if len(result.Movies) == 0 {
		return nil, &BatchError{FailedIDs: result.FailedIDs}
	}

	return result, nil
}

// dedupeIDs removes duplicates while preserving first-occurrence order.
func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
