package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/drivesim/internal/dynamo"
)

// RunFunc runs one independent episode for seed.
type RunFunc[R any] func(ctx context.Context, seed int64) (R, error)

// Ensemble runs independent episodes in parallel, one goroutine per seed.
// Each run must build its own Simulator; nothing is shared between runs.
type Ensemble[R any] struct {
	run       RunFunc[R]
	numRuns   int
	seedStart int64
}

func NewEnsemble[R any](run func(ctx context.Context, seed int64) (R, error), numRuns int, seedStart int64) *Ensemble[R] {
	return &Ensemble[R]{run: run, numRuns: numRuns, seedStart: seedStart}
}

// Run returns results ordered by seed. The first error in seed order wins.
func (e *Ensemble[R]) Run(ctx context.Context) ([]R, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d: %w", e.numRuns, dynamo.ErrParameterBounds)
	}
	results := make([]R, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.run(ctx, e.seedStart+int64(idx))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
