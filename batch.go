package trimesh

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// GenerateAll generates every non-decreasing cut triple (a ≤ b ≤ c ≤
// maxCuts) with maxCuts as the shared normalization count. Triangles are
// independent, so each runs on its own worker with a private mesh; workers
// bounds the pool size, with GOMAXPROCS used when it is not positive.
// Results are returned in deterministic enumeration order regardless of
// completion order.
func GenerateAll(maxCuts, workers int) []Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var triples [][3]int
	for a := 0; a <= maxCuts; a++ {
		for b := a; b <= maxCuts; b++ {
			for c := b; c <= maxCuts; c++ {
				triples = append(triples, [3]int{a, b, c})
			}
		}
	}
	results := make([]Result, len(triples))
	var group errgroup.Group
	group.SetLimit(workers)
	for i := range triples {
		i := i
		group.Go(func() error {
			t := triples[i]
			results[i] = Generate(t[0], t[1], t[2], maxCuts)
			return nil
		})
	}
	group.Wait() // workers never return errors, failures live in Results.
	return results
}
