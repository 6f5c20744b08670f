// Package parallel splits an index range into contiguous chunks and runs
// them on separate goroutines.
package parallel

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Parallelize divides [0, items) into at most runtime.NumCPU() contiguous
// chunks and calls fn once per chunk concurrently. The first error returned
// by a chunk is returned; a panic inside a chunk is recovered as a
// *errors.PanicError naming the chunk's range.
func Parallelize(items int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}

	numWorkers := min(runtime.NumCPU(), items)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		g.Go(func() error {
			return run(start, end, fn)
		})
	}
	return g.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		if items <= 0 {
			return nil
		}
		return run(0, items, fn)
	}
	return Parallelize(items, fn)
}

func run(start, end int, fn func(start, end int) error) (err error) {
	defer errors.Recover(&err, fmt.Sprintf("chunk [%d, %d)", start, end))
	return fn(start, end)
}
