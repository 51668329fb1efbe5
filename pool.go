package prism

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// The pipeline is a sequence of fork-join stages. Each stage spawns the
// renderer's K workers, hands every worker a stable id, and returns only
// once all of them have drained their work. Worker ids matter: the clip
// and bin stages write to buffers owned by a specific worker.

// parallelRanges splits [0, n) into K contiguous ranges, one per worker.
func (r *Renderer) parallelRanges(n int, fn func(worker, lo, hi int)) {
	k := r.workers
	if n == 0 {
		return
	}
	var g errgroup.Group
	for w := 0; w < k; w++ {
		lo := w * n / k
		hi := (w + 1) * n / k
		if lo == hi {
			continue
		}
		g.Go(func() error {
			fn(w, lo, hi)
			return nil
		})
	}
	g.Wait()
}

// parallelChunks hands out [0, n) in dynamically claimed chunks. Used for
// stages whose units have uneven cost (tiles, fragment ranges).
func (r *Renderer) parallelChunks(n, chunk int, fn func(worker, lo, hi int)) {
	if n == 0 {
		return
	}
	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < r.workers; w++ {
		g.Go(func() error {
			for {
				lo := int(next.Add(int64(chunk))) - chunk
				if lo >= n {
					return nil
				}
				fn(w, lo, min(lo+chunk, n))
			}
		})
	}
	g.Wait()
}
