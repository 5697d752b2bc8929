package concurrent

import (
	"sync"
	"sync/atomic"
)

// Batch runs the jobs 0..n-1 on at most workers goroutines. Every
// goroutine claims the next unclaimed index from a shared counter, so
// uneven job costs balance out without a queue. Batch returns once all
// jobs have run; job must write its own result, to a slot no other
// index touches.
func Batch(workers, n int, job func(idx int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				idx := int(next.Add(1)) - 1
				if idx >= n {
					return
				}
				job(idx)
			}
		}()
	}
	wg.Wait()
}
