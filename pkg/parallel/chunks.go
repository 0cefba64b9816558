package parallel

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned when work is handed to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// PanicError carries a panic raised inside a chunk back to the caller.
type PanicError struct {
	Lo, Hi int
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("chunk [%d, %d) panicked: %v", e.Lo, e.Hi, e.Value)
}

// ChunkSize splits n items across workers, rounding up. It never returns
// less than 1.
func ChunkSize(n, workers int) int {
	if workers <= 0 || n <= 0 {
		return 1
	}
	// int64 keeps n+workers-1 from overflowing on 32-bit platforms
	size := int((int64(n) + int64(workers) - 1) / int64(workers))
	if size < 1 {
		size = 1
	}
	return size
}

// ForEachChunk calls fn over [0, n) split into contiguous ranges, one task per
// range, and waits for all of them. fn must only write to indexes inside its
// own range. The first panic is returned as a *PanicError after every chunk
// has finished.
func ForEachChunk(pool *WorkerPool, n int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	size := ChunkSize(n, pool.Workers())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		ok := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = &PanicError{Lo: lo, Hi: hi, Value: r}
					}
					mu.Unlock()
				}
			}()
			fn(lo, hi)
		})
		if !ok {
			wg.Done()
			wg.Wait()
			return ErrPoolClosed
		}
	}
	wg.Wait()
	return firstErr
}
