package parallel

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if err == nil {
		t.Error("Expected error for too many workers")
	}
}

func TestWorkerPoolNonPositiveWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool, err := NewWorkerPool(n)
		if err != nil {
			t.Fatalf("NewWorkerPool(%d) failed: %v", n, err)
		}
		if pool.Workers() != 1 {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want 1", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, err := NewWorkerPool(8)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}
	wg.Wait()
	pool.Close()

	if got := atomic.LoadInt64(&counter); got != 100 {
		t.Errorf("counter = %d, want 100", got)
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, _ := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit after Close should return false")
	}
}
