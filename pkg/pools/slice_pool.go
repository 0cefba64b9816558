package pools

import (
	"sync"
)

// Size classes used by NewSlicePool when none are given.
const (
	SmallSize  = 16
	MediumSize = 64
	LargeSize  = 256
	HugeSize   = 4096
	// MaxPool is the largest capacity returned to a pool.
	MaxPool = 65536
)

// DefaultClasses are the capacities pooled by default.
var DefaultClasses = []int{SmallSize, MediumSize, LargeSize, HugeSize, MaxPool}

// SlicePool hands out slices from a fixed set of capacity classes. Requests
// larger than the biggest class are allocated directly and never pooled.
type SlicePool[T any] struct {
	classes []int
	pools   []sync.Pool
}

// NewSlicePool creates a pool with the given ascending capacity classes, or
// DefaultClasses when none are passed.
func NewSlicePool[T any](classes ...int) *SlicePool[T] {
	if len(classes) == 0 {
		classes = DefaultClasses
	}
	p := &SlicePool[T]{
		classes: classes,
		pools:   make([]sync.Pool, len(classes)),
	}
	for i, c := range classes {
		p.pools[i].New = func() any {
			s := make([]T, 0, c)
			return &s
		}
	}
	return p
}

func (p *SlicePool[T]) class(size int) int {
	for i, c := range p.classes {
		if size <= c {
			return i
		}
	}
	return -1
}

// Get returns an empty slice with at least the requested capacity.
func (p *SlicePool[T]) Get(size int) []T {
	i := p.class(size)
	if i < 0 {
		return make([]T, 0, size)
	}
	sp, ok := p.pools[i].Get().(*[]T)
	if !ok || cap(*sp) < size {
		return make([]T, 0, p.classes[i])
	}
	return (*sp)[:0]
}

// GetSized returns a zeroed slice of exactly size elements.
func (p *SlicePool[T]) GetSized(size int) []T {
	s := p.Get(size)[:size]
	clear(s)
	return s
}

// Put returns s to the class its capacity fills. Slices that fit no class
// exactly are dropped so every pooled slice satisfies its class.
func (p *SlicePool[T]) Put(s []T) {
	c := cap(s)
	if c == 0 || c > MaxPool {
		return
	}
	// pool under the largest class the capacity covers
	i := -1
	for j, cl := range p.classes {
		if c >= cl {
			i = j
		}
	}
	if i < 0 {
		return
	}
	s = s[:0]
	p.pools[i].Put(&s)
}
