package pools

import (
	"sync"
)

// maxPooledSet bounds the size of sets kept for reuse.
const maxPooledSet = 4096

// SetPool pools membership sets.
type SetPool[K comparable] struct {
	pool sync.Pool
}

// NewSetPool creates a new set pool.
func NewSetPool[K comparable]() *SetPool[K] {
	return &SetPool[K]{
		pool: sync.Pool{
			New: func() any {
				return make(map[K]struct{}, 16)
			},
		},
	}
}

// Get returns an empty set from the pool.
func (p *SetPool[K]) Get() map[K]struct{} {
	m, ok := p.pool.Get().(map[K]struct{})
	if !ok {
		return make(map[K]struct{}, 16)
	}
	clear(m)
	return m
}

// Put returns a set to the pool.
func (p *SetPool[K]) Put(m map[K]struct{}) {
	if m == nil || len(m) > maxPooledSet {
		return // Don't pool nil or very large sets
	}
	p.pool.Put(m)
}
