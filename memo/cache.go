package memo

import (
	"sync"
	"sync/atomic"
)

// cache is a two-generation table: stores go to the head generation, loads
// check head then tail. When the head fills up, the generations rotate and
// the stale tail is dropped wholesale. Entries therefore survive at least
// one and at most two rotations, which bounds memory without per-entry
// bookkeeping.
type cache[O any] struct {
	gens    [2]*sync.Map
	headIdx uint32
	size    atomic.Uint32
	maxSize uint32
}

func newCache[O any](maxSize uint32) *cache[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	return &cache[O]{
		gens:    [2]*sync.Map{{}, {}},
		maxSize: maxSize,
	}
}

func (c *cache[O]) load(key uint64) (O, bool) {
	headIdx := c.headIdx
	if v, ok := c.gens[headIdx].Load(key); ok {
		return v.(O), true
	}
	if v, ok := c.gens[1-headIdx].Load(key); ok {
		return v.(O), true
	}
	var zero O
	return zero, false
}

func (c *cache[O]) store(key uint64, val O) {
	if swapped := c.size.CompareAndSwap(c.maxSize, 0); swapped {
		c.headIdx = 1 - c.headIdx
		c.gens[c.headIdx] = &sync.Map{}
	}
	c.gens[c.headIdx].Store(key, val)
	c.size.Add(1)
}
