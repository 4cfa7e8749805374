package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheRoundTrip(t *testing.T) {
	c := newCache[string](4)

	_, ok := c.load(1)
	assert.False(t, ok)

	c.store(1, "one")
	v, ok := c.load(1)
	assert.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestCacheRotation(t *testing.T) {
	c := newCache[int](1)

	c.store(1, 10)
	c.store(2, 20) // rotates: key 1 moves to the tail generation

	v, ok := c.load(1)
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	c.store(3, 30) // rotates again: key 1 is dropped with its generation

	_, ok = c.load(1)
	assert.False(t, ok)

	v, ok = c.load(2)
	assert.True(t, ok)
	assert.Equal(t, 20, v)

	v, ok = c.load(3)
	assert.True(t, ok)
	assert.Equal(t, 30, v)
}

func TestCacheZeroMaxSizePanics(t *testing.T) {
	assert.Panics(t, func() {
		newCache[int](0)
	})
}
