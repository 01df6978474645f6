package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()
	lru := NewLRUCache[string, string](5)
	lru.Add("hello", "world")
	assert.True(t, lru.Contains("hello"))

	v, ok := lru.Get("hello")
	require.True(t, ok)
	assert.Equal(t, "world", v)

	assert.True(t, lru.Remove("hello"))
	assert.False(t, lru.Remove("hello"))
	_, ok = lru.Get("hello")
	assert.False(t, ok)
}

func TestEviction(t *testing.T) {
	t.Parallel()
	lru := NewLRUCache[int, int](2)
	lru.Add(1, 1)
	lru.Add(2, 2)
	_, ok := lru.Get(1)
	require.True(t, ok)
	lru.Add(3, 3)
	assert.True(t, lru.Contains(1))
	assert.False(t, lru.Contains(2))
	assert.True(t, lru.Contains(3))

	lru.Add(1, 10)
	v, _ := lru.Get(1)
	assert.Equal(t, 10, v)
	assert.Equal(t, uint64(2), lru.Len())
}

func TestClear(t *testing.T) {
	t.Parallel()
	lru := NewLRUCache[int, int](5)
	for x := 0; x < 5; x++ {
		lru.Add(x, x)
	}
	assert.Equal(t, uint64(5), lru.Len())
	lru.Clear()
	assert.Zero(t, lru.Len())
	assert.False(t, lru.Contains(1))
}
