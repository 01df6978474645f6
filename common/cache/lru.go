// Package cache provides a small least recently used cache.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a concurrent safe least recently used cache
type LRU[K comparable, V any] struct {
	Cap   uint64
	l     *list.List
	items map[K]*list.Element
	mu    sync.Mutex
}

type item[K comparable, V any] struct {
	key   K
	value V
}

// NewLRUCache returns a new LRU cache with input capacity
func NewLRUCache[K comparable, V any](capacity uint64) *LRU[K, V] {
	return &LRU[K, V]{
		Cap:   capacity,
		l:     list.New(),
		items: make(map[K]*list.Element),
	}
}

// Add adds a value to the cache, evicting the oldest entry when full
func (l *LRU[K, V]) Add(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.items[key]; ok {
		l.l.MoveToFront(f)
		f.Value.(*item[K, V]).value = value
		return
	}
	l.items[key] = l.l.PushFront(&item[K, V]{key, value})
	if uint64(l.l.Len()) > l.Cap {
		l.removeOldestEntry()
	}
}

// Get returns the value for key and marks it most recently used
func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i, ok := l.items[key]; ok {
		l.l.MoveToFront(i)
		return i.Value.(*item[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains check if key is in cache this does not update LRU
func (l *LRU[K, V]) Contains(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, f := l.items[key]
	return f
}

// Remove removes key from the cache and reports whether it was present
func (l *LRU[K, V]) Remove(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i, f := l.items[key]; f {
		l.removeElement(i)
		return true
	}
	return false
}

// Clear is used to completely clear the cache.
func (l *LRU[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[K]*list.Element)
	l.l.Init()
}

// Len returns the number of cached entries
func (l *LRU[K, V]) Len() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(l.l.Len())
}

func (l *LRU[K, V]) removeOldestEntry() {
	if i := l.l.Back(); i != nil {
		l.removeElement(i)
	}
}

func (l *LRU[K, V]) removeElement(e *list.Element) {
	l.l.Remove(e)
	delete(l.items, e.Value.(*item[K, V]).key)
}
