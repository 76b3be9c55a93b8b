// Package weakcache maps object identity to a derived object without
// keeping either alive. An entry disappears once its key is collected; a
// collected value is simply rebuilt on the next lookup.
package weakcache

import (
	"runtime"
	"sync"
	"weak"
)

type key[K any] struct {
	scope any
	ptr   weak.Pointer[K]
}

// Cache maps (scope, *K) to *V. Scopes must be comparable and are held
// strongly, so they should be long-lived values such as schema pointers.
type Cache[K, V any] struct {
	mu sync.Mutex
	m  map[key[K]]weak.Pointer[V]
}

// New returns an empty cache.
func New[K, V any]() *Cache[K, V] {
	return &Cache[K, V]{m: map[key[K]]weak.Pointer[V]{}}
}

// Load returns the live value cached for (scope, k).
func (c *Cache[K, V]) Load(scope any, k *K) (*V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	wp, ok := c.m[key[K]{scope: scope, ptr: weak.Make(k)}]
	if !ok {
		return nil, false
	}
	v := wp.Value()
	return v, v != nil
}

// LoadOrCreate returns the live value cached for (scope, k), calling create
// when there is none. create runs without the lock held.
func (c *Cache[K, V]) LoadOrCreate(scope any, k *K, create func() *V) *V {
	if v, ok := c.Load(scope, k); ok {
		return v
	}
	v := create()
	kk := key[K]{scope: scope, ptr: weak.Make(k)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if wp, ok := c.m[kk]; ok {
		if cur := wp.Value(); cur != nil {
			return cur
		}
	} else {
		runtime.AddCleanup(k, c.evict, kk)
	}
	c.m[kk] = weak.Make(v)
	return v
}

// Len returns the number of entries whose key has not been collected yet.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func (c *Cache[K, V]) evict(kk key[K]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, kk)
}
