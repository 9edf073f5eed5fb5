// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cache provides an in-process memo that coalesces concurrent fills.
package cache

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrNotExist is returned when a key does not exist in the cache.
var ErrNotExist = errors.New("does not exist")

// Coalescing is a typed memo keyed by K. Concurrent fills for the same key
// run the fetch function once. Failed fills are forgotten so they may be retried.
type Coalescing[K comparable, V any] struct {
	data sync.Map // K -> *entry[V]
}

// entry wraps the once-function in a pointer so it is comparable for CompareAndDelete.
type entry[V any] struct {
	get func() (V, error)
}

func (c *Coalescing[K, V]) resolve(key K, e *entry[V]) (V, error) {
	val, err := e.get()
	if err != nil {
		c.data.CompareAndDelete(key, e)
	}
	return val, err
}

// Get returns the value for key or ErrNotExist.
func (c *Coalescing[K, V]) Get(key K) (V, error) {
	e, ok := c.data.Load(key)
	if !ok {
		var zero V
		return zero, ErrNotExist
	}
	return c.resolve(key, e.(*entry[V]))
}

// GetOrSet returns the value for key, filling it with fetch if absent.
func (c *Coalescing[K, V]) GetOrSet(key K, fetch func() (V, error)) (V, error) {
	e, _ := c.data.LoadOrStore(key, &entry[V]{sync.OnceValues(fetch)})
	return c.resolve(key, e.(*entry[V]))
}

// Del forgets key.
func (c *Coalescing[K, V]) Del(key K) {
	c.data.Delete(key)
}

// Keys returns the keys currently held, in no particular order.
func (c *Coalescing[K, V]) Keys() []K {
	var keys []K
	c.data.Range(func(k, _ any) bool {
		keys = append(keys, k.(K))
		return true
	})
	return keys
}
