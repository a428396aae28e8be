// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cmap provides a concurrent map with per-key accessors.
//
// An accessor holds the lock of its entry until released. Accessors of distinct keys never
// block each other.
package cmap

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

type entry[V any] struct {
	mu    sync.RWMutex
	value V
}

// Map is a concurrent hash map. The zero value is not usable, use New.
type Map[K comparable, V any] struct {
	m *xsync.MapOf[K, *entry[V]]
}

// New creates an empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: xsync.NewMapOf[K, *entry[V]]()}
}

// ConstAccessor grants shared read access to an entry.
type ConstAccessor[V any] struct {
	e *entry[V]
}

// Value returns the entry value.
func (a ConstAccessor[V]) Value() V { return a.e.value }

// Release unlocks the entry.
func (a ConstAccessor[V]) Release() { a.e.mu.RUnlock() }

// Accessor grants exclusive access to an entry.
type Accessor[V any] struct {
	e *entry[V]
}

// Value returns the entry value.
func (a Accessor[V]) Value() V { return a.e.value }

// Set replaces the entry value.
func (a Accessor[V]) Set(v V) { a.e.value = v }

// Release unlocks the entry.
func (a Accessor[V]) Release() { a.e.mu.Unlock() }

// Find acquires a read accessor for key.
func (m *Map[K, V]) Find(key K) (ConstAccessor[V], bool) {
	e, ok := m.m.Load(key)
	if !ok {
		return ConstAccessor[V]{}, false
	}
	e.mu.RLock()
	return ConstAccessor[V]{e}, true
}

// FindMut acquires a write accessor for key.
func (m *Map[K, V]) FindMut(key K) (Accessor[V], bool) {
	e, ok := m.m.Load(key)
	if !ok {
		return Accessor[V]{}, false
	}
	e.mu.Lock()
	return Accessor[V]{e}, true
}

// Emplace inserts value if key is absent, and acquires a write accessor for the entry in
// either case. The second return value reports whether value was inserted.
func (m *Map[K, V]) Emplace(key K, value V) (Accessor[V], bool) {
	e, loaded := m.m.LoadOrStore(key, &entry[V]{value: value})
	e.mu.Lock()
	return Accessor[V]{e}, !loaded
}

// Insert inserts value if key is absent, and reports whether it did.
func (m *Map[K, V]) Insert(key K, value V) bool {
	_, loaded := m.m.LoadOrStore(key, &entry[V]{value: value})
	return !loaded
}

// Get returns a copy of the value of key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	acc, ok := m.Find(key)
	if !ok {
		var zero V
		return zero, false
	}
	defer acc.Release()
	return acc.Value(), true
}

// Set stores value for key, overwriting any existing value.
func (m *Map[K, V]) Set(key K, value V) {
	acc, inserted := m.Emplace(key, value)
	if !inserted {
		acc.Set(value)
	}
	acc.Release()
}

// Range calls fn for each entry under its read lock until fn returns false.
// Entries inserted during Range may or may not be visited.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.m.Range(func(key K, e *entry[V]) bool {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return fn(key, e.value)
	})
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.m.Size()
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.m.Clear()
}
