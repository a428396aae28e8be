// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
//
// A new StackedMap has a single level at depth 0, which can not be popped.
type StackedMap[K comparable, V any] struct {
	src            MapGetter[K, V]
	levels         []map[K]V
	keyRevisionMap map[K][]int
}

// MapGetter defines getter method of map.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool)

// New create an instance of StackedMap.
// src acts as source of data, and may be nil.
func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	return &StackedMap[K, V]{
		src:            src,
		levels:         []map[K]V{make(map[K]V)},
		keyRevisionMap: make(map[K][]int),
	}
}

// Depth returns depth of the top level. It's 0 for a new StackedMap.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels) - 1
}

// Push pushes a new map on stack.
// It returns stack depth after push.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, make(map[K]V))
	return sm.Depth()
}

// PopReject pops the map at top of stack.
// It will revert all Put operations since last Push.
func (sm *StackedMap[K, V]) PopReject() {
	top := sm.mustPopLevel()
	for key := range top {
		revs := sm.keyRevisionMap[key]
		revs = revs[:len(revs)-1]
		if len(revs) == 0 {
			delete(sm.keyRevisionMap, key)
		} else {
			sm.keyRevisionMap[key] = revs
		}
	}
}

// PopAccept pops the map at top of stack, and keeps all its values in the level below.
func (sm *StackedMap[K, V]) PopAccept() {
	top := sm.mustPopLevel()
	below := len(sm.levels) - 1
	for key, value := range top {
		sm.levels[below][key] = value

		revs := sm.keyRevisionMap[key]
		revs = revs[:len(revs)-1]
		if len(revs) == 0 || revs[len(revs)-1] != below {
			revs = append(revs, below)
		}
		sm.keyRevisionMap[key] = revs
	}
}

func (sm *StackedMap[K, V]) mustPopLevel() map[K]V {
	if len(sm.levels) <= 1 {
		panic("stackedmap: pop at depth 0")
	}
	top := sm.levels[len(sm.levels)-1]
	sm.levels = sm.levels[:len(sm.levels)-1]
	return top
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap[K, V]) Get(key K) (V, bool) {
	if revs, ok := sm.keyRevisionMap[key]; ok {
		return sm.levels[revs[len(revs)-1]][key], true
	}
	if sm.src != nil {
		return sm.src(key)
	}
	var zero V
	return zero, false
}

// Revision returns the depth of the level holding the latest value of key, or -1 if key was
// never put.
func (sm *StackedMap[K, V]) Revision(key K) int {
	if revs, ok := sm.keyRevisionMap[key]; ok {
		return revs[len(revs)-1]
	}
	return -1
}

// Put puts key value into map at stack top.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	rev := len(sm.levels) - 1
	sm.levels[rev][key] = value

	// records key revision for fast access
	revs := sm.keyRevisionMap[key]
	if len(revs) == 0 || revs[len(revs)-1] != rev {
		sm.keyRevisionMap[key] = append(revs, rev)
	}
}

// Range calls fn with the latest value of every key put, until fn returns false.
func (sm *StackedMap[K, V]) Range(fn func(key K, value V) bool) {
	for key, revs := range sm.keyRevisionMap {
		if !fn(key, sm.levels[revs[len(revs)-1]][key]) {
			return
		}
	}
}

// Len returns count of keys put.
func (sm *StackedMap[K, V]) Len() int {
	return len(sm.keyRevisionMap)
}
