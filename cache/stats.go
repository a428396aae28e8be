// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts lookups of a cache. It's safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	// permille of the hit rate last reported by Stats
	reported atomic.Int32
}

// Hit records a hit and returns count of lookups so far.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) + cs.miss.Load() }

// Miss records a miss and returns count of lookups so far.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) + cs.hit.Load() }

// HitRate returns ratio of hits among all lookups.
func (cs *Stats) HitRate() float64 {
	hit, miss := cs.hit.Load(), cs.miss.Load()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}

// Stats returns counts of hits and misses, and whether the hit rate moved since the
// previous call, at permille resolution.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.hit.Load(), cs.miss.Load()
	var rate int32
	if hit+miss > 0 {
		rate = int32(hit * 1000 / (hit + miss))
	}
	return cs.reported.Swap(rate) != rate, hit, miss
}
