// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/statecore/thor"
)

// CodeCache is the process-wide cache of contract code keyed by code hash.
// Code is content addressed, so inserts are idempotent and a present entry is never replaced.
type CodeCache struct {
	lru   *lru.Cache
	stats Stats
}

// NewCodeCache creates a code cache holding at most size entries.
// size should be > 0, or it panics.
func NewCodeCache(size int) *CodeCache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &CodeCache{lru: c}
}

// Get returns the code of hash.
func (c *CodeCache) Get(hash thor.Bytes32) ([]byte, bool) {
	if v, ok := c.lru.Get(hash); ok {
		c.stats.Hit()
		return v.([]byte), true
	}
	c.stats.Miss()
	return nil, false
}

// Insert adds code if absent. It reports whether the code was already cached.
func (c *CodeCache) Insert(hash thor.Bytes32, code []byte) bool {
	ok, _ := c.lru.ContainsOrAdd(hash, code)
	return ok
}

// Len returns count of cached entries.
func (c *CodeCache) Len() int {
	return c.lru.Len()
}

// Stats returns the hit/miss stats.
func (c *CodeCache) Stats() *Stats {
	return &c.stats
}
