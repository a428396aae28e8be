// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cmap_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/cmap"
)

func TestMap(t *testing.T) {
	assert := assert.New(t)

	m := cmap.New[string, int]()
	_, ok := m.Find("a")
	assert.False(ok)

	acc, inserted := m.Emplace("a", 1)
	assert.True(inserted)
	assert.Equal(1, acc.Value())
	acc.Set(2)
	acc.Release()

	acc, inserted = m.Emplace("a", 10)
	assert.False(inserted)
	assert.Equal(2, acc.Value())
	acc.Release()

	assert.False(m.Insert("a", 3))
	assert.True(m.Insert("b", 3))

	v, ok := m.Get("a")
	assert.True(ok)
	assert.Equal(2, v)

	m.Set("b", 4)
	v, _ = m.Get("b")
	assert.Equal(4, v)
	assert.Equal(2, m.Len())

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	assert.Equal(6, sum)

	m.Clear()
	assert.Equal(0, m.Len())
}

func TestAccessorExclusive(t *testing.T) {
	m := cmap.New[int, int]()
	m.Set(1, 0)
	m.Set(2, 0)

	acc, _ := m.FindMut(1)

	// other keys are not blocked
	done := make(chan struct{})
	go func() {
		other, _ := m.FindMut(2)
		other.Set(1)
		other.Release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("accessor of another key blocked")
	}

	// the same key waits for release
	got := make(chan int)
	go func() {
		c, _ := m.Find(1)
		defer c.Release()
		got <- c.Value()
	}()
	acc.Set(42)
	time.Sleep(10 * time.Millisecond)
	acc.Release()
	assert.Equal(t, 42, <-got)
}

func TestConcurrentEmplace(t *testing.T) {
	m := cmap.New[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				acc, _ := m.Emplace(k, 0)
				acc.Set(acc.Value() + 1)
				acc.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, m.Len())
	m.Range(func(_ int, v int) bool {
		assert.Equal(t, 16, v)
		return true
	})
}
