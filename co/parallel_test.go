// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/co"
)

func TestParallel(t *testing.T) {
	var (
		count   atomic.Int64
		running atomic.Int64
		peak    atomic.Int64
	)
	work := func() {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		count.Add(1)
	}

	<-co.Parallel(3, func(queue chan<- func()) {
		for range 50 {
			queue <- work
		}
	})
	assert.Equal(t, int64(50), count.Load())
	assert.LessOrEqual(t, peak.Load(), int64(3))
	assert.Positive(t, peak.Load())
}

func TestParallelDefaultWorkers(t *testing.T) {
	var count atomic.Int64
	<-co.Parallel(0, func(queue chan<- func()) {
		for range 10 {
			queue <- func() { count.Add(1) }
		}
	})
	assert.Equal(t, int64(10), count.Load())
}

func TestGoes(t *testing.T) {
	var (
		goes  co.Goes
		count atomic.Int64
	)
	for range 5 {
		goes.Go(func() { count.Add(1) })
	}
	<-goes.Done()
	assert.Equal(t, int64(5), count.Load())
	goes.Wait()
}
