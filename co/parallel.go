// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides goroutine helpers.
package co

import (
	"runtime"
	"sync"
)

// Goes tracks a group of goroutines.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until all goroutines started by Go returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once all goroutines returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}

// Parallel runs works sent to the queue on a pool of workers. cb is called in a goroutine
// and the queue is closed when it returns. A non-positive workers means one per CPU.
//
// The returned channel is closed after all works are done.
func Parallel(workers int, cb func(queue chan<- func())) <-chan struct{} {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	queue := make(chan func(), workers*2)

	var goes Goes
	for range workers {
		goes.Go(func() {
			for work := range queue {
				work()
			}
		})
	}
	goes.Go(func() {
		defer close(queue)
		cb(queue)
	})
	return goes.Done()
}
