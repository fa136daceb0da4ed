// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "sync"

// barrier is an n-way reusable rendezvous point between trimming
// kernels. Go has no barrier in the standard library, so this builds
// the usual one out of sync.Mutex + sync.Cond.
//
// Every worker must call wait() the same number of times across the
// life of a solve; a worker that never arrives blocks the rest
// forever — there is no timeout, by design.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	waiting int
	gen     uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all n parties have called wait for the current
// generation, then releases them together and advances the
// generation so the barrier can be reused by the next phase.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
