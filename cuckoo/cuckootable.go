// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "sync/atomic"

// cuckooHash is an open-addressed map from node to node, one outgoing
// mapping per node, linear-probed with wraparound inside a bounded
// drift window. Node 0 is never stored: it is the sentinel a path walk
// stops at. Allocated only after trimming finishes, in place of the
// degree counter it displaced.
type cuckooHash struct {
	cells      []uint64
	sizeShift  uint8
	idxShift   uint8
	cuckooMask uint64
	keyMask    uint64
	maxDrift   uint64
}

func newCuckooHash(p Params) *cuckooHash {
	return &cuckooHash{
		cells:      make([]uint64, p.cuckooSize),
		sizeShift:  p.SizeShift,
		idxShift:   p.idxShift,
		cuckooMask: p.cuckooMask,
		keyMask:    p.keyMask,
		maxDrift:   p.maxDrift,
	}
}

// set writes u -> v. It probes from u's home slot and either installs
// the mapping into an empty cell (CAS against the zero sentinel) or,
// on finding a cell already keyed by u, overwrites its value with a
// plain relaxed store. Two workers racing on the same key can overwrite
// rather than serialize; proof recovery re-validates every reported
// edge against the alive set, so the rare spurious/missed report this
// can cause is accepted rather than serialized away.
func (c *cuckooHash) set(u, v uint64) {
	key := u & c.keyMask
	packed := key<<c.sizeShift | v

	for ui := u >> c.idxShift; ; ui = (ui + 1) & c.cuckooMask {
		if atomic.CompareAndSwapUint64(&c.cells[ui], 0, packed) {
			return
		}
		old := atomic.LoadUint64(&c.cells[ui])
		if old>>c.sizeShift == key {
			atomic.StoreUint64(&c.cells[ui], packed)
			return
		}
	}
}

// get returns the node u maps to, or 0 if u has no mapping (0 doubles
// as the empty-cell sentinel and as "no mapping").
func (c *cuckooHash) get(u uint64) uint64 {
	key := u & c.keyMask
	for ui := u >> c.idxShift; ; ui = (ui + 1) & c.cuckooMask {
		cell := atomic.LoadUint64(&c.cells[ui])
		if cell == 0 {
			return 0
		}
		if cell>>c.sizeShift == key {
			return cell & ((uint64(1) << c.sizeShift) - 1)
		}
	}
}

// checkDrift walks every present cell and reports the first one whose
// displacement from its home slot exceeds maxDrift. Returns ok=true if
// every present entry is within bounds.
func (c *cuckooHash) checkDrift() (ui uint64, drift uint64, ok bool) {
	for i, cell := range c.cells {
		if cell == 0 {
			continue
		}
		key := cell >> c.sizeShift
		home := key >> c.idxShift
		d := (uint64(i) - home) & c.cuckooMask
		if d >= c.maxDrift {
			return uint64(i), d, false
		}
	}
	return 0, 0, true
}
