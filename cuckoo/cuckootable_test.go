// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "testing"

func testCuckooParams() Params {
	return NewParams(16, 6, 0, 1, 4, 4)
}

func TestCuckooHashSetGet(t *testing.T) {
	c := newCuckooHash(testCuckooParams())

	c.set(8, 5)
	c.set(10, 13)

	if got := c.get(8); got != 5 {
		t.Errorf("get(8) = %d, want 5", got)
	}
	if got := c.get(10); got != 13 {
		t.Errorf("get(10) = %d, want 13", got)
	}
}

func TestCuckooHashGetMissingReturnsZero(t *testing.T) {
	c := newCuckooHash(testCuckooParams())
	if got := c.get(42); got != 0 {
		t.Errorf("get on empty table = %d, want 0 (sentinel)", got)
	}
}

func TestCuckooHashSameKeyOverwrites(t *testing.T) {
	c := newCuckooHash(testCuckooParams())
	c.set(8, 5)
	c.set(8, 9)
	if got := c.get(8); got != 9 {
		t.Errorf("get(8) after overwrite = %d, want 9", got)
	}
}

func TestCuckooHashLinearProbing(t *testing.T) {
	p := testCuckooParams()
	c := newCuckooHash(p)

	// Two distinct keys that share a home slot (same u >> idxShift)
	// must both be retrievable via linear probing.
	a := (uint64(1) << p.idxShift) | 0
	b := (uint64(1) << p.idxShift) | 1
	if a>>p.idxShift != b>>p.idxShift {
		t.Fatalf("test setup invalid: a and b do not share a home slot")
	}

	c.set(a, 100)
	c.set(b, 200)

	if got := c.get(a); got != 100 {
		t.Errorf("get(a) = %d, want 100", got)
	}
	if got := c.get(b); got != 200 {
		t.Errorf("get(b) = %d, want 200", got)
	}
}

func TestCuckooHashDriftInvariant(t *testing.T) {
	c := newCuckooHash(testCuckooParams())
	c.set(8, 5)
	c.set(10, 13)
	c.set(4, 9)

	if _, drift, ok := c.checkDrift(); !ok {
		t.Errorf("unexpected drift violation at displacement %d", drift)
	}
}

func TestCuckooHashGetZeroReadsEmptySentinel(t *testing.T) {
	// Node 0 is the reserved sentinel: the solver never calls
	// set(0, ...), but get(u) for a u with no mapping must still read
	// back the empty-cell value, 0, not confuse it with a legitimately
	// stored value.
	c := newCuckooHash(testCuckooParams())
	if got := c.get(0); got != 0 {
		t.Errorf("get(0) with no entries = %d, want 0", got)
	}
}
