// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "fmt"

// Params fixes the sizes of the search graph and the solver's working
// structures for a single solve. All fields are read-only after
// NewParams returns; every derived constant is computed once so a
// solve never has to repeat the arithmetic from cuckoo_miner.h's
// preprocessor macros.
type Params struct {
	// SizeShift is log2 of the edge count: N = 1 << SizeShift.
	SizeShift uint8

	// ProofSize is the target cycle length (L).
	ProofSize uint32

	// PartBits partitions the degree counter to bound its memory; 0
	// disables partitioning.
	PartBits uint8

	// NThreads is the worker parallelism.
	NThreads uint32

	// NTrims is the number of trimming rounds.
	NTrims uint32

	// MaxSols bounds the proof buffer.
	MaxSols uint32

	// derived
	halfSize    uint64
	idxShift    uint8
	cuckooSize  uint64
	cuckooMask  uint64
	maxPathLen  uint32
	keyBits     uint8
	keyMask     uint64
	maxDrift    uint64
	partMask    uint64
	nonceShift  uint8
	nodePartMsk uint64
}

// DefaultParams builds an unpartitioned, single-threaded Params;
// callers pick NTrims and NThreads themselves for anything larger.
func DefaultParams(sizeShift uint8, proofSize uint32) Params {
	return NewParams(sizeShift, proofSize, 0, 1, 1, 1)
}

// NewParams builds a Params and derives every constant this package
// needs from SIZESHIFT/PROOFSIZE/PART_BITS.
func NewParams(sizeShift uint8, proofSize uint32, partBits uint8, nThreads, nTrims, maxSols uint32) Params {
	p := Params{
		SizeShift: sizeShift,
		ProofSize: proofSize,
		PartBits:  partBits,
		NThreads:  nThreads,
		NTrims:    nTrims,
		MaxSols:   maxSols,
	}

	size := uint64(1) << sizeShift
	p.halfSize = size / 2
	p.idxShift = partBits + 6
	p.cuckooSize = size >> p.idxShift
	p.cuckooMask = p.cuckooSize - 1
	// grow with cube root of size, hardly affected by trimming
	p.maxPathLen = 8 << (uint32(sizeShift) / 3)
	p.keyBits = 64 - sizeShift
	p.keyMask = (uint64(1) << p.keyBits) - 1
	p.maxDrift = uint64(1) << (p.keyBits - p.idxShift)
	p.partMask = (uint64(1) << partBits) - 1
	p.nonceShift = sizeShift - 1 - partBits
	p.nodePartMsk = (p.halfSize - 1) >> partBits

	return p
}

// HalfSize is N/2, the size of each side of the bipartite node set.
func (p Params) HalfSize() uint64 { return p.halfSize }

// CuckooSize is the capacity of the cuckoo table.
func (p Params) CuckooSize() uint64 { return p.cuckooSize }

// MaxPathLen is the path traversal safety bound.
func (p Params) MaxPathLen() uint32 { return p.maxPathLen }

// Validate rejects parameter combinations the solver cannot run with.
func (p Params) Validate() error {
	if p.SizeShift < 4 {
		return fmt.Errorf("cuckoo: sizeshift %d too small", p.SizeShift)
	}
	if p.ProofSize == 0 {
		return fmt.Errorf("cuckoo: proofsize must be nonzero")
	}
	if p.NThreads == 0 {
		return fmt.Errorf("cuckoo: nthreads must be nonzero")
	}
	if p.idxShift >= p.SizeShift {
		return fmt.Errorf("cuckoo: partbits %d too large for sizeshift %d", p.PartBits, p.SizeShift)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("sizeshift=%d proofsize=%d partbits=%d nthreads=%d ntrims=%d maxsols=%d",
		p.SizeShift, p.ProofSize, p.PartBits, p.NThreads, p.NTrims, p.MaxSols)
}
