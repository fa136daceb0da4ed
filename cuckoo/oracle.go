// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

// Header is the 32-byte value the edge oracle is seeded from. It is a
// plain alias of btcd's chainhash.Hash, a fixed-size hash type, rather
// than a bare [32]byte or []byte.
type Header = chainhash.Hash

// nodeOracle is the edge oracle's interface as the solver sees it,
// factored out so a Context can be driven by a fixed node mapping in
// tests instead of a live siphash24 schedule.
type nodeOracle interface {
	rawSipnode(nonce, side uint64) uint64
	sipnode(nonce, side uint64) uint64
}

// edgeOracle wraps the keyed hash primitive and answers sipnode
// queries for a single header. It is immutable after newEdgeOracle
// returns and safe for concurrent use by every solver worker.
type edgeOracle struct {
	v        [4]uint64
	halfSize uint64
}

// newEdgeOracle derives the SipHash key schedule from header: hash the
// input through blake2b-256 and split the digest into four 64-bit
// little-endian words.
func newEdgeOracle(header Header, p Params) edgeOracle {
	digest := blake2b.Sum256(header[:])

	var v [4]uint64
	v[0] = binary.LittleEndian.Uint64(digest[0:8])
	v[1] = binary.LittleEndian.Uint64(digest[8:16])
	v[2] = binary.LittleEndian.Uint64(digest[16:24])
	v[3] = binary.LittleEndian.Uint64(digest[24:32])

	return edgeOracle{v: v, halfSize: p.halfSize}
}

// rawSipnode is the masked form used during trimming: the siphash
// output masked down to [0, HALFSIZE), with no side bit folded in, so
// the caller can test `& PART_MASK` and shift off the partition bits
// directly.
func (o edgeOracle) rawSipnode(nonce uint64, side uint64) uint64 {
	return siphash24(o.v, 2*nonce+side) & (o.halfSize - 1)
}

// sipnode returns the final endpoint index for (nonce, side): the
// masked node folded with the side bit as its low bit, so U and V
// nodes that happen to share a numeric value are still distinct keys
// in the cuckoo table.
func (o edgeOracle) sipnode(nonce uint64, side uint64) uint64 {
	return (o.rawSipnode(nonce, side) << 1) | side
}
