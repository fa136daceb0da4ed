// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import (
	"encoding/binary"

	"github.com/dchest/siphash"
)

// proofFingerprint derives a compact, log-friendly identifier for a
// proof, keyed by the header it was found against. Purely
// informational: it plays no part in correctness, unlike the oracle's
// own hand-rolled siphash24, which must stay bit-exact.
func proofFingerprint(header Header, nonces []uint32) uint64 {
	k0 := binary.LittleEndian.Uint64(header[0:8])
	k1 := binary.LittleEndian.Uint64(header[8:16])

	buf := make([]byte, 4*len(nonces))
	for i, n := range nonces {
		binary.LittleEndian.PutUint32(buf[i*4:], n)
	}

	return siphash.Hash(k0, k1, buf)
}
