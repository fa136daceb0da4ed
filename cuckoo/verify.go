// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "fmt"

// edge is one endpoint pair derived from a nonce, used only by the
// verifier below — never by Solve.
type edge struct {
	u uint64
	v uint64

	usedU bool
	usedV bool
}

// Verify is an independent check that nonces form a PROOFSIZE-cycle
// under header/params, built directly from the same edgeOracle Solve
// uses. It is NOT part of the solver core — a full node does this
// check independently of whoever produced the proof — but every
// proof Solve returns should round-trip through it, so it lives here
// to support that.
func Verify(header Header, p Params, nonces []uint32) error {
	if uint32(len(nonces)) != p.ProofSize {
		return fmt.Errorf("cuckoo: proof has %d nonces, want %d", len(nonces), p.ProofSize)
	}

	oracle := newEdgeOracle(header, p)
	edges := make([]*edge, len(nonces))
	for i, n := range nonces {
		if i != 0 && nonces[i] <= nonces[i-1] {
			return fmt.Errorf("cuckoo: nonces not strictly ascending at index %d", i)
		}
		if uint64(n) >= p.halfSize {
			return fmt.Errorf("cuckoo: nonce %d out of range", n)
		}
		edges[i] = &edge{
			u: oracle.sipnode(uint64(n), uint64(sideU)),
			v: oracle.sipnode(uint64(n), uint64(sideV)),
		}
	}

	if findCycleLength(edges) != len(edges) {
		return fmt.Errorf("cuckoo: nonces do not form a %d-cycle", p.ProofSize)
	}

	return nil
}

// findCycleLength walks edges starting from edge 0, alternating
// between matching on U and matching on V until no unused match
// remains, counting steps. Even indices in the implicit u/v sequence
// belong to the U side, odd to the V side, mirroring the bipartite
// structure of the graph. Returns the cycle length found, or a value
// other than len(edges) if the edges do not close into a single
// simple cycle through every one of them.
func findCycleLength(edges []*edge) int {
	i := 0
	matchU := true
	cycle := 0

	for {
		found := false
		if matchU {
			for j := range edges {
				if j != i && !edges[j].usedU && edges[i].u == edges[j].u {
					edges[i].usedU = true
					edges[j].usedU = true
					i = j
					matchU = false
					cycle++
					found = true
					break
				}
			}
		} else {
			for j := range edges {
				if j != i && !edges[j].usedV && edges[i].v == edges[j].v {
					edges[i].usedV = true
					edges[j].usedV = true
					i = j
					matchU = true
					cycle++
					found = true
					break
				}
			}
		}
		if !found {
			break
		}
	}

	return cycle
}
