// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

// side names the two halves of the bipartite node set.
type side uint64

const (
	sideU side = 0
	sideV side = 1
)

// countNodeDeg is trimming kernel A: for every alive edge this thread
// owns, compute its endpoint on the given side and, if it falls in
// the current partition, buffer it and prefetch its degree-counter
// slot. After the block, apply degree.set for each buffered node.
// The buffer-then-apply shape hides the degree counter's cache misses
// behind the nonce iteration.
func countNodeDeg(ctx *Context, threadID uint32, uorv side, part uint64) {
	alive := ctx.alive
	degree := ctx.degree
	var buffer [64]uint64

	for block := uint64(threadID) * 64; block < ctx.params.halfSize; block += uint64(ctx.params.NThreads) * 64 {
		bsize := 0
		word := alive.block(block)
		forEachAlive(word, block, func(nonce uint64) {
			u := ctx.oracle.rawSipnode(nonce, uint64(uorv))
			if u&ctx.params.partMask == part {
				node := u >> ctx.params.PartBits
				buffer[bsize] = node
				bsize++
				degree.prefetch(node)
			}
		})
		for i := 0; i < bsize; i++ {
			degree.set(buffer[i])
		}
	}
}

// killLeafEdges is trimming kernel B: identical iteration to kernel A,
// but each buffer entry packs both the nonce and the partitioned node
// so the second pass can test degree and kill leaves without
// recomputing the oracle call.
func killLeafEdges(ctx *Context, threadID uint32, uorv side, part uint64) {
	alive := ctx.alive
	degree := ctx.degree
	p := ctx.params
	var buffer [64]uint64

	for block := uint64(threadID) * 64; block < p.halfSize; block += uint64(p.NThreads) * 64 {
		bsize := 0
		word := alive.block(block)
		forEachAlive(word, block, func(nonce uint64) {
			u := ctx.oracle.rawSipnode(nonce, uint64(uorv))
			if u&p.partMask == part {
				node := u >> p.PartBits
				buffer[bsize] = nonce<<p.nonceShift | node
				bsize++
				degree.prefetch(node)
			}
		})
		for i := 0; i < bsize; i++ {
			bi := buffer[i]
			if !degree.test(bi & p.nodePartMsk) {
				n := block | (bi >> p.nonceShift)
				alive.reset(n, threadID)
			}
		}
	}
}
