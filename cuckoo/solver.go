// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Solution is one reported proof: PROOFSIZE nonces whose edges form a
// simple cycle of length PROOFSIZE in the bipartite graph.
type Solution struct {
	Nonces      []uint32
	Fingerprint uint64
}

// Result is everything Solve returns on success: zero or more
// solutions and the header/params they were found against.
type Result struct {
	Header Header
	Params Params
	Proofs []Solution
}

// Context is the solver's single owning aggregate, passed to every
// worker goroutine by reference. It holds the alive set throughout a
// solve, the degree counter only during trimming, and the cuckoo table
// only after — the two never coexist, which bounds peak memory.
type Context struct {
	params Params
	oracle nodeOracle
	header Header

	alive  *shrinkingset
	degree *degreeCounter
	cuckoo *cuckooHash

	barrier *barrier

	solsMu sync.Mutex
	sols   []Solution
	nsols  uint32

	log *logrus.Entry
}

// NewContext builds a solver context for one header and parameter
// set. The degree counter is allocated up front (trimming's first
// consumer); the cuckoo table is allocated later, after trimming
// frees the degree counter.
func NewContext(header Header, p Params) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	onceBits := p.halfSize >> p.PartBits

	ctx := &Context{
		params:  p,
		oracle:  newEdgeOracle(header, p),
		header:  header,
		alive:   newShrinkingset(p.halfSize, p.NThreads),
		degree:  newDegreeCounter(onceBits),
		barrier: newBarrier(int(p.NThreads)),
		log:     logrus.WithField("component", "cuckoo"),
	}

	return ctx, nil
}

// Solve runs the full two-phase solver to completion: ntrims rounds of
// edge trimming, then a single cycle-finding pass. It blocks until
// every worker has joined and returns whatever proofs were found, or
// the first fatal SolverError any worker hit.
func Solve(header Header, p Params) (Result, error) {
	ctx, err := NewContext(header, p)
	if err != nil {
		return Result{}, err
	}
	return ctx.Run()
}

// Run fans out ctx.params.NThreads worker goroutines, each executing
// the same function, coordinated only by ctx.barrier. The first fatal
// error any worker observes is returned; workers that haven't yet
// reported simply finish — there is no cancellation propagation, so a
// worker that already passed its last barrier runs to completion.
func (ctx *Context) Run() (Result, error) {
	var wg sync.WaitGroup
	errs := make([]error, ctx.params.NThreads)

	for id := uint32(0); id < ctx.params.NThreads; id++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			errs[id] = ctx.worker(id)
		}(id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Result{}, err
		}
	}

	ctx.solsMu.Lock()
	proofs := append([]Solution(nil), ctx.sols...)
	ctx.solsMu.Unlock()

	return Result{Header: ctx.header, Params: ctx.params, Proofs: proofs}, nil
}

// worker is the per-thread body every goroutine runs: ntrims rounds of
// trimming, then the cycle-finding sweep.
func (ctx *Context) worker(id uint32) error {
	p := ctx.params

	if id == 0 {
		load := 100 * p.halfSize / p.cuckooSize
		ctx.log.Infof("initial load %d%%", load)
	}

	for round := uint32(1); round <= p.NTrims; round++ {
		for _, uorv := range [2]side{sideU, sideV} {
			for part := uint64(0); part <= p.partMask; part++ {
				if id == 0 {
					ctx.degree.reset()
				}
				ctx.barrier.wait()

				countNodeDeg(ctx, id, uorv, part)
				ctx.barrier.wait()

				killLeafEdges(ctx, id, uorv, part)
				ctx.barrier.wait()

				if id == 0 {
					load := 100 * ctx.alive.count() / p.cuckooSize
					ctx.log.Debugf("round %d part %s%d load %d%%", round, sideLabel(uorv), part, load)
				}
			}
		}
	}

	if id == 0 {
		load := 100 * ctx.alive.count() / p.cuckooSize
		if load >= 90 {
			ctx.log.Warn("overloaded! exiting...")
		} else {
			ctx.degree = nil
			ctx.cuckoo = newCuckooHash(p)
		}
	}
	ctx.barrier.wait()
	if ctx.cuckoo == nil {
		// every worker observes thread 0's decision, synchronized by
		// the barrier it just crossed
		return fatalf(FatalOverloadedTrim, "post-trim load >= 90%%")
	}

	return ctx.findCycles(id)
}

func sideLabel(s side) string {
	if s == sideU {
		return "U"
	}
	return "V"
}

// findCycles is the per-thread cycle-finding sweep: for every alive
// edge this thread owns, walk both endpoints' paths through the
// cuckoo table, check for a collision, and either recover a proof or
// extend the table with the edge.
func (ctx *Context) findCycles(id uint32) error {
	p := ctx.params
	cuckoo := ctx.cuckoo
	us := make([]uint64, p.maxPathLen)
	vs := make([]uint64, p.maxPathLen)

	var result error
	for block := uint64(id) * 64; block < p.halfSize; block += uint64(p.NThreads) * 64 {
		if result != nil {
			break
		}
		word := ctx.alive.block(block)
		forEachAlive(word, block, func(nonce uint64) {
			if result != nil {
				return
			}

			u0 := ctx.oracle.sipnode(nonce, uint64(sideU))
			v0 := ctx.oracle.sipnode(nonce, uint64(sideV))
			if u0 == 0 {
				// node 0 is reserved as the cuckoo-table sentinel
				return
			}

			us[0] = u0
			vs[0] = v0
			nu, err := path(cuckoo, cuckoo.get(u0), us, p.maxPathLen)
			if err != nil {
				result = err
				return
			}
			nv, err := path(cuckoo, cuckoo.get(v0), vs, p.maxPathLen)
			if err != nil {
				result = err
				return
			}

			if us[nu] == vs[nv] {
				min := nu
				if nv < min {
					min = nv
				}
				nu -= min
				nv -= min
				for us[nu] != vs[nv] {
					nu++
					nv++
				}
				length := nu + nv + 1
				ctx.log.Debugf("%d-cycle found at %d:%d%%", length, id, nonce*100/p.halfSize)
				if uint32(length) == p.ProofSize {
					ctx.reportCycle(us[:nu+1], vs[:nv+1])
				}
				return
			}

			if nu < nv {
				for i := nu; i > 0; i-- {
					cuckoo.set(us[i], us[i-1])
				}
				cuckoo.set(u0, v0)
			} else {
				for i := nv; i > 0; i-- {
					cuckoo.set(vs[i], vs[i-1])
				}
				cuckoo.set(v0, u0)
			}
		})
	}

	return result
}

// path walks the cuckoo table from u, recording every node visited
// into us, until it reaches the 0 sentinel. Exceeding MaxPathLen steps
// means the table holds a stale cycle from a prior partial insertion —
// fatal.
func path(cuckoo *cuckooHash, u uint64, us []uint64, maxPathLen uint32) (uint32, error) {
	nu := uint32(0)
	for u != 0 {
		nu++
		if nu >= maxPathLen {
			// stale cycle from a prior partial insertion: find where u
			// already occurs earlier in this same path (search
			// backward so the index never runs past what's actually
			// been written to us).
			for nu > 0 {
				nu--
				if us[nu] == u {
					return 0, fatalf(FatalPathOverflow, "illegal %d-cycle", maxPathLen-nu)
				}
			}
			return 0, fatalf(FatalPathOverflow, "maximum path length exceeded")
		}
		us[nu] = u
		u = cuckoo.get(u)
	}
	return nu, nil
}

// reportCycle recovers the proof from two paths that met. It reserves
// a solution slot, scans every alive edge, and records the nonces
// whose edge belongs to the cycle.
func (ctx *Context) reportCycle(us, vs []uint64) {
	if atomic.LoadUint32(&ctx.nsols) >= ctx.params.MaxSols {
		// solution buffer full: silently skip, keep searching
		return
	}

	cycle := make(map[[2]uint64]struct{}, len(us)+len(vs))
	addEdge := func(a, b uint64) { cycle[[2]uint64{a, b}] = struct{}{} }

	addEdge(us[0], vs[0])
	for k := len(us) - 2; k >= 0; k-- {
		addEdge(us[(k+1)&^1], us[k|1])
	}
	for k := len(vs) - 2; k >= 0; k-- {
		addEdge(vs[k|1], vs[(k+1)&^1])
	}

	if atomic.AddUint32(&ctx.nsols, 1) > ctx.params.MaxSols {
		return
	}

	p := ctx.params
	proofSize := int(p.ProofSize)
	nonces := make([]uint32, 0, proofSize)

	for block := uint64(0); block < p.halfSize; block += 64 {
		word := ctx.alive.block(block)
		forEachAlive(word, block, func(nonce uint64) {
			if len(nonces) >= proofSize {
				return
			}
			e := [2]uint64{ctx.oracle.sipnode(nonce, uint64(sideU)), ctx.oracle.sipnode(nonce, uint64(sideV))}
			if _, ok := cycle[e]; ok {
				nonces = append(nonces, uint32(nonce))
				if proofSize > 2 {
					delete(cycle, e)
				}
			}
		})
	}

	if len(nonces) != proofSize {
		ctx.log.Errorf("proof recovery found %d of %d nonces", len(nonces), proofSize)
		return
	}

	sol := Solution{
		Nonces:      nonces,
		Fingerprint: proofFingerprint(ctx.header, nonces),
	}

	ctx.solsMu.Lock()
	ctx.sols = append(ctx.sols, sol)
	ctx.solsMu.Unlock()
}
