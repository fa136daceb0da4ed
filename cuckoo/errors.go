// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "fmt"

// FatalKind discriminates the solver's fatal conditions. There are no
// retries and no partial-failure recovery for any of them: the worker
// that hits one stops, and once every worker has joined the solve
// returns that SolverError and no proofs.
type FatalKind int

const (
	// FatalAllocation: the solver could not allocate the alive set,
	// degree counter, cuckoo table or proof buffer. Go's allocator
	// does not hand user code a recoverable failure the way calloc
	// does, so this kind is defined for completeness but not
	// reachable through ordinary make/append.
	FatalAllocation FatalKind = iota

	// FatalPathOverflow: a cuckoo-table path walk exceeded MaxPathLen,
	// indicating a stale cycle from a prior partial insertion.
	FatalPathOverflow

	// FatalOverloadedTrim: post-trim alive load reached 90% of
	// CuckooSize; trimming failed to shrink the graph enough.
	FatalOverloadedTrim
)

func (k FatalKind) String() string {
	switch k {
	case FatalAllocation:
		return "allocation failure"
	case FatalPathOverflow:
		return "maximum path length exceeded"
	case FatalOverloadedTrim:
		return "overloaded"
	default:
		return "unknown fatal condition"
	}
}

// SolverError wraps one of the solver's fatal conditions. Solve
// returns one instead of reaching for exit()/pthread_exit(), which
// Go's concurrency model has no equivalent of anyway.
type SolverError struct {
	Kind   FatalKind
	Detail string
}

func (e *SolverError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func fatalf(kind FatalKind, format string, args ...interface{}) *SolverError {
	return &SolverError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
