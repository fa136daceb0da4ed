// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dblokhin/cuckoo-solver/cuckoo"
)

func init() {
	// Output to stdout instead of the default stderr
	logrus.SetOutput(os.Stdout)

	// Log the info severity or above; -v lowers this to debug.
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	sizeShift := flag.Uint("sizeshift", 20, "log2 of the edge count")
	proofSize := flag.Uint("proofsize", 42, "target cycle length")
	partBits := flag.Uint("partbits", 0, "degree counter partition bits")
	nThreads := flag.Uint("threads", 4, "worker goroutines")
	nTrims := flag.Uint("trims", 7, "trimming rounds")
	maxSols := flag.Uint("maxsols", 4, "solution buffer size")
	seed := flag.String("seed", "cuckoo", "header bytes to hash for the edge oracle key")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	var header cuckoo.Header
	copy(header[:], *seed)

	p := cuckoo.NewParams(
		uint8(*sizeShift),
		uint32(*proofSize),
		uint8(*partBits),
		uint32(*nThreads),
		uint32(*nTrims),
		uint32(*maxSols),
	)

	logrus.Infof("solving with %s", p)

	result, err := cuckoo.Solve(header, p)
	if err != nil {
		logrus.Fatalf("solve failed: %v", err)
	}

	if len(result.Proofs) == 0 {
		logrus.Info("no cycle found")
		return
	}

	for i, sol := range result.Proofs {
		if err := cuckoo.Verify(header, p, sol.Nonces); err != nil {
			logrus.Errorf("proof %d failed self-verification: %v", i, err)
			continue
		}
		logrus.Infof("proof %d: %d nonces, fingerprint %016x", i, len(sol.Nonces), sol.Fingerprint)
	}
}
