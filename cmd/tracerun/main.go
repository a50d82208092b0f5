// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tracerun drives an alloc.Heap through a randomized trace of
// allocate/free/realloc operations, the same role dbm/crash's dummie
// process and lldb/lab's main play for their own packages: not a
// benchmark, a structural exerciser that calls Verify often enough to
// catch a broken invariant close to the operation that broke it.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/cznic/hmalloc/alloc"
	"github.com/cznic/hmalloc/dump"
	"github.com/cznic/hmalloc/heapsrc"
)

var (
	oOps      = flag.Int("ops", 100000, "number of operations to run")
	oMaxLive  = flag.Int("live", 512, "maximum number of simultaneously live blocks")
	oMaxSize  = flag.Int("size", 4096, "maximum payload size requested")
	oSeed     = flag.Int64("seed", 1, "PRNG seed, for reproducing a failure")
	oVerify   = flag.Int("verify-every", 1000, "run Verify after this many operations")
	oDumpFile = flag.String("dump", "", "if set, write a final heap snapshot to this path")
)

type live struct {
	bp   uint32
	size int
	tag  byte // fill byte written into the payload, checked before Free
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	rng := rand.New(rand.NewSource(*oSeed))

	h, err := alloc.New(heapsrc.NewPool(0))
	if err != nil {
		log.Fatalf("alloc.New: %v", err)
	}

	var blocks []live
	start := time.Now()

	for i := 0; i < *oOps; i++ {
		switch {
		case len(blocks) == 0 || (len(blocks) < *oMaxLive && rng.Intn(3) != 0):
			size := 1 + rng.Intn(*oMaxSize)
			bp, err := h.Allocate(uint32(size))
			if err != nil {
				log.Fatalf("op %d: Allocate(%d): %v", i, size, err)
			}
			tag := byte(rng.Intn(256))
			fill(h.Payload(bp), tag)
			blocks = append(blocks, live{bp: bp, size: size, tag: tag})

		case rng.Intn(4) == 0:
			idx := rng.Intn(len(blocks))
			b := blocks[idx]
			checkFill(h.Payload(b.bp), b.tag, i)
			newSize := 1 + rng.Intn(*oMaxSize)
			nbp, err := h.Reallocate(b.bp, uint32(newSize))
			if err != nil {
				log.Fatalf("op %d: Reallocate(%#x, %d): %v", i, b.bp, newSize, err)
			}
			tag := byte(rng.Intn(256))
			fill(h.Payload(nbp), tag)
			blocks[idx] = live{bp: nbp, size: newSize, tag: tag}

		default:
			idx := rng.Intn(len(blocks))
			b := blocks[idx]
			checkFill(h.Payload(b.bp), b.tag, i)
			h.Free(b.bp)
			blocks[idx] = blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
		}

		if *oVerify > 0 && i%*oVerify == 0 {
			if _, err := h.Verify(reportCorrupt); err != nil {
				log.Fatalf("op %d: Verify failed: %v", i, err)
			}
		}
	}

	if _, err := h.Verify(reportCorrupt); err != nil {
		log.Fatalf("final Verify failed: %v", err)
	}

	st := h.Stats()
	log.Printf("done: %d ops in %s, %d live blocks, %d total bytes, %d alloc bytes, %d free bytes",
		*oOps, time.Since(start), len(blocks), st.TotalBytes, st.AllocBytes, st.FreeBytes)
	log.Printf("size classes: %v", st.BySizeClass)

	if *oDumpFile != "" {
		writeDump(h, *oDumpFile)
	}
}

func fill(p []byte, tag byte) {
	for i := range p {
		p[i] = tag
	}
}

func checkFill(p []byte, tag byte, op int) {
	for i, b := range p {
		if b != tag {
			log.Fatalf("op %d: payload corrupted at byte %d: got %#x, want %#x", op, i, b, tag)
		}
	}
}

func reportCorrupt(err error) bool {
	log.Printf("corruption: %v", err)
	return false // keep walking; collect every violation before Verify returns
}

func writeDump(h *alloc.Heap, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("dump: %v", err)
	}
	defer f.Close()
	if err := dump.Write(h, f, dump.Options{WipeFree: true}); err != nil {
		log.Fatalf("dump.Write: %v", err)
	}
}
