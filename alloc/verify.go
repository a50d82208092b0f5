// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"sort"

	"github.com/cznic/sortutil"
)

// nolog is the default log sink for Verify, the same shape lldb's
// falloc.go uses for its own Verify(... log func(error) bool ...): a nop
// that never asks the walk to stop early.
func nolog(error) bool { return false }

// Verify walks the heap once to check the structural invariants of
// spec.md §3/§8 (the "heap-walker test fixture"): header==footer, valid
// sizes, no two adjacent free blocks, free-list membership matching the
// allocated bit, a well-formed doubly-linked free list, and DoubleWord
// alignment of every payload pointer.
//
// log, if non-nil, is called with every violation found; Verify keeps
// walking past a reported error unless log returns true, mirroring
// falloc.go's Verify callback contract. Verify itself always returns the
// first error encountered (or nil), regardless of what log returned.
func (h *Heap) Verify(log func(error) bool) (*Stats, error) {
	if log == nil {
		log = nolog
	}

	var firstErr error
	report := func(err error) bool {
		if firstErr == nil {
			firstErr = err
		}
		return log(err)
	}

	physicalFree := map[uint32]bool{}
	prevWasFree := false
	bp := h.heapList
	hi := h.src.Hi()

	for {
		if bp > hi {
			if report(&CorruptError{Kind: ErrWalkOverrun, Off: bp}) {
				return nil, firstErr
			}
			break
		}
		hdr := h.word(h.header(bp))
		size := hdr & sizeMask
		isAlloc := hdr&allocBit != 0

		if size == 0 {
			if !isAlloc {
				if report(&CorruptError{Kind: ErrBadSize, Off: bp}) {
					return nil, firstErr
				}
			}
			break // epilogue reached; physical walk complete
		}

		if size%DoubleWord != 0 {
			if report(&CorruptError{Kind: ErrBadSize, Off: bp, Arg: size}) {
				return nil, firstErr
			}
		}

		if bp != h.heapList && size < MinBlockSize {
			if report(&CorruptError{Kind: ErrTooSmall, Off: bp, Arg: size}) {
				return nil, firstErr
			}
		}

		if !aligned(bp) {
			if report(&CorruptError{Kind: ErrMisaligned, Off: bp}) {
				return nil, firstErr
			}
		}

		ftr := h.word(bp + size - DoubleWord)
		if ftr != hdr {
			if report(&CorruptError{Kind: ErrHeaderFooterMismatch, Off: bp, Arg: ftr}) {
				return nil, firstErr
			}
		}

		isPrologue := bp == h.heapList
		if !isPrologue {
			if !isAlloc {
				if prevWasFree {
					if report(&CorruptError{Kind: ErrAdjacentFree, Off: bp}) {
						return nil, firstErr
					}
				}
				physicalFree[bp] = true
			}
		}
		prevWasFree = !isAlloc && !isPrologue

		bp += size
	}

	// Cross-check the free list: well-formed doubly-linked structure
	// (invariant 6), and membership exactly matching physicalFree
	// (invariant 5).
	seen := map[uint32]bool{}
	prev := uint32(0)
	for bp := h.freeHead; bp != 0; bp = h.freeNext(bp) {
		if h.freePrev(bp) != prev {
			if report(&CorruptError{Kind: ErrFreeListCycle, Off: bp}) {
				return nil, firstErr
			}
		}
		if seen[bp] {
			if report(&CorruptError{Kind: ErrFreeListCycle, Off: bp}) {
				return nil, firstErr
			}
			break
		}
		seen[bp] = true
		if h.allocated(bp) {
			if report(&CorruptError{Kind: ErrFreeListMembership, Off: bp}) {
				return nil, firstErr
			}
		}
		prev = bp
	}

	if len(seen) != len(physicalFree) {
		if report(&CorruptError{Kind: ErrFreeListMembership, Off: h.heapList, Arg: uint32(len(physicalFree))}) {
			return nil, firstErr
		}
	}
	for bp := range physicalFree {
		if !seen[bp] {
			if report(&CorruptError{Kind: ErrFreeListMembership, Off: bp}) {
				return nil, firstErr
			}
		}
	}

	st := h.Stats()
	return &st, firstErr
}

// FreeBlockOffsets returns the offsets of every block currently on the
// free list, in ascending address order. Package dump uses it to know
// which byte ranges of the heap hold no live payload and can be punched
// out of a snapshot.
func (h *Heap) FreeBlockOffsets() []int64 {
	offs := make(sortutil.Int64Slice, 0, 16)
	for bp := h.freeHead; bp != 0; bp = h.freeNext(bp) {
		offs = append(offs, int64(bp))
	}
	sort.Sort(offs)
	return offs
}
