// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// coalesce implements spec.md §4.C. bp has already had its header/footer
// rewritten as free but is not yet on the free list. It merges bp with
// whichever physical neighbors are free, returning the (possibly shifted)
// payload pointer of the surviving, now-listed, free block.
//
// The prologue and epilogue both carry the allocated bit set, so a block
// at either edge of the heap naturally takes the "neighbor is allocated"
// branch below without any special-casing (spec.md §4.C rationale).
func (h *Heap) coalesce(bp uint32) uint32 {
	prevBP := h.prevPhys(bp)
	nextBP := h.nextPhys(bp)
	prevAlloc := h.allocated(prevBP)
	nextAlloc := h.allocated(nextBP)
	size := h.size(bp)

	switch {
	case prevAlloc && nextAlloc:
		h.addFree(bp)
		return bp

	case prevAlloc && !nextAlloc:
		h.removeFree(nextBP)
		size += h.size(nextBP)
		h.setTag(bp, size, false)
		h.addFree(bp)
		return bp

	case !prevAlloc && nextAlloc:
		h.removeFree(prevBP)
		size += h.size(prevBP)
		h.setTag(prevBP, size, false)
		h.addFree(prevBP)
		return prevBP

	default: // !prevAlloc && !nextAlloc
		h.removeFree(prevBP)
		h.removeFree(nextBP)
		size += h.size(prevBP) + h.size(nextBP)
		h.setTag(prevBP, size, false)
		h.addFree(prevBP)
		return prevBP
	}
}
