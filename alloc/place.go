// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// place carves asize bytes out of the free block bp (whose current size
// is csize >= asize), splitting off and re-listing a free remainder when
// it would be at least MinBlockSize, per spec.md §4.D. bp must currently
// be on the free list; place always removes it.
func (h *Heap) place(bp, asize uint32) {
	csize := h.size(bp)
	h.removeFree(bp)

	if csize-asize >= MinBlockSize {
		h.setTag(bp, asize, true)
		remainder := h.nextPhys(bp)
		h.setTag(remainder, csize-asize, false)
		h.addFree(remainder)
		return
	}

	h.setTag(bp, csize, true)
}
