// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "encoding/binary"

// This file is the Go equivalent of mm.c's HDRP/FTRP/NEXT_BLKP/PREV_BLKP
// macros (spec.md §4.A): pure address arithmetic over a payload offset
// `bp`, assuming the heap is already structurally consistent. None of
// these functions mutate anything or validate bp; they are not exported
// because bp is an internal addressing concept, not something client code
// should ever construct by hand.

// word reads the uint32 word at byte offset off.
func (h *Heap) word(off uint32) uint32 {
	return binary.LittleEndian.Uint32(h.buf()[off:])
}

// setWord writes v as the uint32 word at byte offset off.
func (h *Heap) setWord(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(h.buf()[off:], v)
}

// header is the address of bp's header word (HDRP).
func (h *Heap) header(bp uint32) uint32 { return bp - WordSize }

// footer is the address of bp's footer word (FTRP), valid only for blocks
// that carry one; the epilogue (size 0) does not.
func (h *Heap) footer(bp uint32) uint32 { return bp + h.size(bp) - DoubleWord }

// size decodes the total block size (header+payload+footer, in bytes)
// from bp's header.
func (h *Heap) size(bp uint32) uint32 { return h.word(h.header(bp)) & sizeMask }

// allocated decodes the allocated bit from bp's header.
func (h *Heap) allocated(bp uint32) bool { return h.word(h.header(bp))&allocBit != 0 }

// nextPhys returns the payload pointer of the next block in physical
// address order (NEXT_BLKP).
func (h *Heap) nextPhys(bp uint32) uint32 { return bp + h.size(bp) }

// prevPhys returns the payload pointer of the previous block in physical
// address order (PREV_BLKP), found by reading the size out of the word
// immediately preceding bp's header - the previous block's footer.
func (h *Heap) prevPhys(bp uint32) uint32 {
	prevSize := h.word(bp-DoubleWord) & sizeMask
	return bp - prevSize
}

// setTag writes size/allocated into both the header and footer of the
// block at bp, sized as given (used both to tag a freshly placed/split
// block and to retag one being freed or grown by coalescing).
func (h *Heap) setTag(bp, size uint32, allocated bool) {
	v := pack(size, allocated)
	h.setWord(h.header(bp), v)
	h.setWord(bp+size-DoubleWord, v)
}

// payload returns a slice over bp's payload bytes, sized per its current
// header (MinBlockSize accounting already applied by the caller).
func (h *Heap) payload(bp uint32) []byte {
	n := h.size(bp) - DoubleWord
	return h.buf()[bp : bp+n]
}

// aligned reports whether bp satisfies the DoubleWord alignment contract
// (spec.md §6, invariant 7).
func aligned(bp uint32) bool { return bp%DoubleWord == 0 }
