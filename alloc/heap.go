// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"github.com/cznic/hmalloc/heapsrc"
)

// Heap is a boundary-tag allocator with an explicit doubly-linked free
// list, growing over a heapsrc.Source the way mm.c grows over mem_sbrk.
// It is not safe for concurrent use (spec.md §5): every exported method
// must run to completion on the caller's goroutine before another call is
// made against the same Heap.
type Heap struct {
	src heapsrc.Source

	heapList uint32 // prologue's payload pointer; anchors the physical walk
	freeHead uint32 // head of the explicit free list; 0 means empty

	allocBlocks int
	allocBytes  int64
	totalBytes  int64
	bySizeClass map[uint]int
}

// New allocates and returns a Heap backed by src, performing the same
// prologue/epilogue bootstrap and initial CHUNKSIZE extension as mm_init
// (spec.md §4.E "Init"). src must be freshly constructed; New is not
// idempotent across calls on an already-grown Source.
func New(src heapsrc.Source) (*Heap, error) {
	h := &Heap{src: src, bySizeClass: map[uint]int{}}
	if err := h.init(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Heap) buf() []byte { return h.src.Bytes() }

func (h *Heap) init() error {
	base, err := h.src.Extend(minBlockWords * WordSize)
	if err != nil {
		return err
	}
	h.totalBytes += minBlockWords * WordSize

	// word0 @ base: alignment pad, already zeroed by Extend.
	prologueBP := base + 2*WordSize
	h.heapList = prologueBP
	h.setTag(prologueBP, DoubleWord, true)

	epilogueBP := prologueBP + DoubleWord
	h.setWord(h.header(epilogueBP), pack(0, true))

	h.freeHead = 0

	if _, err := h.extend(ChunkSize / WordSize); err != nil {
		return err
	}
	return nil
}

// Extend grows the heap by n words (rounded up to an even count to
// preserve double-word alignment, per spec.md §4.E "Extend") and returns
// the payload pointer of the resulting, already-coalesced free block.
func (h *Heap) Extend(n int) (uint32, error) { return h.extend(n) }

func (h *Heap) extend(n int) (uint32, error) {
	if n%2 != 0 {
		n++
	}
	size := uint32(n) * WordSize

	base, err := h.src.Extend(int(size))
	if err != nil {
		return 0, err
	}
	h.totalBytes += int64(size)

	bp := base
	h.setTag(bp, size, false)

	epilogueBP := h.nextPhys(bp)
	h.setWord(h.header(epilogueBP), pack(0, true))

	return h.coalesce(bp), nil
}

// adjustSize turns a requested payload size into the block size to
// search/place for, per spec.md §4.E "Allocate" step 2.
func adjustSize(size uint32) uint32 {
	if size <= DoubleWord {
		return 2 * DoubleWord
	}
	return DoubleWord * ((size + DoubleWord + DoubleWord - 1) / DoubleWord)
}

// findFit is the first-fit search of spec.md §4.E step 3. Unlike the C
// reference (which stops one node early because its loop condition checks
// `next == nil` instead of the current node), this iterates while the
// current node is non-nil, so a fit sitting at the tail of the list is
// never missed - the fix spec.md §9's open question recommends.
func (h *Heap) findFit(asize uint32) uint32 {
	for bp := h.freeHead; bp != 0; bp = h.freeNext(bp) {
		if h.size(bp) >= asize {
			return bp
		}
	}
	return 0
}

// Allocate implements spec.md §4.E "Allocate". It returns (0, nil) for a
// zero-sized request (spurious, no allocation performed) and (0, err) on
// out-of-memory, forwarding whatever error the backing heapsrc.Source
// reported.
func (h *Heap) Allocate(size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}

	asize := adjustSize(size)

	if bp := h.findFit(asize); bp != 0 {
		h.place(bp, asize)
		h.recordAlloc(h.size(bp))
		return bp, nil
	}

	extendSize := int(asize)
	if ChunkSize > extendSize {
		extendSize = ChunkSize
	}

	bp, err := h.extend(extendSize / WordSize)
	if err != nil {
		return 0, err
	}

	h.place(bp, asize)
	h.recordAlloc(h.size(bp))
	return bp, nil
}

// Free implements spec.md §4.E "Free". Freeing a pointer not obtained
// from Allocate/Reallocate, or freeing the same pointer twice, is
// undefined per spec.md §7 and is not checked for.
func (h *Heap) Free(bp uint32) {
	size := h.size(bp)
	h.recordFree(size)
	h.setTag(bp, size, false)
	h.coalesce(bp)
}

// Reallocate implements spec.md §4.E "Realloc": in-place identity when
// the block already fits, in-place forward-merge into a free next
// neighbor when that suffices, otherwise allocate/copy/free. The nil-bp
// and zero-size edge cases are the conventional ones spec.md §4.E.1 notes
// the reference source itself does not handle.
func (h *Heap) Reallocate(bp uint32, size uint32) (uint32, error) {
	if bp == 0 {
		return h.Allocate(size)
	}
	if size == 0 {
		h.Free(bp)
		return 0, nil
	}

	original := h.size(bp)
	wanted := size + DoubleWord

	if wanted <= original {
		return bp, nil
	}

	nextBP := h.nextPhys(bp)
	if !h.allocated(nextBP) {
		nextSize := h.size(nextBP)
		if original+nextSize >= wanted {
			h.removeFree(nextBP)
			h.reclassify(original, original+nextSize)
			h.setTag(bp, original+nextSize, true)
			return bp, nil
		}
	}

	newBP, err := h.Allocate(size)
	if err != nil {
		return 0, err
	}

	copyLen := original - DoubleWord
	if uint32(size) < copyLen {
		copyLen = size
	}
	copy(h.payload(newBP)[:copyLen], h.payload(bp)[:copyLen])
	h.Free(bp)
	return newBP, nil
}

// Payload returns a slice over bp's live payload bytes. The slice is a
// view into the heap's backing store; it is invalidated by any
// subsequent call that might move the backing array (a heapsrc.Pool
// growing past its current capacity) and must not be retained across
// such calls.
func (h *Heap) Payload(bp uint32) []byte { return h.payload(bp) }

// BlockSize returns the total size, header and footer included, of the
// block at bp.
func (h *Heap) BlockSize(bp uint32) uint32 { return h.size(bp) }
