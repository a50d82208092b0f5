// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

// This file is spec.md §4.B: insert/unlink on the explicit doubly-linked
// free list threaded through a free block's first two payload words.
// next lives at bp+0, prev at bp+WordSize. A zero bp means nil, matching
// the convention that offset 0 (the alignment pad) is never a valid
// payload pointer.

func (h *Heap) freeNext(bp uint32) uint32 { return h.word(bp) }
func (h *Heap) freePrev(bp uint32) uint32 { return h.word(bp + WordSize) }

func (h *Heap) setFreeNext(bp, v uint32) { h.setWord(bp, v) }
func (h *Heap) setFreePrev(bp, v uint32) { h.setWord(bp+WordSize, v) }

// addFree inserts bp, a free block not currently on the list, at the head
// (LIFO), per spec.md §4.B.
func (h *Heap) addFree(bp uint32) {
	if h.freeHead == 0 {
		h.setFreeNext(bp, 0)
		h.setFreePrev(bp, 0)
		h.freeHead = bp
		return
	}

	old := h.freeHead
	h.setFreePrev(bp, 0)
	h.setFreeNext(bp, old)
	h.setFreePrev(old, bp)
	h.freeHead = bp
}

// removeFree unlinks bp, currently on the free list, decomposed into the
// four cases on (prev, next) spec.md §4.B specifies.
func (h *Heap) removeFree(bp uint32) {
	prev := h.freePrev(bp)
	next := h.freeNext(bp)

	switch {
	case prev != 0 && next != 0:
		h.setFreeNext(prev, next)
		h.setFreePrev(next, prev)
	case prev != 0 && next == 0:
		h.setFreeNext(prev, 0)
	case prev == 0 && next != 0:
		h.setFreePrev(next, 0)
		h.freeHead = next
	default: // prev == 0 && next == 0
		h.freeHead = 0
	}
}
