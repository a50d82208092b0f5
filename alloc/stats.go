// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "github.com/cznic/mathutil"

// Stats is a point-in-time snapshot of the heap's bookkeeping, the same
// role falloc.go's AllocStats plays for lldb's file Allocator. Non-goals
// in spec.md §1 exclude "fragmentation telemetry beyond what implementers
// may add" - BySizeClass is exactly such an addition, not a requirement.
type Stats struct {
	TotalBytes  int64 // total bytes ever obtained from the heap source
	AllocBlocks int   // live allocated blocks
	AllocBytes  int64 // bytes in live allocated blocks, header/footer included
	FreeBlocks  int   // blocks currently on the free list
	FreeBytes   int64 // bytes in free blocks, header/footer included

	// BySizeClass counts live allocations by mathutil.BitLen(size-1) of
	// their block size (the ceiling of its log2), the same log2 bucketing
	// memory.go uses for
	// its segregated free lists, repurposed here purely as a histogram.
	BySizeClass map[uint]int
}

func sizeClass(size uint32) uint {
	return uint(mathutil.BitLen(int(size) - 1))
}

func (h *Heap) recordAlloc(size uint32) {
	h.allocBlocks++
	h.allocBytes += int64(size)
	h.bySizeClass[sizeClass(size)]++
}

func (h *Heap) recordFree(size uint32) {
	h.allocBlocks--
	h.allocBytes -= int64(size)
	class := sizeClass(size)
	h.bySizeClass[class]--
	if h.bySizeClass[class] == 0 {
		delete(h.bySizeClass, class)
	}
}

// reclassify adjusts the byte total and size-class histogram for a live
// block whose size changed from oldSize to newSize without changing the
// live block count, used by Reallocate's in-place grow path.
func (h *Heap) reclassify(oldSize, newSize uint32) {
	h.allocBytes += int64(newSize) - int64(oldSize)

	oldClass := sizeClass(oldSize)
	h.bySizeClass[oldClass]--
	if h.bySizeClass[oldClass] == 0 {
		delete(h.bySizeClass, oldClass)
	}
	h.bySizeClass[sizeClass(newSize)]++
}

// Stats returns a snapshot of the heap's current bookkeeping. Free-block
// counters are computed by walking the free list (cheap: proportional to
// the number of free blocks, not the whole heap); allocated-block
// counters are tracked incrementally by Allocate/Free/Reallocate.
func (h *Heap) Stats() Stats {
	st := Stats{
		TotalBytes:  h.totalBytes,
		AllocBlocks: h.allocBlocks,
		AllocBytes:  h.allocBytes,
		BySizeClass: make(map[uint]int, len(h.bySizeClass)),
	}
	for k, v := range h.bySizeClass {
		st.BySizeClass[k] = v
	}

	for bp := h.freeHead; bp != 0; bp = h.freeNext(bp) {
		st.FreeBlocks++
		st.FreeBytes += int64(h.size(bp))
	}

	return st
}
