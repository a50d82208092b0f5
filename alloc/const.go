// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alloc implements a general purpose dynamic memory allocator: a
// boundary-tag allocator with an explicit doubly-linked free list, ported
// from the C reference in a malloc lab exercise into the idiom of
// github.com/cznic/exp/lldb's Allocator (typed block tags, four-case
// coalescing, a Verify walker) but addressing a single growable in-process
// heap instead of a file.
package alloc

const (
	// WordSize is the machine-word unit spec.md defines header/footer
	// and free-list link fields in terms of. Fixed at 4 bytes for this
	// port (the "32-bit platform" variant spec.md §6 names explicitly),
	// which keeps header encoding and free-list link words the same
	// width and cleanly addressable as a uint32 offset. See DESIGN.md
	// OQ-1 for the tradeoff this resolves.
	WordSize = 4

	// DoubleWord is the alignment quantum: every block size is a
	// multiple of it.
	DoubleWord = 2 * WordSize

	// minBlockWords is the minimum block size in words: header + two
	// free-list link words + footer.
	minBlockWords = 4

	// MinBlockSize is minBlockWords in bytes.
	MinBlockSize = minBlockWords * WordSize

	// ChunkSize is the unit of heap growth when no free block fits a
	// request (spec.md §6).
	ChunkSize = 4096

	allocBit = 1
	sizeMask = ^uint32(0x7)
)

func pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | allocBit
	}
	return size
}
