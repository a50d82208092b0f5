// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heapsrc provides the abstract sbrk-like primitive the allocator
// in package alloc grows its heap through, plus one concrete, in-process
// implementation of it.
package heapsrc

import "errors"

// ErrOOM is returned by Extend when the address space cannot grow any
// further. It is never fatal to the caller: alloc surfaces it as a nil
// pointer or a failed Init, never a panic.
var ErrOOM = errors.New("heapsrc: out of memory")

// Source is the downward interface the core allocator consumes (spec.md
// §6, "Downward interface"). Implementations need not be safe for
// concurrent use; the allocator built on top of a Source is itself
// single-threaded (spec.md §5).
type Source interface {
	// Extend grows the heap by n bytes and returns the offset at which
	// the new region begins. The new bytes are zeroed. Extend only
	// grows; there is no matching shrink operation.
	Extend(n int) (base uint32, err error)

	// Lo is the offset of the first byte ever handed out by Extend.
	Lo() uint32

	// Hi is the offset one past the last byte ever handed out by
	// Extend; the current size of the heap.
	Hi() uint32

	// Bytes exposes the whole backing store so that callers can address
	// header/footer words directly instead of through a ReadAt/WriteAt
	// stream interface, mirroring how C pointer arithmetic addresses an
	// sbrk'd region.
	Bytes() []byte
}
