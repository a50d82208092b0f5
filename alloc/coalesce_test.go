// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "testing"

// layout3 builds three adjacent allocations a, b, c, followed by one more
// live block so that c's right neighbor is never the chunk's free
// remainder, and returns the payload pointers of a, b and c, giving each
// coalesce test a known physical arrangement to free blocks out of.
func layout3(t *testing.T, h *Heap) (a, b, c uint32) {
	t.Helper()
	var err error
	a, err = h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate a: %v", err)
	}
	b, err = h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate b: %v", err)
	}
	c, err = h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate c: %v", err)
	}
	if _, err = h.Allocate(32); err != nil {
		t.Fatalf("Allocate guard: %v", err)
	}
	return a, b, c
}

func TestCoalesceBothNeighborsAllocated(t *testing.T) {
	h := newTestHeap(t)
	a, b, c := layout3(t, h)
	_, _ = a, c

	bSize := h.size(b)
	h.Free(b)

	if h.size(b) != bSize {
		t.Errorf("isolated free block size changed: got %d, want %d", h.size(b), bSize)
	}
	if _, err := h.Verify(nil); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestCoalesceRightNeighborFree(t *testing.T) {
	h := newTestHeap(t)
	a, b, c := layout3(t, h)
	_ = a

	bSize := h.size(b)
	cSize := h.size(c)
	h.Free(c)
	h.Free(b)

	if got := h.size(b); got != bSize+cSize {
		t.Errorf("merged size = %d, want %d", got, bSize+cSize)
	}
	if _, err := h.Verify(nil); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestCoalesceLeftNeighborFree(t *testing.T) {
	h := newTestHeap(t)
	a, b, c := layout3(t, h)
	_ = c

	aSize := h.size(a)
	bSize := h.size(b)
	h.Free(a)
	h.Free(b)

	if got := h.size(a); got != aSize+bSize {
		t.Errorf("merged size = %d, want %d", got, aSize+bSize)
	}
	if _, err := h.Verify(nil); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestCoalesceBothNeighborsFree(t *testing.T) {
	h := newTestHeap(t)
	a, b, c := layout3(t, h)

	aSize := h.size(a)
	bSize := h.size(b)
	cSize := h.size(c)

	h.Free(a)
	h.Free(c)
	h.Free(b)

	if got := h.size(a); got != aSize+bSize+cSize {
		t.Errorf("merged size = %d, want %d", got, aSize+bSize+cSize)
	}
	if _, err := h.Verify(nil); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
