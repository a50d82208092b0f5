// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "testing"

func TestVerifyCleanHeap(t *testing.T) {
	h := newTestHeap(t)
	for i := 0; i < 5; i++ {
		if _, err := h.Allocate(64); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
	}
	if _, err := h.Verify(nil); err != nil {
		t.Fatalf("Verify on a clean heap: %v", err)
	}
}

func TestVerifyDetectsHeaderFooterMismatch(t *testing.T) {
	h := newTestHeap(t)
	bp, err := h.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	h.setWord(h.footer(bp), h.word(h.footer(bp))+DoubleWord)

	var found *CorruptError
	h.Verify(func(err error) bool {
		if ce, ok := err.(*CorruptError); ok {
			found = ce
		}
		return true
	})
	if found == nil {
		t.Fatal("Verify did not report the corrupted footer")
	}
	if found.Kind != ErrHeaderFooterMismatch {
		t.Errorf("Kind = %v, want ErrHeaderFooterMismatch", found.Kind)
	}
}

func TestVerifyDetectsAdjacentFreeBlocks(t *testing.T) {
	h := newTestHeap(t)
	bp, err := h.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	next := h.nextPhys(bp)

	// Force the allocated bit off on both bp and its neighbor without
	// going through Free/coalesce, simulating corruption rather than a
	// legitimate free-list state.
	h.setTag(bp, h.size(bp), false)
	h.setTag(next, h.size(next), false)

	var kinds []CorruptKind
	h.Verify(func(err error) bool {
		if ce, ok := err.(*CorruptError); ok {
			kinds = append(kinds, ce.Kind)
		}
		return true
	})

	var sawAdjacent bool
	for _, k := range kinds {
		if k == ErrAdjacentFree {
			sawAdjacent = true
		}
	}
	if !sawAdjacent {
		t.Errorf("expected ErrAdjacentFree among %v", kinds)
	}
}

func TestFreeBlockOffsetsSorted(t *testing.T) {
	h := newTestHeap(t)
	a, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate a: %v", err)
	}
	b, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate b: %v", err)
	}
	c, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate c: %v", err)
	}
	h.Free(a)
	h.Free(c)

	offs := h.FreeBlockOffsets()
	for i := 1; i < len(offs); i++ {
		if offs[i-1] > offs[i] {
			t.Fatalf("FreeBlockOffsets not sorted: %v", offs)
		}
	}
	_ = b
}
