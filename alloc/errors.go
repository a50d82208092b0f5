// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "fmt"

// CorruptKind enumerates the ways Verify can find the heap structurally
// inconsistent. The split mirrors lldb's ErrILSEQ.Type enum: one error
// type, many named kinds, so callers can switch on Kind without a type
// assertion per failure mode.
type CorruptKind int

const (
	_ CorruptKind = iota
	// ErrHeaderFooterMismatch: a block's header and footer disagree.
	ErrHeaderFooterMismatch
	// ErrBadSize: a block's size is not a positive multiple of DoubleWord.
	ErrBadSize
	// ErrTooSmall: a non-sentinel block is smaller than MinBlockSize.
	ErrTooSmall
	// ErrAdjacentFree: two physically adjacent blocks are both free.
	ErrAdjacentFree
	// ErrMisaligned: a payload pointer is not DoubleWord-aligned.
	ErrMisaligned
	// ErrFreeListCycle: the free list's prev/next links are inconsistent.
	ErrFreeListCycle
	// ErrFreeListMembership: a block's free-bit and free-list presence disagree.
	ErrFreeListMembership
	// ErrWalkOverrun: the physical walk did not terminate at the epilogue.
	ErrWalkOverrun
)

func (k CorruptKind) String() string {
	switch k {
	case ErrHeaderFooterMismatch:
		return "header/footer mismatch"
	case ErrBadSize:
		return "invalid block size"
	case ErrTooSmall:
		return "block smaller than minimum"
	case ErrAdjacentFree:
		return "two adjacent free blocks"
	case ErrMisaligned:
		return "misaligned payload pointer"
	case ErrFreeListCycle:
		return "free list is not a well-formed doubly-linked list"
	case ErrFreeListMembership:
		return "free-list membership does not match the allocated bit"
	case ErrWalkOverrun:
		return "physical walk did not terminate at the epilogue"
	default:
		return "unknown corruption"
	}
}

// CorruptError reports an invariant violation found while walking the
// heap (spec.md §7: "any detected inconsistency ... is fatal"). alloc
// itself never panics on one of these; Verify returns it so that callers
// decide how to die (cmd/tracerun calls log.Fatal on it, the same way the
// teacher's command binaries do).
type CorruptError struct {
	Kind CorruptKind
	Off  uint32
	Arg  uint32
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("alloc: corrupt heap at offset %#x: %s (arg %#x)", e.Off, e.Kind, e.Arg)
}
