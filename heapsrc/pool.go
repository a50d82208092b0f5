// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapsrc

import (
	"github.com/cznic/mathutil"
)

// defaultInitialCap is the capacity a freshly constructed Pool starts its
// backing array at before the first Extend forces a grow. Chosen well
// below a single CHUNKSIZE page so early growth is exercised by ordinary
// use rather than only by large requests.
const defaultInitialCap = 1024

var _ Source = (*Pool)(nil)

// Pool is an in-process, []byte-backed Source. It stands in for the real
// sbrk/mmap primitive spec.md §1 puts out of scope, the way lldb.MemFiler
// stands in for a real file in lldb's tests.
//
// A Pool never shrinks. Growth doubles the backing array's capacity, same
// policy as Go's append, so amortized Extend cost is O(1).
type Pool struct {
	buf     []byte
	size    int64 // logical size handed out via Extend; <= cap(buf)
	maxSize int64 // 0 means unbounded
}

// NewPool returns a ready to use Pool. maxBytes, if non-zero, caps the
// total size Extend will ever grow to; once reached, Extend returns
// ErrOOM. A zero maxBytes means the Pool grows without an artificial
// ceiling (bounded only by actual process memory).
func NewPool(maxBytes int) *Pool {
	return &Pool{
		buf:     make([]byte, 0, defaultInitialCap),
		maxSize: int64(maxBytes),
	}
}

// Extend implements Source.
func (p *Pool) Extend(n int) (base uint32, err error) {
	if n <= 0 {
		return 0, &ErrInvalidSize{n}
	}

	newSize := p.size + int64(n)
	if p.maxSize != 0 && newSize > p.maxSize {
		return 0, ErrOOM
	}

	if newSize > int64(cap(p.buf)) {
		grown := make([]byte, newSize, growCap(int64(cap(p.buf)), newSize))
		copy(grown, p.buf[:p.size])
		p.buf = grown
	} else {
		p.buf = p.buf[:newSize]
		for i := p.size; i < newSize; i++ {
			p.buf[i] = 0
		}
	}

	base = uint32(p.size)
	p.size = newSize
	return base, nil
}

// growCap doubles cur until it can hold want, the same scheme append uses.
func growCap(cur, want int64) int64 {
	if cur == 0 {
		cur = defaultInitialCap
	}
	for cur < want {
		cur *= 2
	}
	return cur
}

// Lo implements Source. A Pool always starts at offset 0.
func (p *Pool) Lo() uint32 { return 0 }

// Hi implements Source.
func (p *Pool) Hi() uint32 { return uint32(p.size) }

// Bytes implements Source.
func (p *Pool) Bytes() []byte { return p.buf[:p.size] }

// Len reports the current logical size of the pool, same value as Hi but
// typed as an int for callers doing ordinary Go arithmetic with it.
func (p *Pool) Len() int { return int(mathutil.MaxInt64(p.size, 0)) }

// ErrInvalidSize is returned by Extend for a non-positive request.
type ErrInvalidSize struct {
	N int
}

func (e *ErrInvalidSize) Error() string {
	return "heapsrc: invalid extend size"
}
