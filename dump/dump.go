// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump writes a point-in-time snapshot of an alloc.Heap for
// offline inspection. It is a diagnostic add-on, not part of the
// allocator's hot path: spec.md §6 rules out persisted state for the
// allocator itself, but a read-only snapshot of a live heap is ordinary
// tooling, the same role lldb.MemFiler's WriteTo plays for lldb.
package dump

import (
	"io"
	"os"

	"github.com/cznic/fileutil"
	"github.com/cznic/hmalloc/alloc"
	"github.com/golang/snappy"
)

// Options controls how Write produces a snapshot.
type Options struct {
	// Compress, when true, runs the snapshot through a
	// snappy.NewBufferedWriter, the maintained successor of the
	// code.google.com/p/snappy-go/snappy package falloc.go used to
	// compress used-block content. Incompatible with WipeFree's hole
	// punching, since a compressed stream has no fixed byte offsets to
	// punch: Write returns an error if both are set.
	Compress bool

	// WipeFree, when true, causes Write to punch a hole (via
	// fileutil.PunchHole) over the byte range of every free block
	// instead of writing it, when w is an *os.File. This is the
	// automatic realization of falloc.go's "Content wiping" guidance:
	// a free block's payload can still carry left-over bytes from its
	// last life as a used block ("Leak"), and a snapshot should not
	// carry that forward.
	WipeFree bool
}

// Write copies h's live payload bytes to w, block by block in physical
// address order (via alloc.Heap.Walk). Free blocks are either
// hole-punched (WipeFree, w an *os.File) or simply skipped, leaving a gap
// in the output; allocated blocks are always written verbatim. Without
// Compress each payload is written at its own heap offset; with Compress
// the payloads are written back to back into the compressed stream.
func Write(h *alloc.Heap, w io.WriterAt, opts Options) error {
	if opts.Compress && opts.WipeFree {
		return errCompressAndWipe
	}

	free := map[int64]bool{}
	for _, off := range h.FreeBlockOffsets() {
		free[off] = true
	}

	ww := &writerAtWrapper{w: w}
	var dst io.Writer = ww
	if opts.Compress {
		sw := snappy.NewBufferedWriter(dst)
		defer sw.Close()
		dst = sw
	}

	var walkErr error
	h.Walk(func(b alloc.Block) bool {
		if b.Size == 0 {
			return false // epilogue: nothing to copy, end the walk
		}

		headerOff := int64(b.BP) - alloc.WordSize

		if free[int64(b.BP)] {
			if opts.WipeFree {
				if f, ok := w.(*os.File); ok {
					if err := fileutil.PunchHole(f, headerOff, int64(b.Size)); err != nil {
						walkErr = err
						return false
					}
				}
			}
			return true
		}

		raw := h.Payload(b.BP)
		if !opts.Compress {
			ww.off = int64(b.BP)
		}
		if _, err := dst.Write(raw); err != nil {
			walkErr = err
			return false
		}
		return true
	})

	return walkErr
}

var errCompressAndWipe = &dumpError{"dump: Compress and WipeFree are mutually exclusive"}

type dumpError struct{ msg string }

func (e *dumpError) Error() string { return e.msg }

// writerAtWrapper adapts an io.WriterAt to a plain io.Writer by tracking
// a running offset, so the uncompressed path and snappy's
// NewBufferedWriter (which wants an io.Writer) share one code path.
type writerAtWrapper struct {
	w   io.WriterAt
	off int64
}

func (w *writerAtWrapper) Write(p []byte) (int, error) {
	n, err := w.w.WriteAt(p, w.off)
	w.off += int64(n)
	return n, err
}
