// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"bytes"
	"os"
	"testing"

	"github.com/cznic/hmalloc/alloc"
	"github.com/cznic/hmalloc/heapsrc"
)

type sliceWriterAt struct{ buf []byte }

func (w *sliceWriterAt) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(w.buf) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[off:end], p)
	return len(p), nil
}

func newHeap(t *testing.T) *alloc.Heap {
	t.Helper()
	h, err := alloc.New(heapsrc.NewPool(1 << 20))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestWriteUncompressed(t *testing.T) {
	h := newHeap(t)
	bp, err := h.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	copy(h.Payload(bp), []byte("hello, dump"))

	w := &sliceWriterAt{}
	if err := Write(h, w, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(w.buf, []byte("hello, dump")) {
		t.Fatal("dumped bytes do not contain the written payload")
	}
}

func TestWriteCompressed(t *testing.T) {
	h := newHeap(t)
	bp, err := h.Allocate(128)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	copy(h.Payload(bp), bytes.Repeat([]byte("x"), 128))

	w := &sliceWriterAt{}
	if err := Write(h, w, Options{Compress: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(w.buf) == 0 {
		t.Fatal("compressed output is empty")
	}
}

func TestWriteRejectsCompressAndWipe(t *testing.T) {
	h := newHeap(t)
	w := &sliceWriterAt{}
	if err := Write(h, w, Options{Compress: true, WipeFree: true}); err == nil {
		t.Fatal("expected an error combining Compress and WipeFree")
	}
}

func TestWriteWipeFreePunchesHoles(t *testing.T) {
	h := newHeap(t)
	a, err := h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	b, err := h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	copy(h.Payload(b), bytes.Repeat([]byte("Z"), 32))
	h.Free(a)

	f, err := os.CreateTemp("", "hmalloc-dump-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := Write(h, f, Options{WipeFree: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) < int(b)+32 {
		t.Fatalf("dump is %d bytes, too short to hold b's payload at %#x", len(got), b)
	}
	if !bytes.Equal(got[b:b+32], bytes.Repeat([]byte("Z"), 32)) {
		t.Errorf("b's payload not found at its heap offset %#x", b)
	}
	// a's freed block, header through footer, must read back as zeros.
	lo := int(a) - alloc.WordSize
	for i := lo; i < lo+int(h.BlockSize(a)); i++ {
		if got[i] != 0 {
			t.Fatalf("byte %#x of freed block a = %#x, want 0", i, got[i])
		}
	}
}
