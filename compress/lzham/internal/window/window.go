// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package window implements the sliding history buffer back-references are
// resolved against.
package window

// initialSize bounds the first allocation; the buffer doubles on demand up to
// the window capacity, so small streams never pay for a large dictionary.
const initialSize = 64 * 1024

// Window is a ring buffer holding the most recent Cap() output bytes.
//
// The buffer only grows before it first wraps, so until then the live bytes
// are contiguous in buf[:pos].
type Window struct {
	buf   []byte
	size  int // capacity, a power of two
	pos   int
	total int64
}

// New returns an empty window of the given capacity.
func New(size int) *Window {
	w := &Window{}
	w.Reset(size)
	return w
}

// Reset empties the window and sets its capacity. The allocation is kept
// when the capacity is unchanged.
func (w *Window) Reset(size int) {
	if size != w.size {
		w.buf = nil
	}
	w.size = size
	w.pos = 0
	w.total = 0
}

// Release drops the backing allocation. The window must be Reset before reuse.
func (w *Window) Release() {
	w.buf = nil
	w.size = 0
	w.pos = 0
	w.total = 0
}

// Cap returns the window capacity.
func (w *Window) Cap() int { return w.size }

// Len returns the number of history bytes a back-reference may reach.
func (w *Window) Len() int {
	if w.total >= int64(w.size) {
		return w.size
	}
	return int(w.total)
}

// Total returns the number of bytes ever appended.
func (w *Window) Total() int64 { return w.total }

// Last returns the most recently appended byte, or zero for an empty window.
func (w *Window) Last() byte {
	if w.total == 0 {
		return 0
	}
	if w.pos == 0 {
		return w.buf[len(w.buf)-1]
	}
	return w.buf[w.pos-1]
}

// grow makes room for n more bytes at pos without wrapping, if the window
// has not reached its capacity yet.
func (w *Window) grow(n int) {
	if len(w.buf) == w.size || w.pos+n <= len(w.buf) {
		return
	}
	newSize := len(w.buf)
	if newSize == 0 {
		newSize = initialSize
	}
	for newSize < w.pos+n && newSize < w.size {
		newSize *= 2
	}
	if newSize > w.size {
		newSize = w.size
	}
	buf := make([]byte, newSize)
	copy(buf, w.buf[:w.pos])
	w.buf = buf
}

// Append adds one byte, evicting the oldest once the window is full.
func (w *Window) Append(b byte) {
	if w.pos == len(w.buf) {
		w.grow(1)
		if w.pos == len(w.buf) {
			w.pos = 0
		}
	}
	w.buf[w.pos] = b
	w.pos++
	w.total++
}

// Write appends p.
func (w *Window) Write(p []byte) {
	w.grow(len(p))
	for len(p) > 0 {
		if w.pos == len(w.buf) {
			w.pos = 0
		}
		n := copy(w.buf[w.pos:], p)
		w.pos += n
		w.total += int64(n)
		p = p[n:]
	}
}

// Copy resolves a back-reference: it produces min(length, len(dst)) bytes
// starting dist bytes behind the write position, appending each to the
// window as it goes, so length may exceed dist. It returns the number of
// bytes produced, which is zero when dist is outside [1, Len()].
func (w *Window) Copy(dst []byte, dist, length int) int {
	if dist < 1 || dist > w.Len() {
		return 0
	}
	n := length
	if n > len(dst) {
		n = len(dst)
	}
	w.grow(n)
	src := w.pos - dist
	if src >= 0 && w.pos+n <= len(w.buf) {
		byteCopy(w.buf, w.pos, dist, n)
		copy(dst, w.buf[w.pos:w.pos+n])
		w.pos += n
		w.total += int64(n)
		return n
	}
	if src < 0 {
		src += len(w.buf)
	}
	for i := 0; i < n; i++ {
		if src == len(w.buf) {
			src = 0
		}
		b := w.buf[src]
		src++
		dst[i] = b
		w.Append(b)
	}
	return n
}

// byteCopy copies length bytes from curr-dist to curr inside hist with the
// semantics of a forward byte-by-byte loop, in non-overlapping chunks.
func byteCopy(hist []byte, curr int, dist, length int) {
	end := curr + length
	start := curr - dist
	for curr < end {
		to := hist[curr:end]
		from := hist[start:curr]
		size := copy(to, from)
		curr += size
	}
}
