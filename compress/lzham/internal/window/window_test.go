// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"bytes"
	"math/rand"
	"testing"
)

// naive resolves a back-reference over a flat history the slow way.
func naive(hist []byte, dist, length int) []byte {
	for i := 0; i < length; i++ {
		hist = append(hist, hist[len(hist)-dist])
	}
	return hist
}

func TestCopyOverlap(t *testing.T) {
	w := New(1 << 15)
	w.Write([]byte("AAAA"))
	dst := make([]byte, 4)
	if n := w.Copy(dst, 4, 4); n != 4 || string(dst) != "AAAA" {
		t.Fatalf("copy %d %q", n, dst)
	}
	w.Write([]byte("xy"))
	dst = make([]byte, 7)
	w.Copy(dst, 2, 7)
	if string(dst) != "xyxyxyx" {
		t.Fatalf("overlap copy %q", dst)
	}
	if w.Total() != 17 || w.Last() != 'x' {
		t.Fatalf("total %d last %q", w.Total(), w.Last())
	}
}

func TestCopyShortDst(t *testing.T) {
	w := New(1 << 15)
	w.Write([]byte("abc"))
	dst := make([]byte, 2)
	if n := w.Copy(dst, 3, 5); n != 2 || string(dst) != "ab" {
		t.Fatalf("copy %d %q", n, dst)
	}
	// the remaining three bytes continue from where the first call stopped
	dst = make([]byte, 3)
	w.Copy(dst, 3, 3)
	if string(dst) != "cab" {
		t.Fatalf("resumed copy %q", dst)
	}
}

func TestWrapMatchesNaive(t *testing.T) {
	const size = 1 << 15
	rnd := rand.New(rand.NewSource(1))
	w := New(size)
	var hist []byte
	for len(hist) < 5*size {
		if len(hist) == 0 || rnd.Intn(3) == 0 {
			lit := make([]byte, 1+rnd.Intn(700))
			rnd.Read(lit)
			if rnd.Intn(2) == 0 {
				w.Write(lit)
			} else {
				for _, b := range lit {
					w.Append(b)
				}
			}
			hist = append(hist, lit...)
			continue
		}
		if w.Len() != len(hist) && w.Len() != size {
			t.Fatalf("len %d with %d bytes written", w.Len(), len(hist))
		}
		dist := 1 + rnd.Intn(w.Len())
		length := 2 + rnd.Intn(2000)
		want := naive(hist, dist, length)
		dst := make([]byte, length)
		w.Copy(dst, dist, length)
		if !bytes.Equal(dst, want[len(hist):]) {
			t.Fatalf("copy dist=%d len=%d at %d differs", dist, length, len(hist))
		}
		hist = want
		if w.Last() != hist[len(hist)-1] {
			t.Fatal("last byte differs")
		}
	}
	if len(w.buf) != size {
		t.Fatalf("buffer %d, want %d", len(w.buf), size)
	}
}

func TestLazyGrowth(t *testing.T) {
	w := New(1 << 24)
	w.Write(make([]byte, 100))
	if len(w.buf) != initialSize {
		t.Fatalf("initial allocation %d", len(w.buf))
	}
	w.Write(make([]byte, initialSize))
	if len(w.buf) != 2*initialSize {
		t.Fatalf("grown allocation %d", len(w.buf))
	}
	if w.Len() != initialSize+100 {
		t.Fatalf("len %d", w.Len())
	}
}

func TestResetKeepsAllocation(t *testing.T) {
	w := New(1 << 16)
	w.Write([]byte("hello"))
	buf := w.buf
	w.Reset(1 << 16)
	if w.Len() != 0 || w.Total() != 0 || w.Last() != 0 {
		t.Fatal("reset left history behind")
	}
	w.Append('z')
	if &w.buf[0] != &buf[0] {
		t.Fatal("allocation not reused")
	}
	w.Reset(1 << 17)
	if w.buf != nil {
		t.Fatal("allocation kept across a capacity change")
	}
	w.Release()
	if w.Cap() != 0 || w.buf != nil {
		t.Fatal("release kept state")
	}
}

func TestCopyRejectsBadDistance(t *testing.T) {
	w := New(1 << 15)
	w.Write([]byte("ab"))
	dst := make([]byte, 4)
	for _, dist := range []int{0, -1, 3} {
		if n := w.Copy(dst, dist, 4); n != 0 {
			t.Fatalf("dist %d produced %d bytes", dist, n)
		}
	}
	if w.Total() != 2 || w.Last() != 'b' {
		t.Fatalf("rejected copy changed the window: total %d", w.Total())
	}
}
