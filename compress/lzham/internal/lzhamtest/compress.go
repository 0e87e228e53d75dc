// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzhamtest

import "github.com/lzham-go/fastlzham/compress/lzham/internal/codec"

const (
	hashBits   = 16
	minHashLen = 3
)

func hash3(p []byte) uint32 {
	v := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
	return (v * 2654435761) >> (32 - hashBits)
}

// Compress encodes data with a greedy parse: a rep0 match when one is at
// least as long as the hashed candidate, otherwise the hashed match, otherwise
// a literal.
func Compress(data []byte, opts Options) []byte {
	w := NewWriter(opts)
	w.Compress(data)
	return w.Bytes()
}

// Compress appends a greedy parse of data to the stream.
func (w *Writer) Compress(data []byte) {
	maxDist := 1 << w.opts.DictSizeLog2
	base := len(w.hist)
	w.hist = append(w.hist, data...)
	buf := w.hist
	// the tokens below re-append what they produce
	w.hist = w.hist[:base]

	head := make([]int32, 1<<hashBits)
	for i := range head {
		head[i] = -1
	}
	insert := func(i int) {
		if i+minHashLen <= len(buf) {
			head[hash3(buf[i:])] = int32(i)
		}
	}
	for i := 0; i < base; i++ {
		insert(i)
	}

	matchLen := func(i, dist int) int {
		n := 0
		for i+n < len(buf) && n < codec.MaxMatch && buf[i+n] == buf[i+n-dist] {
			n++
		}
		return n
	}

	for i := base; i < len(buf); {
		var repLen int
		if w.hasRep && w.rep[0] <= i && w.rep[0] <= maxDist {
			repLen = matchLen(i, w.rep[0])
		}
		var dist, length int
		if i+minHashLen <= len(buf) {
			if cand := int(head[hash3(buf[i:])]); cand >= 0 && i-cand <= maxDist {
				dist = i - cand
				length = matchLen(i, dist)
			}
		}
		n := 1
		switch {
		case repLen >= codec.MinMatch && repLen >= length:
			w.Rep(0, repLen)
			n = repLen
		case length >= minHashLen:
			w.Match(dist, length)
			n = length
		default:
			w.Literal(buf[i])
		}
		for j := 0; j < n; j++ {
			insert(i + j)
		}
		i += n
	}
}
