// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzhamtest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
)

func TestCompressTracksOutput(t *testing.T) {
	data := bytes.Repeat([]byte("abcabcabd"), 500)
	w := NewWriter(Options{DictSizeLog2: 16})
	w.Compress(data)
	assert.Equal(t, data, w.Output())
	assert.True(t, w.HasRep())

	stream := w.Bytes()
	assert.Less(t, len(stream), len(data)/4)
	assert.Equal(t, stream, w.Bytes(), "Bytes must be idempotent")

	sum := binary.BigEndian.Uint32(stream[len(stream)-4:])
	assert.Equal(t, Checksum(data), sum)
}

func TestZlibHeader(t *testing.T) {
	for log2 := uint32(codec.MinDictSizeLog2); log2 <= codec.MaxDictSizeLog2; log2++ {
		for _, seed := range [][]byte{nil, []byte("seed")} {
			out := NewWriter(Options{DictSizeLog2: log2, Zlib: true, Seed: seed}).Bytes()
			hdr := uint(out[0])<<8 | uint(out[1])
			require.Zero(t, hdr%31, "log2 %d", log2)
			assert.Equal(t, byte(14), out[0]&0x0F)
			assert.Equal(t, byte(log2-codec.MinDictSizeLog2), out[0]>>4)
			assert.Equal(t, len(seed) > 0, out[1]&0x20 != 0)
			if len(seed) > 0 {
				assert.Equal(t, Checksum(seed), binary.BigEndian.Uint32(out[2:]))
			}
		}
	}
}

func TestRawSplitsLargeInput(t *testing.T) {
	data := make([]byte, 0x10000+10)
	w := NewWriter(Options{})
	w.Raw(data)
	out := w.Bytes()

	assert.Equal(t, byte(codec.BlockRaw), out[0])
	assert.Equal(t, uint16(0xFFFF), binary.LittleEndian.Uint16(out[1:]))
	next := 5 + 0xFFFF
	assert.Equal(t, byte(codec.BlockRaw)|1<<2, out[next])
	assert.Equal(t, uint16(11), binary.LittleEndian.Uint16(out[next+1:]))
	assert.Equal(t, byte(codec.BlockEOS)|2<<2, out[next+5+11])
}

func TestSeedIsHistoryNotOutput(t *testing.T) {
	seed := []byte("0123456789")
	w := NewWriter(Options{Seed: seed})
	w.Match(10, 10)
	w.Rep(0, 4)
	assert.Equal(t, []byte("01234567890123"), w.Output())
}
