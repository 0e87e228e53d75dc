// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"encoding/binary"
	"hash/adler32"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzham-go/fastlzham/compress/lzham"
	"github.com/lzham-go/fastlzham/internal/config"
)

// storedStream wraps data in raw blocks of at most chunk bytes.
func storedStream(data []byte, chunk int) []byte {
	var out []byte
	sum := adler32.Checksum(data)
	idx := 0
	for len(data) > 0 {
		n := len(data)
		if n > chunk {
			n = chunk
		}
		out = append(out, 1|byte(idx&63)<<2)
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
		out = binary.LittleEndian.AppendUint16(out, ^uint16(n))
		out = append(out, data[:n]...)
		data = data[n:]
		idx++
	}
	out = append(out, 3|byte(idx&63)<<2)
	return binary.BigEndian.AppendUint32(out, sum)
}

func payload() []byte {
	return bytes.Repeat([]byte("resumable streams survive any chunking. "), 200)
}

func params() *lzham.Params {
	return &lzham.Params{DictSizeLog2: 16, Flags: lzham.ComputeAdler32}
}

func TestDecodeStream(t *testing.T) {
	data := payload()
	stream := storedStream(data, 1000)

	for _, sizes := range [][2]int{{1, 1}, {3, 7}, {64, 100}, {1 << 16, 1 << 16}} {
		var out bytes.Buffer
		res, err := decodeStream(bytes.NewReader(stream), &out, params(), sizes[0], sizes[1])
		require.NoError(t, err, "chunks %v", sizes)
		assert.Equal(t, data, out.Bytes())
		assert.Equal(t, int64(len(stream)), res.in)
		assert.Equal(t, int64(len(data)), res.out)
		assert.True(t, res.hasAdler)
		assert.Equal(t, adler32.Checksum(data), res.adler)
	}
}

func TestDecodeStreamFailures(t *testing.T) {
	stream := storedStream(payload(), 1000)

	_, err := decodeStream(bytes.NewReader(stream[:len(stream)-10]), &bytes.Buffer{}, params(), 128, 128)
	assert.Equal(t, lzham.StatusFailedExpectedMoreRawBytes, lzham.StatusOf(err))

	bad := append([]byte(nil), stream...)
	bad[len(bad)-1] ^= 1
	_, err = decodeStream(bytes.NewReader(bad), &bytes.Buffer{}, params(), 128, 128)
	assert.Equal(t, lzham.StatusFailedAdler32, lzham.StatusOf(err))

	_, err = decodeStream(bytes.NewReader(stream), &bytes.Buffer{}, &lzham.Params{}, 128, 128)
	assert.Error(t, err)
}

func TestDecodeMemory(t *testing.T) {
	data := payload()
	stream := storedStream(data, 4000)

	var out bytes.Buffer
	res, err := decodeMemory(bytes.NewReader(stream), &out, params(), len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out.Bytes())
	assert.Equal(t, adler32.Checksum(data), res.adler)

	out.Reset()
	res, err = decodeMemory(bytes.NewReader(stream), &out, params(), 0)
	require.NoError(t, err)
	assert.Equal(t, data, out.Bytes())
	assert.True(t, res.hasAdler)
	assert.Equal(t, adler32.Checksum(data), res.adler)

	res, err = decodeMemory(bytes.NewReader(stream), &bytes.Buffer{}, &lzham.Params{DictSizeLog2: 16}, 0)
	require.NoError(t, err)
	assert.False(t, res.hasAdler)

	_, err = decodeMemory(bytes.NewReader(stream), &bytes.Buffer{}, params(), len(data)-1)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	data := payload()
	in := filepath.Join(dir, "in.lzham")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(in, storedStream(data, 777), 0o600))

	for _, mode := range []string{config.ModeStream, config.ModeMemory} {
		cfg, err := config.New([]string{"-f", in, "-o", out, "-w", "16", "-a", "-m", mode, "--in-chunk-size", "5"})
		require.NoError(t, err)
		require.NoError(t, run(cfg), mode)

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, data, got, mode)
	}

	cfg, err := config.New([]string{"-f", filepath.Join(dir, "missing"), "-o", out})
	require.NoError(t, err)
	assert.Error(t, run(cfg))
}
