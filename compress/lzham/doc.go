// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package lzham implements a streaming, resumable decoder for LZHAM style
// streams: LZ77 back-references over a large sliding window, entropy coded
// with adaptive range-coded models.
//
// A Decompressor is stepped with Decompress. Each call consumes what it can
// of the input slice, fills what it can of the output slice and reports a
// Status. Output does not depend on how the caller splits input and output
// across calls.
//
//	d, err := lzham.NewDecompressor(&lzham.Params{DictSizeLog2: 20})
//	...
//	nIn, nOut, st := d.Decompress(in, out, noMoreInput)
//
// DecompressMemory and DecompressAll cover the one-shot case and NewReader
// adapts a stream to io.Reader.
package lzham

// version identifies the stream format this package decodes.
const version = 0x1010

// Version returns the decoder version.
func Version() uint32 { return version }
