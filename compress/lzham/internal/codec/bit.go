// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package codec

import "github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"

// Bit is an adaptive binary model holding the probability of a zero bit.
type Bit uint16

// Reset sets an even probability.
func (b *Bit) Reset() { *b = rangecoder.ProbInit }

// Decode reads one bit and updates the model.
func (b *Bit) Decode(d *rangecoder.Decoder) uint32 {
	return d.DecodeBit((*uint16)(b))
}

// Encode writes bit and updates the model.
func (b *Bit) Encode(e *rangecoder.Encoder, bit uint32) {
	e.EncodeBit((*uint16)(b), bit)
}
