// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package rangecoder implements the binary arithmetic (range) coder shared by
// the LZHAM stream decoder and its fixture writer. The coder works on 32-bit
// range/code registers that are renormalized one byte at a time, so the
// decoder consumes exactly the bytes the encoder produced.
package rangecoder

import "github.com/pkg/errors"

const (
	// FreqBits is the precision of cumulative frequency tables passed to
	// GetFreq/Decode and Encode. Tables must sum to exactly 1<<FreqBits.
	FreqBits = 15

	// ProbBits is the precision of adaptive binary probabilities.
	ProbBits = 11
	// ProbInit is the initial (even) binary probability.
	ProbInit = 1 << (ProbBits - 1)
	moveBits = 5

	topValue = 1 << 24

	// InitBytes is the number of bytes Init consumes.
	InitBytes = 5
)

// ErrCorrupt reports a code value that no encoder could have produced.
var ErrCorrupt = errors.New("rangecoder: corrupt input")

// Decoder is the decoding half of the range coder.
//
// The decoder reads from an attached slice. Reading past the end of the slice
// yields zero bytes and latches Overrun; callers that cannot guarantee enough
// look-ahead must check it after each symbol group.
type Decoder struct {
	Range uint32
	Code  uint32

	src     []byte
	pos     int
	overrun bool
	r       uint32 // scaled range from the last GetFreq
}

// Attach sets the byte source and the read position inside it.
func (d *Decoder) Attach(src []byte, pos int) {
	d.src = src
	d.pos = pos
}

// Pos returns the read position inside the attached slice.
func (d *Decoder) Pos() int { return d.pos }

// Overrun reports whether a read went past the end of the attached slice.
func (d *Decoder) Overrun() bool { return d.overrun }

// Reset clears the registers and the overrun latch. The source stays attached.
func (d *Decoder) Reset() {
	d.Range = 0xFFFFFFFF
	d.Code = 0
	d.overrun = false
	d.r = 0
}

func (d *Decoder) next() uint32 {
	if d.pos >= len(d.src) {
		d.overrun = true
		return 0
	}
	b := d.src[d.pos]
	d.pos++
	return uint32(b)
}

// Init primes the code register from the first InitBytes bytes.
func (d *Decoder) Init() error {
	d.Reset()
	if d.next() != 0 {
		return ErrCorrupt
	}
	for i := 0; i < InitBytes-1; i++ {
		d.Code = d.Code<<8 | d.next()
	}
	if d.Code == d.Range {
		return ErrCorrupt
	}
	return nil
}

func (d *Decoder) normalize() {
	for d.Range < topValue {
		d.Range <<= 8
		d.Code = d.Code<<8 | d.next()
	}
}

// DecodeBit decodes one binary decision with the adaptive probability *p of
// a zero bit and updates *p.
func (d *Decoder) DecodeBit(p *uint16) uint32 {
	v := *p
	bound := (d.Range >> ProbBits) * uint32(v)
	var bit uint32
	if d.Code < bound {
		v += ((1 << ProbBits) - v) >> moveBits
		d.Range = bound
	} else {
		v -= v >> moveBits
		d.Code -= bound
		d.Range -= bound
		bit = 1
	}
	*p = v
	d.normalize()
	return bit
}

// DecodeDirect decodes n equiprobable bits, most significant first.
func (d *Decoder) DecodeDirect(n uint) uint32 {
	var res uint32
	for ; n > 0; n-- {
		d.Range >>= 1
		bit := uint32(0)
		if d.Code >= d.Range {
			d.Code -= d.Range
			bit = 1
		}
		res = res<<1 | bit
		d.normalize()
	}
	return res
}

// GetFreq returns the scaled cumulative frequency the next symbol falls into.
// It must be followed by Decode with the bounds of the matching symbol.
func (d *Decoder) GetFreq() (uint32, error) {
	d.r = d.Range >> FreqBits
	v := d.Code / d.r
	if v >= 1<<FreqBits {
		return 0, ErrCorrupt
	}
	return v, nil
}

// Decode removes the symbol occupying [start, start+size) from the code.
func (d *Decoder) Decode(start, size uint32) {
	d.Code -= start * d.r
	d.Range = size * d.r
	d.normalize()
}
