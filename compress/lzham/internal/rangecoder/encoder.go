// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package rangecoder

// Encoder is the encoding half of the range coder. It is used to build
// fixture streams; the decoder is the production path.
type Encoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize int64
	out       []byte
}

// NewEncoder returns an encoder ready to accept symbols.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.Reset()
	return e
}

// Reset discards any buffered output and restarts the coder.
func (e *Encoder) Reset() {
	e.low = 0
	e.rng = 0xFFFFFFFF
	e.cache = 0
	e.cacheSize = 1
	e.out = e.out[:0]
}

func (e *Encoder) shiftLow() {
	if uint32(e.low) < 0xFF000000 || e.low>>32 != 0 {
		carry := byte(e.low >> 32)
		temp := e.cache
		for {
			e.out = append(e.out, temp+carry)
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheSize++
	e.low = (e.low & 0x00FFFFFF) << 8
}

func (e *Encoder) normalize() {
	for e.rng < topValue {
		e.rng <<= 8
		e.shiftLow()
	}
}

// EncodeBit encodes bit with the adaptive probability *p and updates *p.
func (e *Encoder) EncodeBit(p *uint16, bit uint32) {
	v := *p
	bound := (e.rng >> ProbBits) * uint32(v)
	if bit == 0 {
		v += ((1 << ProbBits) - v) >> moveBits
		e.rng = bound
	} else {
		v -= v >> moveBits
		e.low += uint64(bound)
		e.rng -= bound
	}
	*p = v
	e.normalize()
}

// EncodeDirect encodes the low n bits of v, most significant first.
func (e *Encoder) EncodeDirect(v uint32, n uint) {
	for ; n > 0; n-- {
		e.rng >>= 1
		if (v>>(n-1))&1 != 0 {
			e.low += uint64(e.rng)
		}
		e.normalize()
	}
}

// Encode encodes the symbol occupying [start, start+size) of a table that
// sums to 1<<FreqBits.
func (e *Encoder) Encode(start, size uint32) {
	r := e.rng >> FreqBits
	e.low += uint64(start * r)
	e.rng = size * r
	e.normalize()
}

// Flush terminates the coded segment and returns every byte produced since
// the last Reset. The returned slice is owned by the encoder.
func (e *Encoder) Flush() []byte {
	for i := 0; i < InitBytes; i++ {
		e.shiftLow()
	}
	return e.out
}
