// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package codec holds the adaptive probability models of the LZHAM stream
// format and the symbol layout that both the decoder and the fixture writer
// must agree on.
package codec

import "github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"

// Control symbols of a compressed block.
const (
	CtlLiteral = iota
	CtlMatch
	CtlRep
	CtlEndBlock
	NumControl
)

// Block types, stored in the low two bits of a block header byte.
const (
	BlockCompressed = iota
	BlockRaw
	BlockSync
	BlockEOS

	BlockTypeMask  = 3
	BlockCheckBits = 6
	BlockCheckMask = 1<<BlockCheckBits - 1
)

const (
	MinDictSizeLog2 = 15
	MaxDictSizeLog2 = 29

	MinMatch = 2
	MaxMatch = MinMatch + 1<<16 - 1

	LiteralContexts = 8
	LenContexts     = 4
	LenSlots        = 32
	AlignBits       = 4
	AlignSize       = 1 << AlignBits

	// NumReps is the number of recent distances a rep match can reuse.
	NumReps = 2
)

// SyncMarker follows a sync block header.
var SyncMarker = [4]byte{0x00, 0x00, 0xFF, 0xFF}

// LiteralContext selects the literal model from the previous output byte.
func LiteralContext(prev byte) int { return int(prev >> 5) }

func lenContext(length int) int {
	v := length - MinMatch
	if v > LenContexts-1 {
		v = LenContexts - 1
	}
	return v
}

// Bank is the full set of adaptive models of one stream.
type Bank struct {
	Control  [NumControl]*Freq
	Literal  [LiteralContexts]*Freq
	MatchLen *Freq
	RepLen   *Freq
	DistSlot [LenContexts]*Freq
	Align    *Freq
	RepIndex Bit

	dictSizeLog2 uint32
}

// NewBank allocates a bank for the given dictionary size.
func NewBank(dictSizeLog2 uint32, s Settings) *Bank {
	b := &Bank{}
	b.Configure(dictSizeLog2, s)
	return b
}

// Configure adapts the bank to new stream parameters, reusing allocations
// where the alphabets are unchanged, and resets every model.
func (b *Bank) Configure(dictSizeLog2 uint32, s Settings) {
	b.dictSizeLog2 = dictSizeLog2
	conf := func(m **Freq, n int) {
		if *m == nil {
			*m = NewFreq(n, s)
			return
		}
		(*m).configure(n, s)
	}
	for i := range b.Control {
		conf(&b.Control[i], NumControl)
	}
	for i := range b.Literal {
		conf(&b.Literal[i], 256)
	}
	conf(&b.MatchLen, LenSlots)
	conf(&b.RepLen, LenSlots)
	for i := range b.DistSlot {
		conf(&b.DistSlot[i], 2*int(dictSizeLog2))
	}
	conf(&b.Align, AlignSize)
	b.RepIndex.Reset()
}

// Reset returns every model to its canonical initial state.
func (b *Bank) Reset() {
	for _, m := range b.Control {
		m.Reset()
	}
	for _, m := range b.Literal {
		m.Reset()
	}
	b.MatchLen.Reset()
	b.RepLen.Reset()
	for _, m := range b.DistSlot {
		m.Reset()
	}
	b.Align.Reset()
	b.RepIndex.Reset()
}

// DecodeLength reads a match length.
func (b *Bank) DecodeLength(d *rangecoder.Decoder, rep bool) (int, error) {
	m := b.MatchLen
	if rep {
		m = b.RepLen
	}
	slot, err := m.Decode(d)
	if err != nil {
		return 0, err
	}
	v := SlotBase(uint32(slot))
	if n := SlotExtraBits(uint32(slot)); n > 0 {
		v += d.DecodeDirect(n)
	}
	return int(v) + MinMatch, nil
}

// EncodeLength writes a match length in [MinMatch, MaxMatch].
func (b *Bank) EncodeLength(e *rangecoder.Encoder, rep bool, length int) {
	m := b.MatchLen
	if rep {
		m = b.RepLen
	}
	v := uint32(length - MinMatch)
	slot := Slot(v)
	m.Encode(e, int(slot))
	if n := SlotExtraBits(slot); n > 0 {
		e.EncodeDirect(v-SlotBase(slot), n)
	}
}

// DecodeDistance reads the distance of a match of the given length.
func (b *Bank) DecodeDistance(d *rangecoder.Decoder, length int) (int, error) {
	slot, err := b.DistSlot[lenContext(length)].Decode(d)
	if err != nil {
		return 0, err
	}
	v := SlotBase(uint32(slot))
	n := SlotExtraBits(uint32(slot))
	switch {
	case n >= AlignBits:
		v += d.DecodeDirect(n-AlignBits) << AlignBits
		a, err := b.Align.Decode(d)
		if err != nil {
			return 0, err
		}
		v += uint32(a)
	case n > 0:
		v += d.DecodeDirect(n)
	}
	return int(v) + 1, nil
}

// EncodeDistance writes dist (at least 1) for a match of the given length.
func (b *Bank) EncodeDistance(e *rangecoder.Encoder, length, dist int) {
	v := uint32(dist - 1)
	slot := Slot(v)
	b.DistSlot[lenContext(length)].Encode(e, int(slot))
	extra := v - SlotBase(slot)
	n := SlotExtraBits(slot)
	switch {
	case n >= AlignBits:
		e.EncodeDirect(extra>>AlignBits, n-AlignBits)
		b.Align.Encode(e, int(extra&(AlignSize-1)))
	case n > 0:
		e.EncodeDirect(extra, n)
	}
}
