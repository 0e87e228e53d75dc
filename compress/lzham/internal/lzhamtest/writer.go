// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package lzhamtest produces LZHAM streams for tests and benchmarks. It is not
// a compressor: callers choose every token, or use Compress for a simple
// greedy parse.
package lzhamtest

import (
	"encoding/binary"
	"hash/adler32"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
	"github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"
)

// Options describe the stream a Writer produces. They must match the
// parameters handed to the decoder.
type Options struct {
	DictSizeLog2 uint32
	// Settings selects the model adaptation speed; the zero value means the
	// default update rate.
	Settings codec.Settings
	// Zlib writes the two-byte zlib header, plus the seed checksum when a
	// seed is present.
	Zlib bool
	Seed []byte
	// BlockUnits closes a compressed block after that many tokens; zero
	// keeps one block per run of tokens.
	BlockUnits int
}

// Writer emits a stream token by token. Methods may be called in any order;
// Bytes terminates the stream.
type Writer struct {
	opts Options
	out  []byte

	enc     *rangecoder.Encoder
	bank    *codec.Bank
	hist    []byte // seed followed by everything emitted
	seedLen int

	blockIndex int
	inBlock    bool
	units      int
	prevCtl    int
	rep        [codec.NumReps]int
	hasRep     bool
	done       bool
}

// NewWriter starts a stream.
func NewWriter(opts Options) *Writer {
	if opts.DictSizeLog2 == 0 {
		opts.DictSizeLog2 = codec.MinDictSizeLog2
	}
	if opts.Settings == (codec.Settings{}) {
		opts.Settings, _ = codec.SettingsFor(0, 0, 0)
	}
	w := &Writer{
		opts:    opts,
		enc:     rangecoder.NewEncoder(),
		bank:    codec.NewBank(opts.DictSizeLog2, opts.Settings),
		hist:    append([]byte(nil), opts.Seed...),
		seedLen: len(opts.Seed),
	}
	if opts.Zlib {
		cmf := byte(14) | byte(opts.DictSizeLog2-codec.MinDictSizeLog2)<<4
		flg := byte(0)
		if len(opts.Seed) > 0 {
			flg |= 1 << 5
		}
		flg += byte(31 - (uint(cmf)<<8|uint(flg))%31)
		w.out = append(w.out, cmf, flg)
		if len(opts.Seed) > 0 {
			w.out = binary.BigEndian.AppendUint32(w.out, adler32.Checksum(opts.Seed))
		}
	}
	return w
}

func (w *Writer) header(typ int) {
	w.out = append(w.out, byte(typ)|byte(w.blockIndex&codec.BlockCheckMask)<<2)
	w.blockIndex++
}

func (w *Writer) openBlock() {
	if w.inBlock {
		return
	}
	w.header(codec.BlockCompressed)
	w.enc.Reset()
	w.inBlock = true
	w.units = 0
	w.prevCtl = codec.CtlLiteral
}

func (w *Writer) control(ctl int) {
	w.openBlock()
	w.bank.Control[w.prevCtl].Encode(w.enc, ctl)
	w.prevCtl = ctl
}

func (w *Writer) unitDone() {
	w.units++
	if w.opts.BlockUnits > 0 && w.units >= w.opts.BlockUnits {
		w.EndBlock()
	}
}

func (w *Writer) last() byte {
	if len(w.hist) == 0 {
		return 0
	}
	return w.hist[len(w.hist)-1]
}

// copyHist extends the history with a back-reference. Distances outside the
// history (used to build corrupt streams) produce zeros.
func (w *Writer) copyHist(dist, length int) {
	for i := 0; i < length; i++ {
		var b byte
		if dist > 0 && dist <= len(w.hist) {
			b = w.hist[len(w.hist)-dist]
		}
		w.hist = append(w.hist, b)
	}
}

// Literal emits each byte of p as a literal token.
func (w *Writer) Literal(p ...byte) {
	for _, b := range p {
		w.control(codec.CtlLiteral)
		w.bank.Literal[codec.LiteralContext(w.last())].Encode(w.enc, int(b))
		w.hist = append(w.hist, b)
		w.unitDone()
	}
}

// Match emits a back-reference of length bytes starting dist bytes back.
func (w *Writer) Match(dist, length int) {
	w.control(codec.CtlMatch)
	w.bank.EncodeLength(w.enc, false, length)
	w.bank.EncodeDistance(w.enc, length, dist)
	w.rep[1] = w.rep[0]
	w.rep[0] = dist
	w.hasRep = true
	w.copyHist(dist, length)
	w.unitDone()
}

// Rep emits a match reusing recent distance idx (0 or 1).
func (w *Writer) Rep(idx, length int) {
	w.control(codec.CtlRep)
	w.bank.RepIndex.Encode(w.enc, uint32(idx))
	if idx == 1 {
		w.rep[0], w.rep[1] = w.rep[1], w.rep[0]
	}
	w.bank.EncodeLength(w.enc, true, length)
	w.copyHist(w.rep[0], length)
	w.unitDone()
}

// EndBlock closes the open compressed block, if any.
func (w *Writer) EndBlock() {
	if !w.inBlock {
		return
	}
	w.bank.Control[w.prevCtl].Encode(w.enc, codec.CtlEndBlock)
	w.out = append(w.out, w.enc.Flush()...)
	w.inBlock = false
}

// Raw emits p as stored blocks.
func (w *Writer) Raw(p []byte) {
	w.EndBlock()
	for {
		n := len(p)
		if n > 0xFFFF {
			n = 0xFFFF
		}
		w.header(codec.BlockRaw)
		w.out = binary.LittleEndian.AppendUint16(w.out, uint16(n))
		w.out = binary.LittleEndian.AppendUint16(w.out, ^uint16(n))
		w.out = append(w.out, p[:n]...)
		w.hist = append(w.hist, p[:n]...)
		p = p[n:]
		if len(p) == 0 {
			return
		}
	}
}

// Sync emits a sync block, after which both sides restart their models.
func (w *Writer) Sync() {
	w.EndBlock()
	w.header(codec.BlockSync)
	w.out = append(w.out, codec.SyncMarker[:]...)
	w.bank.Reset()
	w.rep = [codec.NumReps]int{}
	w.hasRep = false
}

// HasRep reports whether a rep token is currently legal.
func (w *Writer) HasRep() bool { return w.hasRep }

// Output returns the bytes the stream decodes to so far.
func (w *Writer) Output() []byte { return w.hist[w.seedLen:] }

// Bytes terminates the stream with the end-of-stream block and the Adler-32
// of the output and returns the encoded stream. The Writer must not be used
// afterwards.
func (w *Writer) Bytes() []byte {
	if !w.done {
		w.EndBlock()
		w.header(codec.BlockEOS)
		w.out = binary.BigEndian.AppendUint32(w.out, Checksum(w.Output()))
		w.done = true
	}
	return w.out
}

// Checksum is the stream checksum of p.
func Checksum(p []byte) uint32 { return adler32.Checksum(p) }
