// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"hash"
	"hash/adler32"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
	"github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"
	"github.com/lzham-go/fastlzham/compress/lzham/internal/window"
)

// decode phases
const (
	phaseZlibHeader = iota
	phaseNewBlock
	phaseCompInit
	phaseCompBlock
	phaseRawHeader
	phaseLitBlock
	phaseSyncBlock
	phaseStreamEnd
	phaseFinish
)

// Decompressor holds the state of one stream. It owns its history window and
// models; a Decompressor must not be stepped from two goroutines at once.
//
// Independent streams may reuse one Decompressor through Reset, which keeps
// the allocations when the dictionary size is unchanged.
type Decompressor struct {
	params   Params
	settings codec.Settings

	rc   rangecoder.Decoder
	bank *codec.Bank
	win  *window.Window
	in   input

	phase  int32
	public Phase
	status Status
	err    error

	blockIndex int
	prevCtl    int
	rep        [codec.NumReps]int
	hasRep     bool

	// Output that was decoded but did not fit the caller's slice.
	writeOverflowLit     bool
	overflowLit          byte
	copyOverflowLength   int
	copyOverflowDistance int

	rawLength int // bytes left in the current raw block

	checksum hash.Hash32
	mark     int // start of the output not yet added to checksum

	totalIn  int64
	totalOut int64

	inUse  int32
	closed bool
}

// NewDecompressor returns a Decompressor ready to decode a stream described
// by p. Invalid parameters yield a nil Decompressor and an error wrapping
// ErrInvalidParams.
func NewDecompressor(p *Params) (*Decompressor, error) {
	d := &Decompressor{}
	if err := d.init(p); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset prepares d for a new stream. If p is invalid the error is returned
// and d stays in StatusFailedInitializing until a successful Reset.
func (d *Decompressor) Reset(p *Params) error {
	if !atomic.CompareAndSwapInt32(&d.inUse, 0, 1) {
		return ErrConcurrentUse
	}
	defer atomic.StoreInt32(&d.inUse, 0)

	if d.closed {
		return ErrClosed
	}

	if err := d.init(p); err != nil {
		d.status = StatusFailedInitializing
		d.public = PhaseFailed
		d.err = errors.Wrap(errInitFailed, err.Error())
		return err
	}
	return nil
}

func (d *Decompressor) init(p *Params) error {
	s, err := p.settings()
	if err != nil {
		return err
	}
	d.params = *p
	d.params.SeedBytes = append([]byte(nil), p.SeedBytes...)
	d.settings = s

	size := 1 << p.DictSizeLog2
	if d.win == nil {
		d.win = window.New(size)
	} else {
		d.win.Reset(size)
	}
	if d.bank == nil {
		d.bank = codec.NewBank(p.DictSizeLog2, s)
	} else {
		d.bank.Configure(p.DictSizeLog2, s)
	}
	d.win.Write(d.params.SeedBytes)

	d.rc.Reset()
	d.in.reset()
	d.phase = phaseNewBlock
	if p.Flags&ReadZlibStream != 0 {
		d.phase = phaseZlibHeader
	}
	d.public = PhaseReady
	d.status = StatusNotFinished
	d.err = nil

	d.blockIndex = 0
	d.prevCtl = codec.CtlLiteral
	d.resetReps()
	d.writeOverflowLit = false
	d.copyOverflowLength = 0
	d.copyOverflowDistance = 0
	d.rawLength = 0

	if d.checksum == nil {
		d.checksum = adler32.New()
	} else {
		d.checksum.Reset()
	}
	d.mark = 0
	d.totalIn = 0
	d.totalOut = 0
	return nil
}

func (d *Decompressor) resetReps() {
	d.rep = [codec.NumReps]int{}
	d.hasRep = false
}

// Close releases the history window. Further calls on d report
// StatusInvalidParameter with ErrClosed.
func (d *Decompressor) Close() error {
	if !atomic.CompareAndSwapInt32(&d.inUse, 0, 1) {
		return ErrConcurrentUse
	}
	defer atomic.StoreInt32(&d.inUse, 0)

	if d.closed {
		return nil
	}
	d.closed = true
	d.win.Release()
	d.bank = nil
	d.in.reset()
	d.status = StatusInvalidParameter
	d.public = PhaseFailed
	d.err = ErrClosed
	return nil
}

// Phase returns the state of the session.
func (d *Decompressor) Phase() Phase { return d.public }

// Status returns the status of the last step.
func (d *Decompressor) Status() Status { return d.status }

// Err returns the error behind a failure status, or nil.
func (d *Decompressor) Err() error { return d.err }

// Adler32 returns the checksum of the output produced so far and whether
// checksums are enabled for the stream.
func (d *Decompressor) Adler32() (uint32, bool) {
	if d.params.Flags&ComputeAdler32 == 0 {
		return 0, false
	}
	return d.checksum.Sum32(), true
}

// TotalIn returns the number of compressed bytes consumed.
func (d *Decompressor) TotalIn() int64 { return d.totalIn }

// TotalOut returns the number of bytes produced.
func (d *Decompressor) TotalOut() int64 { return d.totalOut }
