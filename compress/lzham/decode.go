// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
)

// Decompress decodes from in into out. It returns the number of bytes
// consumed and produced and the resulting status.
//
// noMoreInput declares that in holds the rest of the stream; running short of
// input is then a failure instead of StatusNeedsMoreInput. Bytes following
// the end of the stream are not consumed.
//
// Once a terminal status is reached further calls return it without doing
// any work, until Reset. A call racing with another call on the same
// Decompressor returns StatusInvalidParameter and leaves the session alone.
func (d *Decompressor) Decompress(in, out []byte, noMoreInput bool) (nIn, nOut int, st Status) {
	if !atomic.CompareAndSwapInt32(&d.inUse, 0, 1) {
		return 0, 0, StatusInvalidParameter
	}
	defer atomic.StoreInt32(&d.inUse, 0)

	if d.closed {
		return 0, 0, StatusInvalidParameter
	}

	if d.status.Done() {
		return 0, 0, d.status
	}
	d.public = PhaseDecoding
	d.in.begin(in, noMoreInput)
	d.mark = 0

	written, err := d.decompress(out)

	d.updateChecksum(out[:written])
	if err == nil {
		d.in.unstage()
	}
	nIn, nOut = d.in.pos, written
	d.totalIn += int64(nIn)
	d.totalOut += int64(nOut)

	switch {
	case err == nil:
		d.setStatus(StatusSuccess, PhaseSuccess, nil)
	case err == errEndInput && !noMoreInput:
		d.setStatus(StatusNeedsMoreInput, PhaseNeedInput, nil)
	case err == errEndInput:
		d.fail(errors.Wrapf(ErrTruncated, "at input offset %d", d.totalIn))
	case err == errOutputOverflow && d.params.Flags&OutputUnbuffered == 0:
		d.setStatus(StatusHasMoreOutput, PhaseNeedOutput, nil)
	case err == errOutputOverflow:
		d.fail(errors.Wrapf(ErrDestTooSmall, "after %d bytes", d.totalOut))
	default:
		d.fail(err)
	}
	return nIn, nOut, d.status
}

func (d *Decompressor) setStatus(st Status, ph Phase, err error) {
	d.status = st
	d.public = ph
	d.err = err
}

func (d *Decompressor) fail(err error) {
	d.setStatus(StatusOf(err), PhaseFailed, err)
}

// updateChecksum adds out[d.mark:] to the running checksum.
func (d *Decompressor) updateChecksum(out []byte) {
	if d.params.Flags&ComputeAdler32 == 0 || len(out) <= d.mark {
		return
	}
	d.checksum.Write(out[d.mark:])
	d.mark = len(out)
}

// decompress runs the block state machine until the stream ends or a
// suspension or error stops it.
func (d *Decompressor) decompress(out []byte) (written int, err error) {
	written, err = d.flushOverflow(out, 0)
	for err == nil && d.phase != phaseFinish {
		switch d.phase {
		case phaseZlibHeader:
			err = d.readZlibHeader()
		case phaseNewBlock:
			err = d.readBlockHeader()
		case phaseCompInit:
			err = d.readCompHeader()
		case phaseCompBlock:
			written, err = d.decodeBlock(out, written)
		case phaseRawHeader:
			err = d.readRawHeader()
		case phaseLitBlock:
			written, err = d.decodeLiteralBlock(out, written)
		case phaseSyncBlock:
			err = d.readSyncBlock()
		case phaseStreamEnd:
			err = d.readTrailer(out[:written])
		}
	}
	return written, err
}

// flushOverflow emits output left over from the previous call.
func (d *Decompressor) flushOverflow(out []byte, written int) (int, error) {
	if d.writeOverflowLit {
		if written == len(out) {
			return written, errOutputOverflow
		}
		out[written] = d.overflowLit
		written++
		d.writeOverflowLit = false
	}
	if d.copyOverflowLength > 0 {
		n := d.win.Copy(out[written:], d.copyOverflowDistance, d.copyOverflowLength)
		if n == 0 && written < len(out) {
			return written, errors.Wrapf(ErrCorrupt, "distance %d outside history", d.copyOverflowDistance)
		}
		written += n
		d.copyOverflowLength -= n
		if d.copyOverflowLength > 0 {
			return written, errOutputOverflow
		}
	}
	return written, nil
}

// decodeLiteralBlock copies a raw block through to the output.
func (d *Decompressor) decodeLiteralBlock(out []byte, written int) (int, error) {
	for d.rawLength > 0 {
		if written == len(out) {
			return written, errOutputOverflow
		}
		buf, ok := d.in.peek(1)
		if !ok {
			return written, errEndInput
		}
		if len(buf) == 0 {
			return written, errors.Wrapf(ErrTruncated, "raw block short by %d bytes", d.rawLength)
		}
		n := d.rawLength
		if n > len(buf) {
			n = len(buf)
		}
		if rest := len(out) - written; n > rest {
			n = rest
		}
		copy(out[written:], buf[:n])
		d.win.Write(buf[:n])
		d.in.advance(n)
		d.rawLength -= n
		written += n
	}
	d.phase = phaseNewBlock
	return written, nil
}

// decodeBlock decodes tokens of a compressed block until the end-of-block
// symbol, the input runs short, or out is full. A token whose output does not
// fit is still decoded; the rest of its output is kept for the next call.
func (d *Decompressor) decodeBlock(out []byte, written int) (int, error) {
	rc := &d.rc
	bank := d.bank
	for {
		buf, ok := d.in.peek(maxUnitBytes)
		if !ok {
			return written, errEndInput
		}
		rc.Attach(buf, 0)

		ctl, err := bank.Control[d.prevCtl].Decode(rc)
		if err != nil {
			return written, d.badCode(err)
		}
		d.prevCtl = ctl

		var (
			lit          int
			length, dist int
		)
		switch ctl {
		case codec.CtlLiteral:
			lit, err = bank.Literal[codec.LiteralContext(d.win.Last())].Decode(rc)
		case codec.CtlMatch:
			if length, err = bank.DecodeLength(rc, false); err == nil {
				dist, err = bank.DecodeDistance(rc, length)
			}
		case codec.CtlRep:
			if !d.hasRep {
				return written, d.badCode(errors.Errorf("rep match before any match at output offset %d", d.outputOffset(written)))
			}
			if bank.RepIndex.Decode(rc) == 1 {
				d.rep[0], d.rep[1] = d.rep[1], d.rep[0]
			}
			length, err = bank.DecodeLength(rc, true)
			dist = d.rep[0]
		}
		if err != nil || rc.Overrun() {
			return written, d.badCode(err)
		}
		d.in.advance(rc.Pos())

		if (ctl == codec.CtlMatch || ctl == codec.CtlRep) && (dist < 1 || dist > d.win.Len()) {
			return written, errors.Wrapf(ErrCorrupt, "distance %d outside %d bytes of history at output offset %d",
				dist, d.win.Len(), d.outputOffset(written))
		}

		switch ctl {
		case codec.CtlEndBlock:
			d.phase = phaseNewBlock
			return written, nil
		case codec.CtlLiteral:
			d.win.Append(byte(lit))
			if written == len(out) {
				d.writeOverflowLit = true
				d.overflowLit = byte(lit)
				return written, errOutputOverflow
			}
			out[written] = byte(lit)
			written++
			continue
		case codec.CtlMatch:
			d.rep[1] = d.rep[0]
			d.rep[0] = dist
			d.hasRep = true
		}

		n := d.win.Copy(out[written:], dist, length)
		written += n
		if n < length {
			d.copyOverflowLength = length - n
			d.copyOverflowDistance = dist
			return written, errOutputOverflow
		}
	}
}

// badCode classifies a failed token. Reading past the end of final input is
// a truncation, anything else is corruption.
func (d *Decompressor) badCode(err error) error {
	if d.rc.Overrun() {
		return errors.Wrapf(ErrTruncated, "compressed block %d", d.blockIndex-1)
	}
	return errors.Wrapf(ErrCorrupt, "compressed block %d: %v", d.blockIndex-1, err)
}

func (d *Decompressor) outputOffset(written int) int64 {
	return d.totalOut + int64(written)
}
