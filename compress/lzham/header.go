// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"bytes"
	"encoding/binary"
	"hash/adler32"

	"github.com/pkg/errors"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
	"github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"
)

const (
	zlibMethod   = 14
	zlibFDict    = 1 << 5
	zlibHdrSize  = 2
	zlibDictSize = 4

	rawHdrSize  = 4
	trailerSize = 4
)

// need peeks n bytes. A short final input is a truncation.
func (d *Decompressor) need(n int, what string) ([]byte, error) {
	buf, ok := d.in.peek(n)
	if !ok {
		return nil, errEndInput
	}
	if len(buf) < n {
		return nil, errors.Wrapf(ErrTruncated, "%s at input offset %d", what, d.inputOffset())
	}
	return buf, nil
}

// inputOffset approximates the stream offset of the next unread byte.
func (d *Decompressor) inputOffset() int64 {
	return d.totalIn + int64(d.in.pos) - int64(d.in.hi-d.in.lo)
}

func (d *Decompressor) readZlibHeader() error {
	buf, err := d.need(zlibHdrSize, "zlib header")
	if err != nil {
		return err
	}
	cmf, flg := buf[0], buf[1]
	if (uint(cmf)<<8|uint(flg))%31 != 0 || cmf&0x0F != zlibMethod {
		return errors.Wrapf(ErrBadZlibHeader, "cmf %#02x flg %#02x", cmf, flg)
	}
	if log2 := uint32(cmf>>4) + codec.MinDictSizeLog2; log2 > d.params.DictSizeLog2 {
		return errors.Wrapf(ErrBadZlibHeader, "stream dictionary 2^%d exceeds 2^%d", log2, d.params.DictSizeLog2)
	}
	if flg&zlibFDict == 0 {
		d.in.advance(zlibHdrSize)
		d.phase = phaseNewBlock
		return nil
	}
	if len(d.params.SeedBytes) == 0 {
		return ErrNeedSeedBytes
	}
	buf, err = d.need(zlibHdrSize+zlibDictSize, "zlib dictionary id")
	if err != nil {
		return err
	}
	if want := binary.BigEndian.Uint32(buf[zlibHdrSize:]); adler32.Checksum(d.params.SeedBytes) != want {
		return errors.Wrapf(ErrBadSeedBytes, "dictionary id %#08x", want)
	}
	d.in.advance(zlibHdrSize + zlibDictSize)
	d.phase = phaseNewBlock
	return nil
}

func (d *Decompressor) readBlockHeader() error {
	buf, err := d.need(1, "block header")
	if err != nil {
		return err
	}
	h := buf[0]
	if int(h>>2) != d.blockIndex&codec.BlockCheckMask {
		return errors.Wrapf(ErrBadBlockSync, "block %d header %#02x", d.blockIndex, h)
	}
	d.in.advance(1)
	d.blockIndex++
	switch h & codec.BlockTypeMask {
	case codec.BlockCompressed:
		d.phase = phaseCompInit
	case codec.BlockRaw:
		d.phase = phaseRawHeader
	case codec.BlockSync:
		d.phase = phaseSyncBlock
	default:
		d.phase = phaseStreamEnd
	}
	return nil
}

func (d *Decompressor) readCompHeader() error {
	buf, err := d.need(rangecoder.InitBytes, "compressed block")
	if err != nil {
		return err
	}
	d.rc.Attach(buf, 0)
	if err := d.rc.Init(); err != nil {
		return errors.Wrapf(ErrCorrupt, "block %d: %v", d.blockIndex-1, err)
	}
	d.in.advance(rangecoder.InitBytes)
	d.prevCtl = codec.CtlLiteral
	d.phase = phaseCompBlock
	return nil
}

func (d *Decompressor) readRawHeader() error {
	buf, err := d.need(rawHdrSize, "raw block header")
	if err != nil {
		return err
	}
	length := binary.LittleEndian.Uint16(buf)
	nlength := binary.LittleEndian.Uint16(buf[2:])
	if length != ^nlength {
		return errors.Wrapf(ErrBadRawBlock, "length %#04x check %#04x", length, nlength)
	}
	d.in.advance(rawHdrSize)
	d.rawLength = int(length)
	d.phase = phaseLitBlock
	return nil
}

func (d *Decompressor) readSyncBlock() error {
	buf, err := d.need(len(codec.SyncMarker), "sync block")
	if err != nil {
		return err
	}
	if !bytes.Equal(buf[:len(codec.SyncMarker)], codec.SyncMarker[:]) {
		return errors.Wrapf(ErrBadSyncBlock, "marker % x", buf[:len(codec.SyncMarker)])
	}
	d.in.advance(len(codec.SyncMarker))
	d.bank.Reset()
	d.resetReps()
	d.phase = phaseNewBlock
	return nil
}

// readTrailer checks the stored checksum against out, which must hold every
// byte produced in this call.
func (d *Decompressor) readTrailer(out []byte) error {
	buf, err := d.need(trailerSize, "stream trailer")
	if err != nil {
		return err
	}
	stored := binary.BigEndian.Uint32(buf)
	d.in.advance(trailerSize)
	if d.params.Flags&ComputeAdler32 != 0 {
		d.updateChecksum(out)
		if sum := d.checksum.Sum32(); sum != stored {
			return errors.Wrapf(ErrChecksum, "computed %#08x, stream has %#08x", sum, stored)
		}
	}
	d.phase = phaseFinish
	return nil
}
