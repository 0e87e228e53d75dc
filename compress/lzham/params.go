// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"github.com/pkg/errors"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/codec"
)

// Flags alter how a stream is decoded.
type Flags uint32

const (
	// OutputUnbuffered declares that the output slice of a step can hold the
	// whole remaining stream. Running out of output space is then a
	// StatusFailedDestBufTooSmall failure instead of a suspension.
	OutputUnbuffered Flags = 1 << iota
	// ComputeAdler32 verifies the Adler-32 trailer of the stream.
	ComputeAdler32
	// ReadZlibStream expects a zlib-style header in front of the first block.
	ReadZlibStream
)

// TableUpdateRate selects how quickly the adaptive models track the data.
// Encoder and decoder must agree on it.
type TableUpdateRate uint32

const (
	// DefaultTableUpdateRate is used when the rate is left zero.
	DefaultTableUpdateRate TableUpdateRate = codec.DefaultUpdateRate
	SlowestTableUpdateRate TableUpdateRate = codec.SlowestUpdateRate
	FastestTableUpdateRate TableUpdateRate = codec.FastestUpdateRate
)

const (
	MinDictSizeLog2 = codec.MinDictSizeLog2
	MaxDictSizeLog2 = codec.MaxDictSizeLog2
)

// Params describe a stream. They are copied by NewDecompressor and Reset;
// later changes have no effect on a running session.
type Params struct {
	// DictSizeLog2 is the log2 of the history window, in
	// [MinDictSizeLog2, MaxDictSizeLog2].
	DictSizeLog2 uint32
	UpdateRate   TableUpdateRate
	Flags        Flags
	// SeedBytes preload the history window as if they had been decoded
	// before the stream. They are not part of the output.
	SeedBytes []byte
	// MaxUpdateInterval and UpdateIntervalSlowRate override the rate class
	// when non-zero.
	MaxUpdateInterval      uint32
	UpdateIntervalSlowRate uint32
}

// Validate reports whether p describes a supported stream.
func (p *Params) Validate() error {
	_, err := p.settings()
	return err
}

func (p *Params) settings() (codec.Settings, error) {
	if p == nil {
		return codec.Settings{}, errors.Wrap(ErrInvalidParams, "nil params")
	}
	if p.DictSizeLog2 < MinDictSizeLog2 || p.DictSizeLog2 > MaxDictSizeLog2 {
		return codec.Settings{}, errors.Wrapf(ErrInvalidParams, "dictionary size log2 %d out of range [%d, %d]",
			p.DictSizeLog2, MinDictSizeLog2, MaxDictSizeLog2)
	}
	if p.Flags&^(OutputUnbuffered|ComputeAdler32|ReadZlibStream) != 0 {
		return codec.Settings{}, errors.Wrapf(ErrInvalidParams, "unknown flags %#x", uint32(p.Flags))
	}
	s, err := codec.SettingsFor(uint32(p.UpdateRate), p.MaxUpdateInterval, p.UpdateIntervalSlowRate)
	if err != nil {
		return codec.Settings{}, errors.Wrap(ErrInvalidParams, err.Error())
	}
	return s, nil
}
