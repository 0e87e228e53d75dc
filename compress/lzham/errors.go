// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidParams = errors.New("lzham: invalid parameters")
	ErrClosed        = errors.New("lzham: decompressor closed")
	ErrConcurrentUse = errors.New("lzham: concurrent use of a decompressor")

	ErrTruncated     = errors.New("lzham: unexpected end of input")
	ErrCorrupt       = errors.New("lzham: corrupt stream")
	ErrChecksum      = errors.New("lzham: adler32 mismatch")
	ErrBadRawBlock   = errors.New("lzham: bad raw block")
	ErrBadBlockSync  = errors.New("lzham: block index mismatch")
	ErrBadSyncBlock  = errors.New("lzham: bad sync block")
	ErrBadZlibHeader = errors.New("lzham: bad zlib header")
	ErrNeedSeedBytes = errors.New("lzham: stream needs seed bytes")
	ErrBadSeedBytes  = errors.New("lzham: seed bytes do not match the stream")
	ErrDestTooSmall  = errors.New("lzham: destination buffer too small")
	errInitFailed    = errors.New("lzham: session failed to initialize")
)

// Suspensions, never returned to callers.
var (
	errEndInput       = errors.New("end of input")
	errOutputOverflow = errors.New("output overflow")
)

var errStatus = []struct {
	err    error
	status Status
}{
	{ErrInvalidParams, StatusInvalidParameter},
	{ErrClosed, StatusInvalidParameter},
	{ErrConcurrentUse, StatusInvalidParameter},
	{ErrTruncated, StatusFailedExpectedMoreRawBytes},
	{ErrCorrupt, StatusFailedBadCode},
	{ErrChecksum, StatusFailedAdler32},
	{ErrBadRawBlock, StatusFailedBadRawBlock},
	{ErrBadBlockSync, StatusFailedBadCompBlockSyncCheck},
	{ErrBadSyncBlock, StatusFailedBadSyncBlock},
	{ErrBadZlibHeader, StatusFailedBadZlibHeader},
	{ErrNeedSeedBytes, StatusFailedNeedSeedBytes},
	{ErrBadSeedBytes, StatusFailedBadSeedBytes},
	{ErrDestTooSmall, StatusFailedDestBufTooSmall},
	{errInitFailed, StatusFailedInitializing},
}

// StatusOf maps an error returned by this package to its status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return StatusFailedBadCode
}
