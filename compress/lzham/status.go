// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import "fmt"

// Status is the outcome of a decode step. Values below StatusSuccess are
// suspensions, values above it are failures.
type Status int

const (
	// StatusNotFinished is reported by a session that has not been stepped yet.
	StatusNotFinished Status = iota
	// StatusHasMoreOutput asks for more output space.
	StatusHasMoreOutput
	// StatusNeedsMoreInput asks for more compressed bytes.
	StatusNeedsMoreInput
	StatusSuccess
	StatusFailedInitializing
	StatusFailedDestBufTooSmall
	StatusFailedExpectedMoreRawBytes
	StatusFailedBadCode
	StatusFailedAdler32
	StatusFailedBadRawBlock
	StatusFailedBadCompBlockSyncCheck
	StatusFailedBadZlibHeader
	StatusFailedNeedSeedBytes
	StatusFailedBadSeedBytes
	StatusFailedBadSyncBlock
	StatusInvalidParameter
)

var statusNames = [...]string{
	StatusNotFinished:                 "not finished",
	StatusHasMoreOutput:               "has more output",
	StatusNeedsMoreInput:              "needs more input",
	StatusSuccess:                     "success",
	StatusFailedInitializing:          "failed initializing",
	StatusFailedDestBufTooSmall:       "destination buffer too small",
	StatusFailedExpectedMoreRawBytes:  "expected more raw bytes",
	StatusFailedBadCode:               "bad code",
	StatusFailedAdler32:               "adler32 mismatch",
	StatusFailedBadRawBlock:           "bad raw block",
	StatusFailedBadCompBlockSyncCheck: "bad block sync check",
	StatusFailedBadZlibHeader:         "bad zlib header",
	StatusFailedNeedSeedBytes:         "need seed bytes",
	StatusFailedBadSeedBytes:          "bad seed bytes",
	StatusFailedBadSyncBlock:          "bad sync block",
	StatusInvalidParameter:            "invalid parameter",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Failed reports whether s is a terminal failure.
func (s Status) Failed() bool { return s > StatusSuccess }

// Done reports whether s is terminal.
func (s Status) Done() bool { return s >= StatusSuccess }

// Phase is the observable state of a session.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseDecoding
	PhaseNeedInput
	PhaseNeedOutput
	PhaseSuccess
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseReady:      "ready",
	PhaseDecoding:   "decoding",
	PhaseNeedInput:  "need input",
	PhaseNeedOutput: "need output",
	PhaseSuccess:    "success",
	PhaseFailed:     "failed",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}
