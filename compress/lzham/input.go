// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

const (
	// maxUnitBytes bounds the compressed bytes a single token can occupy. A
	// token is only decoded with that much look-ahead available, unless the
	// input is final, so it never has to be resumed halfway.
	maxUnitBytes = 64

	stageSize = 4 * maxUnitBytes
)

// input feeds the decoder from the caller's slice, keeping a small stage for
// the tail of a slice that was too short to make progress on.
//
// Bytes moved to the stage are reported as consumed. Once every unread staged
// byte came from the current call they are handed back to the caller's slice,
// so the consumed count is exact whenever the stream ends in the same call
// that delivered its last bytes.
type input struct {
	stage  [stageSize]byte
	lo, hi int // unread bytes are stage[lo:hi]
	fresh  int // trailing bytes of stage[lo:hi] copied in during this call

	src    []byte
	pos    int
	noMore bool
	staged bool // the last peek returned the stage
}

func (in *input) reset() {
	in.lo, in.hi, in.fresh = 0, 0, 0
	in.src = nil
	in.pos = 0
	in.noMore = false
	in.staged = false
}

func (in *input) begin(src []byte, noMore bool) {
	in.src = src
	in.pos = 0
	in.noMore = noMore
	in.fresh = 0
}

// final reports whether the last peeked view holds all input there will ever be.
func (in *input) final() bool {
	return in.noMore && (!in.staged || in.pos == len(in.src))
}

// fill compacts the stage and tops it up from the caller's slice.
func (in *input) fill() {
	if in.lo > 0 {
		in.hi = copy(in.stage[:], in.stage[in.lo:in.hi])
		in.lo = 0
	}
	n := copy(in.stage[in.hi:], in.src[in.pos:])
	in.hi += n
	in.pos += n
	in.fresh += n
}

// unstage returns unread staged bytes to the caller's slice when all of them
// were copied from it during this call.
func (in *input) unstage() {
	if n := in.hi - in.lo; n > 0 && n <= in.fresh {
		in.pos -= n
		in.lo, in.hi, in.fresh = 0, 0, 0
	}
}

// peek returns the unread input, holding at least need bytes unless the
// input is final. It returns false when the decoder must wait for more input;
// the remaining bytes have then been staged.
func (in *input) peek(need int) ([]byte, bool) {
	if in.lo < in.hi {
		in.fill()
		in.unstage()
	}
	if in.lo < in.hi {
		in.staged = true
		buf := in.stage[in.lo:in.hi]
		return buf, len(buf) >= need || in.final()
	}
	in.staged = false
	buf := in.src[in.pos:]
	if len(buf) >= need || in.noMore {
		return buf, true
	}
	in.lo = 0
	in.hi = copy(in.stage[:], buf)
	in.pos += in.hi
	in.fresh += in.hi
	return nil, false
}

// advance consumes n bytes of the last peeked view.
func (in *input) advance(n int) {
	if !in.staged {
		in.pos += n
		return
	}
	in.lo += n
	if u := in.hi - in.lo; in.fresh > u {
		in.fresh = u
	}
}
