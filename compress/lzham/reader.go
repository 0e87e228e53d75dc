// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import (
	"bufio"
	"io"
)

// Resetter resets a ReadCloser returned by NewReader to read a new stream.
type Resetter interface {
	Reset(r io.Reader, p *Params) error
}

const outBufferSize = 64 * 1024

// NewReader returns a ReadCloser decoding the stream read from r. Bytes after
// the end of the stream are left unread in r when r is a *bufio.Reader.
// OutputUnbuffered is ignored.
func NewReader(r io.Reader, p *Params) (io.ReadCloser, error) {
	rr := &decompressor{}
	if err := rr.Reset(r, p); err != nil {
		return nil, err
	}
	return rr, nil
}

type decompressor struct {
	state    *Decompressor
	out      []byte
	writePos int
	readPos  int
	r        io.Reader
	rBuf     *bufio.Reader
	err      error
}

func (f *decompressor) Reset(under io.Reader, p *Params) error {
	if p == nil {
		return ErrInvalidParams
	}
	q := *p
	q.Flags &^= OutputUnbuffered
	if f.state == nil {
		d, err := NewDecompressor(&q)
		if err != nil {
			return err
		}
		f.state = d
	} else if err := f.state.Reset(&q); err != nil {
		return err
	}

	f.r = under
	if ur, ok := under.(*bufio.Reader); ok {
		f.rBuf = ur
	} else if f.rBuf != nil {
		f.rBuf.Reset(under)
	} else {
		f.rBuf = bufio.NewReader(under)
	}
	if f.out == nil {
		f.out = make([]byte, outBufferSize)
	}
	f.readPos = 0
	f.writePos = 0
	f.err = nil
	return nil
}

func (f *decompressor) Close() error {
	if f.state == nil {
		return nil
	}
	return f.state.Close()
}

func (f *decompressor) Read(b []byte) (n int, err error) {
	for {
		if f.writePos-f.readPos > 0 {
			num := copy(b, f.out[f.readPos:f.writePos])
			f.readPos += num
			n += num
			if f.writePos == f.readPos {
				return n, f.err
			}
			return n, nil
		}
		if f.err != nil {
			return 0, f.err
		}
		f.err = f.step()
		if f.err != nil && f.writePos-f.readPos == 0 {
			return n, f.err
		}
	}
}

func (f *decompressor) step() error {
	state := f.state
	if state.Status() == StatusSuccess {
		return io.EOF
	}

	input, err := f.rBuf.Peek(f.rBuf.Size())
	if err != nil && err != bufio.ErrBufferFull && err != io.EOF {
		return err
	}
	eof := err == io.EOF

	nIn, nOut, st := state.Decompress(input, f.out, eof)
	if _, err := f.rBuf.Discard(nIn); err != nil {
		return err
	}
	f.readPos = 0
	f.writePos = nOut

	switch {
	case st == StatusSuccess:
		return io.EOF
	case st == StatusFailedExpectedMoreRawBytes:
		return io.ErrUnexpectedEOF
	case st.Failed():
		return state.Err()
	}
	return nil
}
