// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"hash/adler32"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lzham-go/fastlzham/compress/lzham"
)

type result struct {
	in, out  int64
	adler    uint32
	hasAdler bool
	steps    int
}

func (r *result) log(elapsed time.Duration) {
	fields := logrus.Fields{
		"in":      r.in,
		"out":     r.out,
		"steps":   r.steps,
		"elapsed": elapsed,
	}
	if r.hasAdler {
		fields["adler32"] = r.adler
	}
	logrus.WithFields(fields).Info("decompressed")
}

// decodeStream feeds r to a session in inChunk pieces and drains it through
// an outChunk buffer.
func decodeStream(r io.Reader, w io.Writer, p *lzham.Params, inChunk, outChunk int) (*result, error) {
	d, err := lzham.NewDecompressor(p)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	in := make([]byte, inChunk)
	out := make([]byte, outChunk)
	res := &result{}

	var pending []byte
	eof := false
	for {
		if len(pending) == 0 && !eof {
			n, err := io.ReadFull(r, in)
			switch err {
			case nil:
			case io.EOF, io.ErrUnexpectedEOF:
				eof = true
			default:
				return nil, errors.Wrap(err, "unable to read input")
			}
			pending = in[:n]
		}

		nIn, nOut, st := d.Decompress(pending, out, eof)
		pending = pending[nIn:]
		res.steps++

		if _, err := w.Write(out[:nOut]); err != nil {
			return nil, errors.Wrap(err, "unable to write output")
		}

		logrus.Debugf("step %d: consumed %d, produced %d, status %v", res.steps, nIn, nOut, st)

		switch {
		case st == lzham.StatusSuccess:
			if len(pending) > 0 {
				logrus.Debugf("ignoring %d bytes after the end of the stream", len(pending))
			}
			res.in, res.out = d.TotalIn(), d.TotalOut()
			res.adler, res.hasAdler = d.Adler32()
			return res, nil
		case st.Failed():
			if d.Err() == nil {
				return nil, errors.Errorf("decoder failed with status %v", st)
			}
			return nil, errors.Wrapf(d.Err(), "decoder failed with status %v", st)
		}
	}
}

// decodeMemory decodes all of r with one call. size bounds the output; zero
// lets it grow.
func decodeMemory(r io.Reader, w io.Writer, p *lzham.Params, size int) (*result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read input")
	}

	res := &result{in: int64(len(src)), steps: 1}
	var data []byte
	if size > 0 {
		dst := make([]byte, size)
		n, adler, st := lzham.DecompressMemory(p, dst, src)
		if st != lzham.StatusSuccess {
			return nil, errors.Errorf("decoder failed with status %v", st)
		}
		data = dst[:n]
		res.adler, res.hasAdler = adler, p.Flags&lzham.ComputeAdler32 != 0
	} else {
		data, err = lzham.DecompressAll(p, src)
		if err != nil {
			return nil, errors.Wrap(err, "decoder failed")
		}
		if p.Flags&lzham.ComputeAdler32 != 0 {
			res.adler, res.hasAdler = adler32.Checksum(data), true
		}
	}
	res.out = int64(len(data))

	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "unable to write output")
	}
	return res, nil
}
