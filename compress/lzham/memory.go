// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package lzham

import "github.com/pkg/errors"

// DecompressMemory decodes the complete stream in src into dst. It returns
// the number of bytes written, the Adler-32 of the output when p enables
// checksums, and the final status. A dst too small for the output yields
// StatusFailedDestBufTooSmall.
func DecompressMemory(p *Params, dst, src []byte) (n int, adler uint32, st Status) {
	if p == nil {
		return 0, 0, StatusInvalidParameter
	}
	q := *p
	q.Flags |= OutputUnbuffered
	d, err := NewDecompressor(&q)
	if err != nil {
		return 0, 0, StatusOf(err)
	}
	defer d.Close()

	_, n, st = d.Decompress(src, dst, true)
	adler, _ = d.Adler32()
	return n, adler, st
}

// DecompressAll decodes the complete stream in src, growing the output as
// needed.
func DecompressAll(p *Params, src []byte) ([]byte, error) {
	if p == nil {
		return nil, errors.Wrap(ErrInvalidParams, "nil params")
	}
	q := *p
	q.Flags &^= OutputUnbuffered
	d, err := NewDecompressor(&q)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	size := 4 * len(src)
	if size < 4096 {
		size = 4096
	}
	out := make([]byte, 0, size)
	for {
		nIn, nOut, st := d.Decompress(src, out[len(out):cap(out)], true)
		src = src[nIn:]
		out = out[:len(out)+nOut]
		switch {
		case st == StatusSuccess:
			return out, nil
		case st == StatusHasMoreOutput:
			out = append(out[:cap(out)], 0)[:len(out)]
		case st.Failed():
			return out, d.Err()
		default:
			return out, errors.Wrapf(ErrTruncated, "status %v", st)
		}
	}
}
