//go:build go1.18
// +build go1.18

package lzham

import (
	"bytes"
	"io"
	"testing"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/lzhamtest"
)

func FuzzDecompress(f *testing.F) {
	f.Add(text(4096, 40))
	f.Add([]byte("AAAAAAAA"))

	// a stream reusing a distance that was never set
	w := lzhamtest.NewWriter(lzhamtest.Options{DictSizeLog2: testDictLog2})
	w.Literal('a', 'b')
	w.Match(2, 2)
	w.Rep(1, 4)
	f.Add(w.Bytes())
	f.Fuzz(func(t *testing.T, source []byte) {
		input := compress(source)
		r, err := NewReader(bytes.NewReader(input), testParams())
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(r)
		n := len(data)
		if err != nil && err != io.EOF {
			t.Fatal(err, n, bytes.Equal(data[:n], source[:n]))
		}
		if !bytes.Equal(data[:n], source) {
			t.Fatal()
		}

		// the same bytes read as a stream must never crash the decoder
		dst := make([]byte, 2*len(source)+64)
		if _, _, st := DecompressMemory(testParams(), dst, source); st == StatusSuccess && len(source) < 5 {
			t.Fatalf("%d byte input decoded successfully", len(source))
		}
	})
}
