// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"math/rand"
	"testing"

	"github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"
)

func defaultSettings(t testing.TB) Settings {
	s, err := SettingsFor(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSlotCoversValues(t *testing.T) {
	for _, v := range []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 100, 255, 256, 1<<16 - 1, 1<<29 - 1} {
		slot := Slot(v)
		base := SlotBase(slot)
		n := SlotExtraBits(slot)
		if v < base || v-base >= 1<<n && n > 0 || n == 0 && v != base {
			t.Fatalf("v=%d slot=%d base=%d extra=%d", v, slot, base, n)
		}
	}
	if got := Slot(1<<16 - 1); got >= LenSlots {
		t.Fatalf("max length slot %d", got)
	}
	if got := Slot(1<<MaxDictSizeLog2 - 1); got >= 2*MaxDictSizeLog2 {
		t.Fatalf("max distance slot %d", got)
	}
}

func TestSettingsFor(t *testing.T) {
	tests := []struct {
		rate, interval, slow uint32
		ok                   bool
	}{
		{0, 0, 0, true},
		{1, 0, 0, true},
		{20, 0, 0, true},
		{21, 0, 0, false},
		{8, 3, 0, false},
		{8, 4, 0, true},
		{8, 20001, 0, false},
		{8, 0, 31, false},
		{8, 0, 255, true},
		{8, 0, 256, false},
	}
	for _, tc := range tests {
		_, err := SettingsFor(tc.rate, tc.interval, tc.slow)
		if (err == nil) != tc.ok {
			t.Errorf("SettingsFor(%d, %d, %d) err=%v", tc.rate, tc.interval, tc.slow, err)
		}
	}
	s, _ := SettingsFor(0, 0, 0)
	if s != rateTable[DefaultUpdateRate-1] {
		t.Fatalf("default rate resolved to %+v", s)
	}
}

func TestFreqHalvesAtLimit(t *testing.T) {
	s := Settings{MaxUpdateInterval: 4, SlowRate: 32, RescaleLimit: 64}
	m := NewFreq(4, s)
	if m.limit != 64 {
		t.Fatalf("limit %d", m.limit)
	}
	for m.Total() < 64 {
		m.Update(2)
	}
	// counts are 1,1,61,1; one more update crosses the limit
	m.Update(2)
	want := []uint32{1, 1, 31, 1}
	for i, w := range want {
		if m.Count(i) != w {
			t.Fatalf("count[%d]=%d want %d", i, m.Count(i), w)
		}
	}
	if m.Total() != 34 {
		t.Fatalf("total %d", m.Total())
	}
}

func TestFreqLimitFloor(t *testing.T) {
	s := Settings{MaxUpdateInterval: 8, SlowRate: 32, RescaleLimit: 512}
	if m := NewFreq(256, s); m.limit != 1024 {
		t.Fatalf("limit %d", m.limit)
	}
}

func TestFreqTableOnlyChangesOnInterval(t *testing.T) {
	s := Settings{MaxUpdateInterval: 16, SlowRate: 64, RescaleLimit: 4096}
	m := NewFreq(4, s)
	w := m.Width(0)
	for i := 0; i < 7; i++ {
		m.Update(0)
		if m.Width(0) != w {
			t.Fatalf("table rebuilt early after %d updates", i+1)
		}
	}
	m.Update(0)
	if m.Width(0) <= w {
		t.Fatal("table not rebuilt after the first interval")
	}
	if m.interval != 16 {
		t.Fatalf("interval %d, want 16", m.interval)
	}
}

func TestFreqResetIsCanonical(t *testing.T) {
	s := defaultSettings(t)
	a := NewFreq(256, s)
	b := NewFreq(256, s)
	for i := 0; i < 10000; i++ {
		a.Update(i % 7)
	}
	a.Reset()
	for i := 0; i < 256; i++ {
		if a.Width(i) != b.Width(i) || a.Count(i) != b.Count(i) {
			t.Fatalf("symbol %d differs after reset", i)
		}
	}
}

func TestFreqWidthsNeverZero(t *testing.T) {
	s := Settings{MaxUpdateInterval: 4, SlowRate: 32, RescaleLimit: 1 << 15}
	m := NewFreq(256, s)
	for i := 0; i < 200000; i++ {
		m.Update(0)
	}
	for i := 0; i < 256; i++ {
		if m.Width(i) == 0 {
			t.Fatalf("symbol %d has an empty slot", i)
		}
	}
}

func TestBankRoundTrip(t *testing.T) {
	s := defaultSettings(t)
	const log2 = 20
	rnd := rand.New(rand.NewSource(7))

	type tok struct {
		lit          byte
		length, dist int
		rep          bool
	}
	toks := make([]tok, 3000)
	for i := range toks {
		toks[i] = tok{
			lit:    byte(rnd.Intn(256)),
			length: MinMatch + rnd.Intn(300),
			dist:   1 + rnd.Intn(1<<log2),
			rep:    rnd.Intn(2) == 0,
		}
	}

	eb := NewBank(log2, s)
	enc := rangecoder.NewEncoder()
	for _, tk := range toks {
		eb.Control[CtlLiteral].Encode(enc, CtlMatch)
		eb.Literal[LiteralContext(tk.lit)].Encode(enc, int(tk.lit))
		eb.EncodeLength(enc, tk.rep, tk.length)
		eb.EncodeDistance(enc, tk.length, tk.dist)
		var bit uint32
		if tk.rep {
			bit = 1
		}
		eb.RepIndex.Encode(enc, bit)
	}
	out := append([]byte(nil), enc.Flush()...)

	db := NewBank(log2, s)
	var dec rangecoder.Decoder
	dec.Attach(out, 0)
	if err := dec.Init(); err != nil {
		t.Fatal(err)
	}
	for i, tk := range toks {
		ctl, err := db.Control[CtlLiteral].Decode(&dec)
		if err != nil || ctl != CtlMatch {
			t.Fatalf("%d: control %d %v", i, ctl, err)
		}
		lit, err := db.Literal[LiteralContext(tk.lit)].Decode(&dec)
		if err != nil || byte(lit) != tk.lit {
			t.Fatalf("%d: literal %d %v", i, lit, err)
		}
		length, err := db.DecodeLength(&dec, tk.rep)
		if err != nil || length != tk.length {
			t.Fatalf("%d: length %d want %d (%v)", i, length, tk.length, err)
		}
		dist, err := db.DecodeDistance(&dec, length)
		if err != nil || dist != tk.dist {
			t.Fatalf("%d: dist %d want %d (%v)", i, dist, tk.dist, err)
		}
		if bit := db.RepIndex.Decode(&dec); (bit == 1) != tk.rep {
			t.Fatalf("%d: rep bit %d", i, bit)
		}
	}
	if dec.Overrun() || dec.Pos() != len(out) {
		t.Fatalf("consumed %d of %d (overrun=%v)", dec.Pos(), len(out), dec.Overrun())
	}
}

func TestBankConfigureReusesModels(t *testing.T) {
	s := defaultSettings(t)
	b := NewBank(16, s)
	lit := b.Literal[0]
	dist := b.DistSlot[0]
	b.Configure(16, s)
	if b.Literal[0] != lit || b.DistSlot[0] != dist {
		t.Fatal("models reallocated for identical parameters")
	}
	b.Configure(24, s)
	if b.DistSlot[0].Len() != 48 {
		t.Fatalf("distance alphabet %d", b.DistSlot[0].Len())
	}
}
