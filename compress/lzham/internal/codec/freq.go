// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package codec

import "github.com/lzham-go/fastlzham/compress/lzham/internal/rangecoder"

const (
	probScale = 1 << rangecoder.FreqBits

	// alphabets above this size get a decode lookup table
	directSearchLimit = 16
)

// Freq is an adaptive multi-symbol model.
//
// Counters are updated after every symbol, but the coding table derived from
// them is only rebuilt every interval symbols. The interval grows from 8 up
// to Settings.MaxUpdateInterval, so young models adapt quickly and mature
// ones stay cheap.
type Freq struct {
	counts []uint32
	dist   []uint32 // cumulative, len(counts)+1 entries, dist[n] == probScale
	lookup []uint16 // first candidate symbol per (value >> tableShift)

	tableShift  uint
	total       uint32
	limit       uint32
	interval    uint32
	untilUpdate uint32
	settings    Settings
}

// NewFreq returns an n-symbol model in its initial state.
func NewFreq(n int, s Settings) *Freq {
	m := &Freq{}
	m.configure(n, s)
	return m
}

func (m *Freq) configure(n int, s Settings) {
	if len(m.counts) != n {
		m.counts = make([]uint32, n)
		m.dist = make([]uint32, n+1)
		m.lookup = nil
		m.tableShift = 0
		if n > directSearchLimit {
			bits := uint(3)
			for n > 1<<(bits+2) {
				bits++
			}
			m.lookup = make([]uint16, 1<<bits)
			m.tableShift = rangecoder.FreqBits - bits
		}
	}
	m.settings = s
	m.limit = s.limitFor(n)
	m.Reset()
}

// Len returns the alphabet size.
func (m *Freq) Len() int { return len(m.counts) }

// Reset returns the model to its canonical initial state.
func (m *Freq) Reset() {
	for i := range m.counts {
		m.counts[i] = 1
	}
	m.total = uint32(len(m.counts))
	m.interval = m.settings.firstInterval()
	m.untilUpdate = m.interval
	m.rebuild()
}

// Count returns the adaptive counter of sym.
func (m *Freq) Count(sym int) uint32 { return m.counts[sym] }

// Total returns the sum of all counters.
func (m *Freq) Total() uint32 { return m.total }

// Width returns the size of sym's slot in the current coding table.
func (m *Freq) Width(sym int) uint32 { return m.dist[sym+1] - m.dist[sym] }

// Update records an occurrence of sym.
func (m *Freq) Update(sym int) {
	m.counts[sym]++
	m.total++
	if m.total > m.limit {
		m.total = 0
		for i, c := range m.counts {
			c = (c + 1) >> 1
			m.counts[i] = c
			m.total += c
		}
	}
	m.untilUpdate--
	if m.untilUpdate == 0 {
		m.rebuild()
		m.interval = m.settings.nextInterval(m.interval)
		m.untilUpdate = m.interval
	}
}

func (m *Freq) rebuild() {
	scale := uint32(0x80000000) / m.total
	var sum uint32
	for k, c := range m.counts {
		m.dist[k] = (scale * sum) >> (31 - rangecoder.FreqBits)
		sum += c
	}
	n := len(m.counts)
	m.dist[n] = probScale
	if m.lookup == nil {
		return
	}
	s := 0
	for i := range m.lookup {
		x := uint32(i) << m.tableShift
		for m.dist[s+1] <= x {
			s++
		}
		m.lookup[i] = uint16(s)
	}
}

// Decode reads one symbol and updates the model.
func (m *Freq) Decode(d *rangecoder.Decoder) (int, error) {
	v, err := d.GetFreq()
	if err != nil {
		return 0, err
	}
	s := 0
	if m.lookup != nil {
		s = int(m.lookup[v>>m.tableShift])
	}
	for m.dist[s+1] <= v {
		s++
	}
	d.Decode(m.dist[s], m.dist[s+1]-m.dist[s])
	m.Update(s)
	return s, nil
}

// Encode writes sym and updates the model.
func (m *Freq) Encode(e *rangecoder.Encoder, sym int) {
	e.Encode(m.dist[sym], m.dist[sym+1]-m.dist[sym])
	m.Update(sym)
}
