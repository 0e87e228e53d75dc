// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package codec

import "github.com/pkg/errors"

// Table update rate classes. The class is a format parameter: the encoder and
// decoder must use the same one.
const (
	SlowestUpdateRate = 1
	DefaultUpdateRate = 8
	FastestUpdateRate = 20

	MinMaxUpdateInterval = 4
	MaxMaxUpdateInterval = 20000
	MinSlowRate          = 32
	MaxSlowRate          = 255

	maxRescaleLimit = 1 << 15
	initialInterval = 8
)

// Settings controls how quickly the frequency models adapt.
type Settings struct {
	// MaxUpdateInterval caps the number of symbols between coding table rebuilds.
	MaxUpdateInterval uint32
	// SlowRate grows the rebuild interval by SlowRate/32 after each rebuild.
	SlowRate uint32
	// RescaleLimit is the counter total above which a model halves its counters.
	RescaleLimit uint32
}

// rateTable is indexed by class-1.
var rateTable = [FastestUpdateRate]Settings{
	{1024, 224, 32768},
	{768, 208, 32768},
	{512, 192, 24576},
	{384, 176, 16384},
	{256, 160, 16384},
	{192, 144, 12288},
	{160, 128, 8192},
	{128, 112, 8192},
	{96, 96, 6144},
	{80, 88, 4096},
	{64, 80, 4096},
	{48, 72, 3072},
	{40, 64, 2048},
	{32, 56, 2048},
	{24, 48, 1536},
	{20, 44, 1024},
	{16, 40, 1024},
	{12, 36, 768},
	{8, 34, 512},
	{4, 32, 512},
}

// SettingsFor resolves a rate class and optional overrides into Settings.
// A zero class selects DefaultUpdateRate; zero overrides keep the class values.
func SettingsFor(rate, maxInterval, slowRate uint32) (Settings, error) {
	if rate == 0 {
		rate = DefaultUpdateRate
	}
	if rate < SlowestUpdateRate || rate > FastestUpdateRate {
		return Settings{}, errors.Errorf("table update rate %d out of range [%d, %d]", rate, SlowestUpdateRate, FastestUpdateRate)
	}
	s := rateTable[rate-1]
	if maxInterval != 0 {
		if maxInterval < MinMaxUpdateInterval || maxInterval > MaxMaxUpdateInterval {
			return Settings{}, errors.Errorf("max update interval %d out of range [%d, %d]", maxInterval, MinMaxUpdateInterval, MaxMaxUpdateInterval)
		}
		s.MaxUpdateInterval = maxInterval
	}
	if slowRate != 0 {
		if slowRate < MinSlowRate || slowRate > MaxSlowRate {
			return Settings{}, errors.Errorf("update interval slow rate %d out of range [%d, %d]", slowRate, MinSlowRate, MaxSlowRate)
		}
		s.SlowRate = slowRate
	}
	return s, nil
}

// limitFor returns the rescale limit of an n-symbol model.
func (s Settings) limitFor(n int) uint32 {
	limit := s.RescaleLimit
	if floor := uint32(4 * n); limit < floor {
		limit = floor
	}
	if limit > maxRescaleLimit {
		limit = maxRescaleLimit
	}
	return limit
}

func (s Settings) firstInterval() uint32 {
	if s.MaxUpdateInterval < initialInterval {
		return s.MaxUpdateInterval
	}
	return initialInterval
}

func (s Settings) nextInterval(cur uint32) uint32 {
	next := (cur*s.SlowRate + 31) >> 5
	if next > s.MaxUpdateInterval {
		next = s.MaxUpdateInterval
	}
	return next
}
