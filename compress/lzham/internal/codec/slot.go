// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package codec

import "math/bits"

// Slot maps a value to its slot. Values below 4 are their own slot; larger
// values are grouped by bit length and second-highest bit.
func Slot(v uint32) uint32 {
	if v < 4 {
		return v
	}
	n := uint32(bits.Len32(v))
	return 2*(n-1) + (v>>(n-2))&1
}

// SlotExtraBits returns the number of low bits sent after slot.
func SlotExtraBits(slot uint32) uint {
	if slot < 4 {
		return 0
	}
	return uint(slot>>1) - 1
}

// SlotBase returns the smallest value of slot.
func SlotBase(slot uint32) uint32 {
	if slot < 4 {
		return slot
	}
	return (2 | slot&1) << SlotExtraBits(slot)
}
