// SPDX-License-Identifier: MIT

// Package randstream: the counter-keyed pseudo-random function.
//
// prf(seed, offset) must be (a) a pure function of its arguments, (b) stable
// across platforms and process counts, and (c) well diffused so that
// consecutive offsets are statistically independent. xxhash64 over the
// little-endian (seed, offset) block gives (a) and (b); the SplitMix64
// finalizer on top gives (c) even for low-entropy inputs.
package randstream

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// SplitMix64 finalizer constants; see Vigna 2014 for the rationale.
const (
	splitMixGamma = 0x9e3779b97f4a7c15
	splitMixMul1  = 0xbf58476d1ce4e5b9
	splitMixMul2  = 0x94d049bb133111eb
)

// prf returns the uniform 64-bit word at the given absolute stream offset.
// Complexity: O(1), no heap allocation (the block lives on the stack).
func prf(seed, offset uint64) uint64 {
	var block [16]byte
	binary.LittleEndian.PutUint64(block[0:8], seed)
	binary.LittleEndian.PutUint64(block[8:16], offset)

	return mix64(xxhash.Sum64(block[:]))
}

// mix64 applies the SplitMix64 avalanche finalizer.
func mix64(x uint64) uint64 {
	x += splitMixGamma
	x = (x ^ (x >> 30)) * splitMixMul1
	x = (x ^ (x >> 27)) * splitMixMul2
	x ^= x >> 31

	return x
}
