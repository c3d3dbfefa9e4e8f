package bitboard

import (
	"fmt"
	"math/bits"
)

// BitSelector returns the bit index (0-63) of the n-th (0-based) set bit of
// word, or 64 when word has n or fewer set bits. All implementations agree on
// every input.
type BitSelector interface {
	Select(word uint64, n int) int
	Name() string
}

// DepositSelector deposits a single bit at rank n through word as a mask and
// takes the index of the result. It uses the BMI2 PDEP instruction when the
// CPU has it.
type DepositSelector struct{}

// Name identifies the selector in config and logs.
func (DepositSelector) Name() string { return "deposit" }

// Select returns 64 when word has no set bit at rank n.
func (DepositSelector) Select(word uint64, n int) int {
	if n < 0 || n >= 64 {
		return 64
	}
	return bits.TrailingZeros64(pdep(1<<n, word))
}

// PopcountSelector narrows the search window by halves, counting the set bits
// of the lower half at each step.
type PopcountSelector struct{}

// Name identifies the selector in config and logs.
func (PopcountSelector) Name() string { return "popcount" }

func (PopcountSelector) Select(v uint64, n int) int {
	if n < 0 || n >= bits.OnesCount64(v) {
		return 64
	}
	b := 0
	if c := bits.OnesCount64(v & 0xFFFFFFFF); n >= c {
		n -= c
		b += 32
		v >>= 32
	}
	if c := bits.OnesCount64(v & 0xFFFF); n >= c {
		n -= c
		b += 16
		v >>= 16
	}
	if c := bits.OnesCount64(v & 0xFF); n >= c {
		n -= c
		b += 8
		v >>= 8
	}
	if c := bits.OnesCount64(v & 0xF); n >= c {
		n -= c
		b += 4
		v >>= 4
	}
	if c := bits.OnesCount64(v & 0x3); n >= c {
		n -= c
		b += 2
		v >>= 2
	}
	if c := int(v & 1); n >= c {
		b++
	}
	return b
}

// pdepSoftware is the portable parallel bit deposit: the i-th lowest bit of
// src goes to the position of the i-th lowest set bit of mask.
func pdepSoftware(src, mask uint64) uint64 {
	var out uint64
	for bb := uint64(1); mask != 0; bb <<= 1 {
		if src&bb != 0 {
			out |= mask & -mask
		}
		mask &= mask - 1
	}
	return out
}

// HardwareDeposit reports whether DepositSelector runs on the PDEP instruction.
func HardwareDeposit() bool { return hasPDEP }

// DefaultSelector picks the deposit path when the CPU supports it and the
// popcount search otherwise.
func DefaultSelector() BitSelector {
	if HardwareDeposit() {
		return DepositSelector{}
	}
	return PopcountSelector{}
}

// SelectorByName resolves "auto", "deposit" or "popcount".
func SelectorByName(name string) (BitSelector, error) {
	switch name {
	case "", "auto":
		return DefaultSelector(), nil
	case "deposit":
		return DepositSelector{}, nil
	case "popcount":
		return PopcountSelector{}, nil
	default:
		return nil, fmt.Errorf("bit selector %q: %w", name, ErrUnknownStrategy)
	}
}
