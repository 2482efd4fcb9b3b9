// Package conv provides checked integer conversions for element IDs.
//
// Element IDs are uint32 handles into the lattice arena. Overflow indicates a
// programming error (more than 4G elements), so these helpers panic instead of
// returning an error.
package conv

import "math"

// IntToUint32 converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// UintToUint32 converts a uint (as returned by bitset iteration) to uint32.
// Panics if n > math.MaxUint32.
//
//go:inline
func UintToUint32(n uint) uint32 {
	if uint64(n) > math.MaxUint32 {
		panic("integer overflow: uint value out of uint32 range")
	}
	return uint32(n)
}
