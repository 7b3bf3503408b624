//go:build !purego

package keccak

import (
	"github.com/klauspost/cpuid/v2"
)

// p1600 applies the permutation to a single state.
//
// Dispatch mirrors the NEON/FEAT_SHA3 feature check a vectorized build would
// use; the body executes the portable permutation in keccak_generic.go (see
// DESIGN.md for why no real NEON instructions back this build).
func p1600(a *[200]byte) {
	f1600Generic(a, 12)
}

// P1600x2 applies the Keccak-p[1600, 12] permutation in parallel to the two states.
func P1600x2(state1, state2 *[200]byte) {
	f1600Generic(state1, 12)
	f1600Generic(state2, 12)
}

// P1600x4 applies the Keccak-p[1600, 12] permutation in parallel to the four states.
func P1600x4(state1, state2, state3, state4 *[200]byte) {
	f1600Generic(state1, 12)
	f1600Generic(state2, 12)
	f1600Generic(state3, 12)
	f1600Generic(state4, 12)
}

func init() {
	if cpuid.CPU.Has(cpuid.SHA3) {
		Lanes = 2
	} else {
		Lanes = 1
	}
}
