package keccak

import "encoding/binary"

// Round constants for the full 24-round Keccak-f[1600] permutation. A
// round-reduced variant (Keccak-p[1600, 12]) runs only the last 12 of them.
var rc = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotc and piln encode the combined rho/pi step: rotc[i] is the rotation
// applied to the lane read in the previous step, piln[i] is the destination
// lane it's written to.
var rotc = [24]uint{
	1, 3, 6, 10, 15, 21,
	28, 36, 45, 55, 2, 14,
	27, 41, 56, 8, 25, 43,
	62, 18, 39, 61, 20, 44,
}

var piln = [24]uint{
	10, 7, 11, 17, 18, 3,
	5, 16, 8, 21, 24, 4,
	15, 23, 19, 13, 12, 2,
	20, 14, 22, 9, 6, 1,
}

func rotl64(x uint64, n uint) uint64 {
	return (x << n) | (x >> (64 - n))
}

// f1600Generic applies the last `rounds` rounds of the Keccak-f[1600]
// permutation to state, reinterpreted as 25 little-endian uint64 lanes.
// Keccak-p[1600, 12] (rounds=12) is the only value used by this package.
func f1600Generic(state *[200]byte, rounds int) {
	var a [25]uint64
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(state[i*8:])
	}

	var bc [5]uint64
	start := 24 - rounds
	for round := start; round < 24; round++ {
		for x := 0; x < 5; x++ {
			bc[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			t := bc[(x+4)%5] ^ rotl64(bc[(x+1)%5], 1)
			for y := 0; y < 25; y += 5 {
				a[y+x] ^= t
			}
		}

		t := a[1]
		for i := 0; i < 24; i++ {
			j := piln[i]
			bc[0] = a[j]
			a[j] = rotl64(t, rotc[i])
			t = bc[0]
		}

		for y := 0; y < 25; y += 5 {
			for x := 0; x < 5; x++ {
				bc[x] = a[y+x]
			}
			for x := 0; x < 5; x++ {
				a[y+x] ^= (^bc[(x+1)%5]) & bc[(x+2)%5]
			}
		}

		a[0] ^= rc[round]
	}

	for i := range a {
		binary.LittleEndian.PutUint64(state[i*8:], a[i])
	}
}
