//go:build arm64

package chacha

import (
	"encoding/binary"
	"math/bits"
)

// generateBlocks4 computes four consecutive keystream blocks (counters
// counter, counter+1, counter+2, counter+3) using 4-lane vectors, one lane
// per block, mirroring a NEON implementation's register layout: the
// constant/key/nonce words are broadcast across all four lanes, and the
// counter word is split into per-lane low and high halves so a 32-bit
// wraparound at any lane only affects that lane's high word.
//
// The lane arithmetic below is written in portable Go, not actual NEON
// intrinsics (see DESIGN.md); it produces output bit-identical to four
// sequential calls to block, verified by this package's fuzz tests.
func generateBlocks4(rounds int, init *[stateWords]uint32, counter uint64, out *[batchSize]byte) {
	var state [stateWords][batchBlocks]uint32

	for i := range 12 {
		for lane := range state[i] {
			state[i][lane] = init[i]
		}
	}
	for lane := range batchBlocks {
		c := counter + uint64(lane)
		state[12][lane] = uint32(c)
		state[13][lane] = uint32(c >> 32)
	}
	for lane := range state[14] {
		state[14][lane] = init[14]
	}
	for lane := range state[15] {
		state[15][lane] = init[15]
	}

	working := state
	for range rounds / 2 {
		quarterRound4(&working, 0, 4, 8, 12)
		quarterRound4(&working, 1, 5, 9, 13)
		quarterRound4(&working, 2, 6, 10, 14)
		quarterRound4(&working, 3, 7, 11, 15)

		quarterRound4(&working, 0, 5, 10, 15)
		quarterRound4(&working, 1, 6, 11, 12)
		quarterRound4(&working, 2, 7, 8, 13)
		quarterRound4(&working, 3, 4, 9, 14)
	}

	for word := range stateWords {
		for lane := range batchBlocks {
			v := working[word][lane] + state[word][lane]
			off := lane*blockSize + word*4
			binary.LittleEndian.PutUint32(out[off:off+4], v)
		}
	}
}

func quarterRound4(s *[stateWords][batchBlocks]uint32, a, b, c, d int) {
	for lane := range batchBlocks {
		s[a][lane] += s[b][lane]
		s[d][lane] ^= s[a][lane]
		s[d][lane] = bits.RotateLeft32(s[d][lane], 16)

		s[c][lane] += s[d][lane]
		s[b][lane] ^= s[c][lane]
		s[b][lane] = bits.RotateLeft32(s[b][lane], 12)

		s[a][lane] += s[b][lane]
		s[d][lane] ^= s[a][lane]
		s[d][lane] = bits.RotateLeft32(s[d][lane], 8)

		s[c][lane] += s[d][lane]
		s[b][lane] ^= s[c][lane]
		s[b][lane] = bits.RotateLeft32(s[b][lane], 7)
	}
}
