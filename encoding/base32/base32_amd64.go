//go:build amd64

package base32

import "github.com/klauspost/cpuid/v2"

func init() {
	fastPathAvailable = cpuid.CPU.Has(cpuid.AVX2)
}

const (
	fastEncodeThreshold = 20
	fastDecodeThreshold = 32
)

// encodeFast encodes src in 20-byte tiles (32 output symbols each), the
// batch unit a real AVX2 implementation would vectorize across lanes; the
// body below is portable Go executing the same per-group math as
// encodeBlock, not hand-written vector instructions (see DESIGN.md).
func encodeFast(dst, src []byte, alphabet *Alphabet, padding bool) {
	enc := &alphabet.encode
	tiles := len(src) / 20
	for i := range tiles {
		in := src[i*20 : i*20+20]
		out := dst[i*32 : i*32+32]
		for g := range 4 {
			encodeBlock(out[g*8:g*8+8], in[g*5:g*5+5], enc)
		}
	}
	consumed := tiles * 20
	encodeScalarWord(dst[tiles*32:], src[consumed:], alphabet, padding)
}

// decodeFast decodes body in 32-symbol tiles (20 output bytes each) and
// returns the number of input bytes consumed, always a multiple of 32.
func decodeFast(dst, body []byte, alphabet *Alphabet) (int, error) {
	table := &alphabet.decode
	tiles := len(body) / 32
	for i := range tiles {
		in := body[i*32 : i*32+32]
		out := dst[i*20 : i*20+20]
		for g := range 4 {
			group := in[g*8 : g*8+8]
			var v [8]byte
			for j := range v {
				v[j] = table[group[j]]
			}
			if (v[0] | v[1] | v[2] | v[3] | v[4] | v[5] | v[6] | v[7]) > 31 {
				for j := range 8 {
					if table[group[j]] == 0xFF {
						return 0, InvalidCharacterError{group[j]}
					}
				}
			}
			og := out[g*5 : g*5+5]
			og[0] = v[0]<<3 | v[1]>>2
			og[1] = v[1]<<6 | v[2]<<1 | v[3]>>4
			og[2] = v[3]<<4 | v[4]>>1
			og[3] = v[4]<<7 | v[5]<<2 | v[6]>>3
			og[4] = v[6]<<5 | v[7]
		}
	}
	return tiles * 32, nil
}
