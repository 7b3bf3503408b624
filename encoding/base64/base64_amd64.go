//go:build amd64

package base64

import "github.com/klauspost/cpuid/v2"

func init() {
	fastPathAvailable = cpuid.CPU.Has(cpuid.AVX2)
}

const (
	fastEncodeThreshold = 28
	fastDecodeThreshold = 45
)

// encodeFast encodes src in 24-byte tiles (32 output symbols each), the
// batch unit a real AVX2 implementation would vectorize across lanes; the
// body below is portable Go executing the same per-group math as
// encodeGroup, not hand-written vector instructions (see DESIGN.md).
func encodeFast(dst, src []byte, alphabet *Alphabet, padding bool) {
	enc := &alphabet.encode
	tiles := len(src) / 24
	for i := range tiles {
		in := src[i*24 : i*24+24]
		out := dst[i*32 : i*32+32]
		for g := range 8 {
			encodeGroup(out[g*4:g*4+4], in[g*3], in[g*3+1], in[g*3+2], enc)
		}
	}
	consumed := tiles * 24
	encodeScalar(dst[tiles*32:], src[consumed:], alphabet, padding)
}

// decodeFast decodes body in 32-symbol tiles (24 output bytes each) and
// returns the number of input bytes consumed, always a multiple of 32.
func decodeFast(dst, body []byte, alphabet *Alphabet) (int, error) {
	table := &alphabet.decode
	tiles := len(body) / 32
	for i := range tiles {
		in := body[i*32 : i*32+32]
		out := dst[i*24 : i*24+24]
		for g := range 8 {
			c0, c1, c2, c3 := in[g*4], in[g*4+1], in[g*4+2], in[g*4+3]
			v0, v1, v2, v3 := table[c0], table[c1], table[c2], table[c3]
			if (v0 | v1 | v2 | v3) > 63 {
				switch {
				case v0 == 0xFF:
					return 0, InvalidCharacterError{c0}
				case v1 == 0xFF:
					return 0, InvalidCharacterError{c1}
				case v2 == 0xFF:
					return 0, InvalidCharacterError{c2}
				default:
					return 0, InvalidCharacterError{c3}
				}
			}
			og := out[g*3 : g*3+3]
			og[0] = v0<<2 | v1>>4
			og[1] = v1<<4 | v2>>2
			og[2] = v2<<6 | v3
		}
	}
	return tiles * 32, nil
}
