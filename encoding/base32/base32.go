// Package base32 implements RFC 4648 base32 encoding and decoding, plus
// Crockford's alphabet, with an architecture-gated fast path for bulk
// transfers.
package base32

import (
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned by Decode when the trailing '=' run is
// longer than six padding characters.
var ErrInvalidPadding = errors.New("base32: invalid padding")

// ErrInvalidLength is returned by Decode when padding is present on an input
// whose length isn't a multiple of 8, or when the unpadded input length
// doesn't correspond to a valid base32 encoding of any byte string.
var ErrInvalidLength = errors.New("base32: invalid input length")

// ErrOutputBufferTooSmall is returned by EncodeInto when dst is smaller
// than EncodedLen(len(src), padding).
var ErrOutputBufferTooSmall = errors.New("base32: output buffer too small")

// InvalidCharacterError is returned by Decode when a byte outside the
// target alphabet (and not '=') appears in the input.
type InvalidCharacterError struct {
	Char byte
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("base32: invalid character %q", rune(e.Char))
}

// Alphabet is a 32-character base32 alphabet together with its decode
// table. The zero value is not usable; use Standard, Hex, Crockford, or
// NewAlphabet.
type Alphabet struct {
	encode [32]byte
	decode [256]byte
}

func newAlphabet(chars [32]byte) *Alphabet {
	a := &Alphabet{encode: chars}
	for i := range a.decode {
		a.decode[i] = 0xFF
	}
	for i, c := range chars {
		a.decode[c] = byte(i)
		if c >= 'A' && c <= 'Z' {
			a.decode[c+32] = byte(i)
		}
	}
	return a
}

// NewAlphabet builds a custom Alphabet from 32 distinct encoding
// characters. Decoding accepts lowercase a-z wherever chars contains the
// corresponding uppercase letter.
func NewAlphabet(chars [32]byte) *Alphabet {
	return newAlphabet(chars)
}

var (
	// Standard is the RFC 4648 base32 alphabet (A-Z, 2-7).
	Standard = newAlphabet([32]byte{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', '2', '3', '4', '5', '6', '7'})

	// Hex is the RFC 4648 extended hex base32 alphabet (0-9, A-V).
	Hex = newAlphabet([32]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V'})

	// Crockford is Crockford's base32 alphabet: digits then letters,
	// excluding I, L, O, and U to avoid confusion with 1, 1, 0, and V.
	Crockford = newAlphabet([32]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'J', 'K', 'M', 'N', 'P', 'Q', 'R', 'S', 'T', 'V', 'W', 'X', 'Y', 'Z'})
)

// EncodedLen returns the length of the base32 encoding of an input of n
// bytes, with or without padding.
func EncodedLen(n int, padding bool) int {
	if n == 0 {
		return 0
	}
	if padding {
		return ((n + 4) / 5) * 8
	}
	full := n / 5
	rem := n % 5
	tail := [5]int{0, 2, 4, 5, 7}[rem]
	return full*8 + tail
}

// DecodedLen returns the maximum number of bytes decoding an input of n
// base32 characters (padding excluded) can produce.
func DecodedLen(n int) int {
	full := n / 8
	rem := n % 8
	tail := map[int]int{0: 0, 2: 1, 4: 2, 5: 3, 7: 4}[rem]
	return full*5 + tail
}

// Encode returns the base32 encoding of src using alphabet.
func Encode(src []byte, alphabet *Alphabet, padding bool) string {
	if len(src) == 0 {
		return ""
	}
	dst := make([]byte, EncodedLen(len(src), padding))
	encodeInto(dst, src, alphabet, padding)
	return string(dst)
}

// EncodeInto encodes src into dst using alphabet, returning
// ErrOutputBufferTooSmall if dst is too small. dst and src must not overlap.
func EncodeInto(dst, src []byte, alphabet *Alphabet, padding bool) error {
	if len(dst) < EncodedLen(len(src), padding) {
		return ErrOutputBufferTooSmall
	}
	encodeInto(dst, src, alphabet, padding)
	return nil
}

func encodeInto(dst, src []byte, alphabet *Alphabet, padding bool) {
	if len(src) == 0 {
		return
	}
	if fastPathEligible(alphabet) && len(src) >= fastEncodeThreshold {
		encodeFast(dst, src, alphabet, padding)
		return
	}
	encodeScalarWord(dst, src, alphabet, padding)
}

// encodeScalarWord encodes data five input bytes at a time by packing them
// into a 40-bit word and slicing off 5-bit groups, the composition
// original_source/base32/src/lib.rs's encode_with uses.
func encodeScalarWord(dst, src []byte, alphabet *Alphabet, padding bool) {
	enc := &alphabet.encode
	full := len(src) / 5
	rem := len(src) % 5

	out, in := 0, 0
	for range full {
		n := uint64(src[in])<<32 | uint64(src[in+1])<<24 | uint64(src[in+2])<<16 | uint64(src[in+3])<<8 | uint64(src[in+4])
		dst[out] = enc[(n>>35)&0x1F]
		dst[out+1] = enc[(n>>30)&0x1F]
		dst[out+2] = enc[(n>>25)&0x1F]
		dst[out+3] = enc[(n>>20)&0x1F]
		dst[out+4] = enc[(n>>15)&0x1F]
		dst[out+5] = enc[(n>>10)&0x1F]
		dst[out+6] = enc[(n>>5)&0x1F]
		dst[out+7] = enc[n&0x1F]
		in += 5
		out += 8
	}

	if rem == 0 {
		return
	}

	var n uint64
	for i, b := range src[in:] {
		n |= uint64(b) << (32 - i*8)
	}
	chars := [5]int{0, 2, 4, 5, 7}[rem]
	shifts := [8]uint{35, 30, 25, 20, 15, 10, 5, 0}
	for i := range chars {
		dst[out+i] = enc[(n>>shifts[i])&0x1F]
	}
	if padding {
		for i := chars; i < 8; i++ {
			dst[out+i] = '='
		}
	}
}

// encodeBlock encodes exactly one 5-byte group into 8 output symbols,
// byte-at-a-time rather than via a 40-bit word; this is the form the
// architecture-gated tiled path in base32_amd64.go builds on, matching
// original_source/base32/base32.rs's encode_into_unchecked.
func encodeBlock(dst []byte, src []byte, enc *[32]byte) {
	b0, b1, b2, b3, b4 := src[0], src[1], src[2], src[3], src[4]
	dst[0] = enc[b0>>3]
	dst[1] = enc[((b0&0x07)<<2)|(b1>>6)]
	dst[2] = enc[(b1>>1)&0x1F]
	dst[3] = enc[((b1&0x01)<<4)|(b2>>4)]
	dst[4] = enc[((b2&0x0F)<<1)|(b3>>7)]
	dst[5] = enc[(b3>>2)&0x1F]
	dst[6] = enc[((b3&0x03)<<3)|(b4>>5)]
	dst[7] = enc[b4&0x1F]
}

// Decode decodes a base32 string using alphabet.
func Decode(s string, alphabet *Alphabet) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return decode([]byte(s), alphabet)
}

func decode(input []byte, alphabet *Alphabet) ([]byte, error) {
	padLen := 0
	for padLen < len(input) && padLen < 8 && input[len(input)-1-padLen] == '=' {
		padLen++
	}
	if padLen > 6 {
		return nil, ErrInvalidPadding
	}
	if padLen > 0 && len(input)%8 != 0 {
		return nil, ErrInvalidLength
	}

	body := input[:len(input)-padLen]

	full := len(body) / 8
	rem := len(body) % 8
	tailLen, ok := map[int]int{0: 0, 2: 1, 4: 2, 5: 3, 7: 4}[rem]
	if !ok {
		return nil, ErrInvalidLength
	}

	out := make([]byte, full*5+tailLen)

	decoded := 0
	if fastPathEligible(alphabet) && len(body) >= fastDecodeThreshold {
		n, err := decodeFast(out, body, alphabet)
		if err != nil {
			return nil, err
		}
		decoded = n
	}

	if _, err := decodeScalar(out[decoded/8*5:], body[decoded:], alphabet); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeScalar decodes body (whose length is a multiple of 8, plus an
// optional final partial group) into dst, eight input characters at a time.
func decodeScalar(dst, body []byte, alphabet *Alphabet) (int, error) {
	table := &alphabet.decode
	full := len(body) / 8
	rem := len(body) % 8

	out, in := 0, 0
	for range full {
		var v [8]byte
		for i := range v {
			v[i] = table[body[in+i]]
		}
		if (v[0] | v[1] | v[2] | v[3] | v[4] | v[5] | v[6] | v[7]) > 31 {
			for i := range 8 {
				if table[body[in+i]] == 0xFF {
					return 0, InvalidCharacterError{body[in+i]}
				}
			}
		}
		dst[out] = v[0]<<3 | v[1]>>2
		dst[out+1] = v[1]<<6 | v[2]<<1 | v[3]>>4
		dst[out+2] = v[3]<<4 | v[4]>>1
		dst[out+3] = v[4]<<7 | v[5]<<2 | v[6]>>3
		dst[out+4] = v[6]<<5 | v[7]
		in += 8
		out += 5
	}

	if rem == 0 {
		return out, nil
	}

	var v [8]byte
	for i := range rem {
		c := body[in+i]
		d := table[c]
		if d == 0xFF {
			return 0, InvalidCharacterError{c}
		}
		v[i] = d
	}

	switch rem {
	case 2:
		dst[out] = v[0]<<3 | v[1]>>2
	case 4:
		dst[out] = v[0]<<3 | v[1]>>2
		dst[out+1] = v[1]<<6 | v[2]<<1 | v[3]>>4
	case 5:
		dst[out] = v[0]<<3 | v[1]>>2
		dst[out+1] = v[1]<<6 | v[2]<<1 | v[3]>>4
		dst[out+2] = v[3]<<4 | v[4]>>1
	case 7:
		dst[out] = v[0]<<3 | v[1]>>2
		dst[out+1] = v[1]<<6 | v[2]<<1 | v[3]>>4
		dst[out+2] = v[3]<<4 | v[4]>>1
		dst[out+3] = v[4]<<7 | v[5]<<2 | v[6]>>3
	}
	return out + tailOutputLen[rem], nil
}

var tailOutputLen = map[int]int{0: 0, 2: 1, 4: 2, 5: 3, 7: 4}

// fastPathAvailable is set by base32_amd64.go's init (via cpuid) or
// base32_other.go's init (always false on other architectures).
var fastPathAvailable bool

func fastPathEligible(alphabet *Alphabet) bool {
	return fastPathAvailable && (alphabet == Standard || alphabet == Hex)
}
