// Package base64 implements RFC 4648 base64 encoding and decoding, with an
// architecture-gated fast path for bulk transfers.
package base64

import (
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned by Decode when the trailing '=' run is
// longer than two padding characters.
var ErrInvalidPadding = errors.New("base64: invalid padding")

// ErrInvalidLength is returned by Decode when padding is present on an input
// whose length isn't a multiple of 4, or when the unpadded input length
// doesn't correspond to a valid base64 encoding of any byte string.
var ErrInvalidLength = errors.New("base64: invalid input length")

// ErrOutputBufferTooSmall is returned by EncodeInto when dst is smaller
// than EncodedLen(len(src), padding).
var ErrOutputBufferTooSmall = errors.New("base64: output buffer too small")

// InvalidCharacterError is returned by Decode when a byte outside the
// target alphabet (and not '=') appears in the input.
type InvalidCharacterError struct {
	Char byte
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("base64: invalid character %q", rune(e.Char))
}

// Alphabet is a 64-character base64 alphabet together with its decode
// table. The zero value is not usable; use Standard, URLSafe, or
// NewAlphabet.
type Alphabet struct {
	encode [64]byte
	decode [256]byte
}

func newAlphabet(chars [64]byte) *Alphabet {
	a := &Alphabet{encode: chars}
	for i := range a.decode {
		a.decode[i] = 0xFF
	}
	for i, c := range chars {
		a.decode[c] = byte(i)
	}
	return a
}

// NewAlphabet builds a custom Alphabet from 64 distinct encoding characters.
func NewAlphabet(chars [64]byte) *Alphabet {
	return newAlphabet(chars)
}

var (
	// Standard is the RFC 4648 base64 alphabet (A-Z, a-z, 0-9, +, /).
	Standard = newAlphabet(asciiBytes("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"))

	// URLSafe is the RFC 4648 URL- and filename-safe base64 alphabet
	// (A-Z, a-z, 0-9, -, _).
	URLSafe = newAlphabet(asciiBytes("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"))
)

func asciiBytes(s string) (out [64]byte) {
	copy(out[:], s)
	return out
}

// EncodedLen returns the length of the base64 encoding of an input of n
// bytes, with or without padding.
func EncodedLen(n int, padding bool) int {
	if n == 0 {
		return 0
	}
	if padding {
		return ((n + 2) / 3) * 4
	}
	full := n / 3
	rem := n % 3
	if rem == 0 {
		return full * 4
	}
	return full*4 + rem + 1
}

// DecodedLen returns the maximum number of bytes decoding an input of n
// base64 characters (padding excluded) can produce.
func DecodedLen(n int) int {
	full := n / 4
	rem := n % 4
	tail := map[int]int{0: 0, 2: 1, 3: 2}[rem]
	return full*3 + tail
}

// Encode returns the base64 encoding of src using alphabet.
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
	encodeScalar(dst, src, alphabet, padding)
}

// encodeGroup encodes one 3-byte group into 4 output symbols.
func encodeGroup(dst []byte, b0, b1, b2 byte, enc *[64]byte) {
	dst[0] = enc[b0>>2]
	dst[1] = enc[((b0&0x03)<<4)|(b1>>4)]
	dst[2] = enc[((b1&0x0F)<<2)|(b2>>6)]
	dst[3] = enc[b2&0x3F]
}

// encodeScalar encodes four 3-byte groups per iteration (the chunks_4
// unrolled loop from original_source/base64/base64.rs's encode_to_slice),
// falling back to one group at a time for the remainder.
func encodeScalar(dst, src []byte, alphabet *Alphabet, padding bool) {
	enc := &alphabet.encode
	full := len(src) / 3
	rem := len(src) % 3

	out, in := 0, 0
	quads := full / 4
	for range quads {
		for g := range 4 {
			encodeGroup(dst[out+g*4:out+g*4+4], src[in+g*3], src[in+g*3+1], src[in+g*3+2], enc)
		}
		in += 12
		out += 16
	}

	for range full % 4 {
		encodeGroup(dst[out:out+4], src[in], src[in+1], src[in+2], enc)
		in += 3
		out += 4
	}

	switch rem {
	case 1:
		b0 := src[in]
		dst[out] = enc[b0>>2]
		dst[out+1] = enc[(b0&0x03)<<4]
		if padding {
			dst[out+2] = '='
			dst[out+3] = '='
		}
	case 2:
		b0, b1 := src[in], src[in+1]
		dst[out] = enc[b0>>2]
		dst[out+1] = enc[((b0&0x03)<<4)|(b1>>4)]
		dst[out+2] = enc[(b1&0x0F)<<2]
		if padding {
			dst[out+3] = '='
		}
	}
}

// Decode decodes a base64 string using alphabet.
func Decode(s string, alphabet *Alphabet) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return decode([]byte(s), alphabet)
}

func decode(input []byte, alphabet *Alphabet) ([]byte, error) {
	padLen := 0
	for padLen < len(input) && padLen < 4 && input[len(input)-1-padLen] == '=' {
		padLen++
	}
	if padLen > 2 {
		return nil, ErrInvalidPadding
	}
	if padLen > 0 && len(input)%4 != 0 {
		return nil, ErrInvalidLength
	}

	body := input[:len(input)-padLen]

	full := len(body) / 4
	rem := len(body) % 4
	if rem == 1 {
		return nil, ErrInvalidLength
	}
	tailLen := map[int]int{0: 0, 2: 1, 3: 2}[rem]

	out := make([]byte, full*3+tailLen)

	decoded := 0
	if fastPathEligible(alphabet) && len(body) >= fastDecodeThreshold {
		n, err := decodeFast(out, body, alphabet)
		if err != nil {
			return nil, err
		}
		decoded = n
	}

	if _, err := decodeScalar(out[decoded/4*3:], body[decoded:], alphabet); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeScalar(dst, body []byte, alphabet *Alphabet) (int, error) {
	table := &alphabet.decode
	full := len(body) / 4
	rem := len(body) % 4

	out, in := 0, 0
	for range full {
		c0, c1, c2, c3 := body[in], body[in+1], body[in+2], body[in+3]
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
		dst[out] = v0<<2 | v1>>4
		dst[out+1] = v1<<4 | v2>>2
		dst[out+2] = v2<<6 | v3
		in += 4
		out += 3
	}

	switch rem {
	case 2:
		c0, c1 := body[in], body[in+1]
		v0, v1 := table[c0], table[c1]
		if v0 == 0xFF {
			return 0, InvalidCharacterError{c0}
		}
		if v1 == 0xFF {
			return 0, InvalidCharacterError{c1}
		}
		dst[out] = v0<<2 | v1>>4
		out++
	case 3:
		c0, c1, c2 := body[in], body[in+1], body[in+2]
		v0, v1, v2 := table[c0], table[c1], table[c2]
		if v0 == 0xFF {
			return 0, InvalidCharacterError{c0}
		}
		if v1 == 0xFF {
			return 0, InvalidCharacterError{c1}
		}
		if v2 == 0xFF {
			return 0, InvalidCharacterError{c2}
		}
		dst[out] = v0<<2 | v1>>4
		dst[out+1] = v1<<4 | v2>>2
		out += 2
	}

	return in + rem, nil
}

// fastPathAvailable is set by base64_amd64.go's init (via cpuid) or
// base64_other.go's init (always false on other architectures).
var fastPathAvailable bool

func fastPathEligible(alphabet *Alphabet) bool {
	return fastPathAvailable && alphabet == Standard
}
