// Package chacha implements the ChaCha family of stream ciphers in their
// original (DJB) form: a 64-bit block counter and a 64-bit nonce, not the
// IETF RFC 8439 variant's 32-bit counter and 96-bit nonce.
package chacha

import (
	"encoding/binary"
	"math/bits"

	"github.com/veridian-labs/turbocore/internal/mem"
)

const (
	// KeySize is the size, in bytes, of a ChaCha key.
	KeySize = 32

	// NonceSize is the size, in bytes, of a ChaCha nonce.
	NonceSize = 8

	blockSize   = 64
	stateWords  = 16
	batchBlocks = 4
	batchSize   = batchBlocks * blockSize
)

var constants = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// Cipher is an instance of the ChaCha stream cipher, parameterized by round
// count and keyed with a fixed key and nonce. The zero value is not usable;
// construct one with New, NewChaCha8, NewChaCha12, or NewChaCha20.
type Cipher struct {
	rounds  int
	init    [stateWords]uint32 // constants, key, counter placeholder, nonce
	counter uint64             // counter of the next block to be generated
	cache   [batchSize]byte    // up to batchBlocks freshly generated blocks
	off     int                // bytes of cache already consumed
}

// New returns a Cipher using the given round count, key, and nonce. rounds
// must be 8, 12, or 20.
func New(rounds int, key *[KeySize]byte, nonce *[NonceSize]byte) *Cipher {
	if rounds != 8 && rounds != 12 && rounds != 20 {
		panic("chacha: rounds must be 8, 12, or 20")
	}

	c := &Cipher{rounds: rounds, off: batchSize}
	copy(c.init[0:4], constants[:])
	for i := range 8 {
		c.init[4+i] = binary.LittleEndian.Uint32(key[i*4 : i*4+4])
	}
	c.init[14] = binary.LittleEndian.Uint32(nonce[0:4])
	c.init[15] = binary.LittleEndian.Uint32(nonce[4:8])
	return c
}

// NewChaCha8 returns an 8-round Cipher.
func NewChaCha8(key *[KeySize]byte, nonce *[NonceSize]byte) *Cipher {
	return New(8, key, nonce)
}

// NewChaCha12 returns a 12-round Cipher.
func NewChaCha12(key *[KeySize]byte, nonce *[NonceSize]byte) *Cipher {
	return New(12, key, nonce)
}

// NewChaCha20 returns a 20-round Cipher.
func NewChaCha20(key *[KeySize]byte, nonce *[NonceSize]byte) *Cipher {
	return New(20, key, nonce)
}

// Seek sets the block counter of the next keystream byte to be produced and
// discards any cached keystream, so the next XORKeyStream call starts with a
// freshly generated block at the given counter.
func (c *Cipher) Seek(counter uint64) {
	c.counter = counter
	c.off = batchSize
}

// XORKeyStream XORs each byte in src with a byte from the keystream and
// writes the result to dst. dst and src may overlap exactly. Calling
// XORKeyStream with n bytes and then m bytes produces the same keystream
// bytes as a single call with n+m bytes.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("chacha: output smaller than input")
	}
	dst = dst[:len(src)]

	for len(src) > 0 {
		if c.off == batchSize {
			c.refill()
		}

		n := min(batchSize-c.off, len(src))
		copy(dst[:n], src[:n])
		mem.XORInPlace(dst[:n], c.cache[c.off:c.off+n])
		c.off += n
		dst = dst[n:]
		src = src[n:]
	}
}

// refill generates the next batchBlocks keystream blocks (counters c.counter
// through c.counter+batchBlocks-1) into c.cache and advances the counter.
func (c *Cipher) refill() {
	generateBlocks4(c.rounds, &c.init, c.counter, &c.cache)
	c.counter += batchBlocks
	c.off = 0
}

// block computes a single 64-byte ChaCha keystream block for the given
// counter value, leaving init unmodified.
func block(rounds int, init *[stateWords]uint32, counter uint64) [blockSize]byte {
	working := *init
	working[12] = uint32(counter)
	working[13] = uint32(counter >> 32)

	for range rounds / 2 {
		quarterRound(&working, 0, 4, 8, 12)
		quarterRound(&working, 1, 5, 9, 13)
		quarterRound(&working, 2, 6, 10, 14)
		quarterRound(&working, 3, 7, 11, 15)

		quarterRound(&working, 0, 5, 10, 15)
		quarterRound(&working, 1, 6, 11, 12)
		quarterRound(&working, 2, 7, 8, 13)
		quarterRound(&working, 3, 4, 9, 14)
	}

	var out [blockSize]byte
	for i := range stateWords {
		v := working[i]
		if i == 12 {
			v += uint32(counter)
		} else if i == 13 {
			v += uint32(counter >> 32)
		} else {
			v += init[i]
		}
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

func quarterRound(s *[stateWords]uint32, a, b, c, d int) {
	s[a] += s[b]
	s[d] ^= s[a]
	s[d] = bits.RotateLeft32(s[d], 16)

	s[c] += s[d]
	s[b] ^= s[c]
	s[b] = bits.RotateLeft32(s[b], 12)

	s[a] += s[b]
	s[d] ^= s[a]
	s[d] = bits.RotateLeft32(s[d], 8)

	s[c] += s[d]
	s[b] ^= s[c]
	s[b] = bits.RotateLeft32(s[b], 7)
}
