// Package turboshake implements TurboSHAKE128 and TurboSHAKE256 as specified
// in RFC 9861.
//
// Both are eXtendable-Output Functions (XOFs) based on the Keccak-p[1600,12]
// permutation, differing only in capacity: TurboSHAKE128 has a 168-byte rate
// (128-bit security), TurboSHAKE256 a 136-byte rate (256-bit security).
package turboshake

import (
	"github.com/veridian-labs/turbocore/hazmat/keccak"
	"github.com/veridian-labs/turbocore/internal/mem"
)

const (
	// Rate128 is the TurboSHAKE128 rate in bytes (200 - 2*16).
	Rate128 = 168

	// Rate256 is the TurboSHAKE256 rate in bytes (200 - 2*32).
	Rate256 = 136
)

// Hasher is an incremental TurboSHAKE instance that implements io.ReadWriter.
// Writes absorb data into the sponge and reads squeeze output from it.
// Once Read is called, no further writes are permitted.
type Hasher struct {
	s         [200]byte
	pos       int
	rate      int
	ds        byte
	squeezing bool
}

// New128 returns a new TurboSHAKE128 Hasher with the given domain separation byte.
// ds must be in the range [0x01, 0x7F].
func New128(ds byte) Hasher {
	return newHasher(Rate128, ds)
}

// New256 returns a new TurboSHAKE256 Hasher with the given domain separation byte.
// ds must be in the range [0x01, 0x7F].
func New256(ds byte) Hasher {
	return newHasher(Rate256, ds)
}

func newHasher(rate int, ds byte) (h Hasher) {
	h.rate = rate
	h.ds = ds
	return h
}

// Rate returns the sponge rate, in bytes, of this Hasher.
func (h *Hasher) Rate() int {
	return h.rate
}

// Reset zeros the hasher and reinitializes it with the given domain
// separation byte, preserving its rate.
func (h *Hasher) Reset(ds byte) {
	clear(h.s[:])
	h.pos = 0
	h.ds = ds
	h.squeezing = false
}

// Write absorbs p into the sponge state. It must not be called after Read.
func (h *Hasher) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		w := min(h.rate-h.pos, len(p))
		mem.XORInPlace(h.s[h.pos:h.pos+w], p[:w])
		h.pos += w
		p = p[w:]
		if h.pos == h.rate {
			keccak.P1600(&h.s)
			h.pos = 0
		}
	}
	return n, nil
}

// Read squeezes output from the sponge state into p. On the first call,
// it finalizes absorption by applying padding and permuting. Subsequent
// calls continue squeezing.
func (h *Hasher) Read(p []byte) (int, error) {
	if !h.squeezing {
		h.s[h.pos] ^= h.ds
		h.s[h.rate-1] ^= 0x80
		keccak.P1600(&h.s)
		h.pos = 0
		h.squeezing = true
	}
	n := len(p)
	for len(p) > 0 {
		if h.pos == h.rate {
			keccak.P1600(&h.s)
			h.pos = 0
		}
		r := copy(p, h.s[h.pos:h.rate])
		h.pos += r
		p = p[r:]
	}
	return n, nil
}

// Sum128 computes TurboSHAKE128(msg, ds, outLen) and returns the result.
// The domain separation byte ds must be in the range [0x01, 0x7F].
func Sum128(msg []byte, ds byte, outLen int) []byte {
	return sum(Rate128, msg, ds, outLen)
}

// Sum256 computes TurboSHAKE256(msg, ds, outLen) and returns the result.
// The domain separation byte ds must be in the range [0x01, 0x7F].
func Sum256(msg []byte, ds byte, outLen int) []byte {
	return sum(Rate256, msg, ds, outLen)
}

func sum(rate int, msg []byte, ds byte, outLen int) []byte {
	h := newHasher(rate, ds)
	_, _ = h.Write(msg)
	out := make([]byte, outLen)
	_, _ = h.Read(out)
	return out
}

// Chain clones a into b, updates b with the given domain separation byte, and finalizes both in parallel. After Chain
// returns, both a and b are in squeezing mode and ready for Read. a and b must share the same rate.
func Chain(a, b *Hasher, ds byte) {
	if a.squeezing {
		panic("turboshake: parallel finalization with finalized state")
	}

	*b = *a
	a.s[a.pos] ^= a.ds
	a.s[a.rate-1] ^= 0x80
	b.s[b.pos] ^= ds
	b.s[b.rate-1] ^= 0x80
	keccak.P1600x2(&a.s, &b.s)
	a.pos, b.pos = 0, 0
	a.squeezing, b.squeezing = true, true
}
