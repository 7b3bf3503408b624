// Package duplex implements an AEAD construction directly on top of the
// Keccak-p[1600,12] permutation, using the sponge in duplex mode rather than
// the usual absorb-everything-then-squeeze pattern: associated data and
// message bytes are absorbed and keystream bytes are squeezed out in the
// same per-block permutation, so encryption and authentication happen in one
// pass over the input.
package duplex

import (
	"crypto/subtle"
	"errors"

	"github.com/veridian-labs/turbocore/hazmat/keccak"
)

const (
	// KeySize is the required key size, in bytes.
	KeySize = 32

	// NonceSize is the required nonce size, in bytes.
	NonceSize = 16

	// TagSize is the size of the authentication tag appended to ciphertext,
	// in bytes.
	TagSize = 32

	rate = 136 // TurboSHAKE256's rate

	domainSepAD  = 0x01
	domainSepMsg = 0x02
)

// ErrInvalidKeySize is returned by New when key is not KeySize bytes.
var ErrInvalidKeySize = errors.New("duplex: invalid key size")

// ErrInvalidNonceSize is returned by New when nonce is not NonceSize bytes.
var ErrInvalidNonceSize = errors.New("duplex: invalid nonce size")

// ErrAuthenticationFailed is returned by Open when the ciphertext's
// authentication tag does not match.
var ErrAuthenticationFailed = errors.New("duplex: authentication failed")

// AEAD is a single-use authenticated cipher instance bound to a key and
// nonce. Each AEAD value is good for exactly one Seal or one Open call: the
// duplex state is mutated as data is absorbed, so reusing a value for a
// second operation would authenticate against the wrong transcript. Callers
// needing to encrypt multiple messages under the same key should call New
// again with a fresh nonce.
type AEAD struct {
	state [200]byte
}

// New returns an AEAD keyed and bound to nonce, which must be unique for
// every Seal call made under the same key.
func New(key, nonce []byte) (*AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonceSize
	}

	a := &AEAD{}
	a.absorbBlock(key)
	keccak.P1600(&a.state)
	a.absorbBlock(nonce)
	keccak.P1600(&a.state)
	return a, nil
}

func (a *AEAD) absorbBlock(data []byte) {
	n := min(len(data), rate)
	for i := range n {
		a.state[i] ^= data[i]
	}
}

func (a *AEAD) squeezeBlock(out []byte) {
	n := min(len(out), rate)
	copy(out[:n], a.state[:n])
}

// absorbAD processes the associated data phase: one absorb+permute per
// rate-sized block, followed by a domain-separated permutation marking the
// end of the AD phase. Skipped entirely when ad is empty, so Seal/Open with
// no AD costs no extra permutation over the bare message phase.
func (a *AEAD) absorbAD(ad []byte) {
	if len(ad) == 0 {
		return
	}
	for len(ad) > rate {
		a.absorbBlock(ad[:rate])
		keccak.P1600(&a.state)
		ad = ad[rate:]
	}
	a.absorbBlock(ad)
	keccak.P1600(&a.state)

	a.state[0] ^= domainSepAD
	keccak.P1600(&a.state)
}

// Seal encrypts and authenticates plaintext, authenticates ad, and appends
// the result (ciphertext followed by a TagSize-byte tag) to dst, returning
// the updated slice. a must not be reused after calling Seal.
func (a *AEAD) Seal(dst, plaintext, ad []byte) []byte {
	a.absorbAD(ad)
	a.state[0] ^= domainSepMsg
	keccak.P1600(&a.state)

	out := dst
	var keystream [rate]byte
	for len(plaintext) > 0 {
		n := min(rate, len(plaintext))
		a.squeezeBlock(keystream[:n])

		start := len(out)
		out = append(out, plaintext[:n]...)
		for i := range n {
			out[start+i] ^= keystream[i]
		}

		a.absorbBlock(out[start : start+n])
		keccak.P1600(&a.state)
		plaintext = plaintext[n:]
	}

	var tag [TagSize]byte
	a.squeezeBlock(tag[:])
	return append(out, tag[:]...)
}

// Open decrypts and authenticates ciphertext (which must include its
// trailing TagSize-byte tag), authenticates ad, and, if successful, appends
// the resulting plaintext to dst, returning the updated slice. On
// authentication failure it returns a nil slice and ErrAuthenticationFailed,
// leaving dst unmodified; no plaintext is ever produced or returned in that
// case. a must
// not be reused after calling Open.
func (a *AEAD) Open(dst, ciphertext, ad []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, ErrAuthenticationFailed
	}
	ctLen := len(ciphertext) - TagSize
	ct, receivedTag := ciphertext[:ctLen], ciphertext[ctLen:]

	a.absorbAD(ad)
	a.state[0] ^= domainSepMsg
	keccak.P1600(&a.state)

	// Pass 1: verify the tag against a cloned state, absorbing only the
	// ciphertext bytes. No keystream is derived and no plaintext exists yet,
	// so a forged ciphertext can't cause any plaintext to be computed.
	verify := a.state
	remaining := ct
	for len(remaining) > 0 {
		n := min(rate, len(remaining))
		for i := range n {
			verify[i] ^= remaining[i]
		}
		keccak.P1600(&verify)
		remaining = remaining[n:]
	}

	if subtle.ConstantTimeCompare(verify[:TagSize], receivedTag) != 1 {
		return nil, ErrAuthenticationFailed
	}

	// Pass 2: the tag matched, so it's safe to derive keystream from the
	// original (unmodified) state and decrypt.
	out := dst
	var keystream [rate]byte
	remaining = ct
	for len(remaining) > 0 {
		n := min(rate, len(remaining))
		a.squeezeBlock(keystream[:n])
		a.absorbBlock(remaining[:n])
		keccak.P1600(&a.state)

		start := len(out)
		out = append(out, remaining[:n]...)
		for i := range n {
			out[start+i] ^= keystream[i]
		}
		remaining = remaining[n:]
	}

	return out, nil
}
