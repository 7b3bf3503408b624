package mem

// XORInPlace sets dst[i] ^= src[i] for each i.
//
// A vectorized build would dispatch this per architecture; this is the
// portable implementation every architecture falls back to here (see
// DESIGN.md).
func XORInPlace(dst, src []byte) {
	for i, s := range src[:len(dst)] {
		dst[i] ^= s
	}
}
