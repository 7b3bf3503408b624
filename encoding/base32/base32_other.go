//go:build !amd64

package base32

const (
	fastEncodeThreshold = 20
	fastDecodeThreshold = 32
)

func init() {
	fastPathAvailable = false
}

func encodeFast(dst, src []byte, alphabet *Alphabet, padding bool) {
	encodeScalarWord(dst, src, alphabet, padding)
}

func decodeFast(dst, body []byte, alphabet *Alphabet) (int, error) {
	n := len(body) / 32 * 32
	if _, err := decodeScalar(dst, body[:n], alphabet); err != nil {
		return 0, err
	}
	return n, nil
}
