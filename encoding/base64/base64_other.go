//go:build !amd64

package base64

const (
	fastEncodeThreshold = 28
	fastDecodeThreshold = 45
)

func init() {
	fastPathAvailable = false
}

func encodeFast(dst, src []byte, alphabet *Alphabet, padding bool) {
	encodeScalar(dst, src, alphabet, padding)
}

func decodeFast(dst, body []byte, alphabet *Alphabet) (int, error) {
	return decodeScalar(dst, body, alphabet)
}
