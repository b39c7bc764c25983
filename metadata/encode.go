package metadata

import "encoding/base64"

// EncodeBase64 encodes raw bytes with the standard padded base64 alphabet.
// Empty input encodes to the empty string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 reverses EncodeBase64
func DecodeBase64(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
