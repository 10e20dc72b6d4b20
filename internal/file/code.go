package file

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the fixed length of every short code.
const CodeLength = 8

// codeAlphabet is case-sensitive alphanumeric. Codes end up inside deep
// links and button payloads, so the alphabet stays URL-safe and free of
// payload field separators.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewCode draws a fresh 8-character code. Each character is sampled
// independently from crypto/rand, so codes are not enumerable and carry no
// sequential relationship to earlier ones.
func NewCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
