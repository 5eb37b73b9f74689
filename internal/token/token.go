// Package token generates cancellation tokens. A token is the sole credential
// for customer self-service cancellation, so it comes from crypto/rand.
package token

import (
	"crypto/rand"
	"math/big"
)

const Length = 32

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns a Length-character string with each character drawn
// uniformly from [A-Za-z0-9]. No uniqueness check is made; collision
// avoidance is probabilistic over the 62^32 space.
func Generate() (string, error) {
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
