// Package token generates the opaque session codes presented as bearer
// credentials.
package token

import (
	"crypto/rand"
	"math/big"
)

const (
	// Prefix identifies Carbon-issued codes in logs and support tickets.
	Prefix = "COI-"

	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength = 64
)

// NewCode returns a fresh session code. Codes are drawn from crypto/rand;
// at 64 base-62 characters collisions are not a practical concern, and the
// sessions table primary key backstops them regardless.
func NewCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return Prefix + string(buf), nil
}
