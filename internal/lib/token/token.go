// Package token generates opaque session tokens. Tokens are random bytes,
// hex encoded, and carry no embedded claims: validity is decided solely by
// looking the token up in the sessions store.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Bytes is the entropy of a session token before encoding.
const Bytes = 32

// New returns a new random token of 2*Bytes hex characters.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, Bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
