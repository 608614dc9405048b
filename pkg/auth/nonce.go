package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// nonceBytes gives 256 bits of randomness per challenge. Collisions across
// issued nonces would be a correctness bug, not an inconvenience.
const nonceBytes = 32

// challengePrefix is the human-readable part of the signed message. The nonce
// is appended after it; hex encoding keeps the nonce free of characters that
// could collide with message parsing.
const challengePrefix = "Sign this message to login.\n\nNonce: "

// NewNonce generates a fresh single-use challenge value.
func NewNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ChallengeMessage renders the message a wallet is asked to sign for the
// given nonce.
func ChallengeMessage(nonce string) string {
	return challengePrefix + nonce
}
