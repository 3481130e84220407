package testutil

import (
	"golang.org/x/crypto/sha3"

	"github.com/bytom/escrow/crypto/ed25519"
)

// TestSeed derives a deterministic ed25519 seed from a label, so tests
// get stable keys for named parties.
func TestSeed(label string) []byte {
	seed := sha3.Sum256([]byte(label))
	return seed[:]
}

// TestPrivateKey returns the deterministic private key for label.
func TestPrivateKey(label string) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(TestSeed(label))
}
