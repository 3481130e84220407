// Package ed25519 wraps the standard ed25519 implementation with a
// verification cache shared by the ledger's witness checks.
package ed25519

import (
	"crypto/ed25519"
	"io"
)

const (
	// PublicKeySize is the size, in bytes, of public keys.
	PublicKeySize = ed25519.PublicKeySize
	// PrivateKeySize is the size, in bytes, of private keys.
	PrivateKeySize = ed25519.PrivateKeySize
	// SignatureSize is the size, in bytes, of signatures.
	SignatureSize = ed25519.SignatureSize
	// SeedSize is the size, in bytes, of private key seeds.
	SeedSize = ed25519.SeedSize
)

type (
	// PublicKey is an ed25519 public key.
	PublicKey = ed25519.PublicKey
	// PrivateKey is an ed25519 private key.
	PrivateKey = ed25519.PrivateKey
)

// GenerateKey generates a public/private key pair using entropy from rand.
func GenerateKey(rand io.Reader) (PublicKey, PrivateKey, error) {
	return ed25519.GenerateKey(rand)
}

// NewKeyFromSeed calculates a private key from a seed.
func NewKeyFromSeed(seed []byte) PrivateKey {
	return ed25519.NewKeyFromSeed(seed)
}

// Sign signs the message with privateKey and returns a signature.
func Sign(privateKey PrivateKey, message []byte) []byte {
	return ed25519.Sign(privateKey, message)
}

// Verify reports whether sig is a valid signature of message by publicKey.
// Positive results are remembered once InitCache has been called.
func Verify(publicKey PublicKey, message, sig []byte) bool {
	if len(publicKey) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}

	if checkVerifyCache(publicKey, message, sig) {
		return true
	}

	if !ed25519.Verify(publicKey, message, sig) {
		return false
	}

	saveVerifyCache(publicKey, message, sig)
	return true
}
