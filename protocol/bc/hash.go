package bc

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/crypto"
)

// ErrBadHashLength is returned when decoding a hash of the wrong size.
var ErrBadHashLength = errors.New("bad hash length")

// Hash is a 32-byte transaction identifier.
type Hash [32]byte

// EmptyHash is the all-zero hash used as the origin marker of new orders.
var EmptyHash = Hash{}

// NewHash convert the input byte array to hash
func NewHash(b32 [32]byte) Hash {
	return Hash(b32)
}

// HashFromBytes copies b into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != len(h) {
		return h, errors.Wrapf(ErrBadHashLength, "got %d bytes", len(b))
	}

	copy(h[:], b)
	return h, nil
}

// Bytes convert hash to bytes
func (h Hash) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}

// String returns the hash in hexadecimal form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of h is zero.
func (h Hash) IsZero() bool {
	return h == EmptyHash
}

// Cmp orders hashes bytewise.
func (h Hash) Cmp(o Hash) int {
	return bytes.Compare(h[:], o[:])
}

// MarshalText satisfies the TextMarshaler interface.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText satisfies the TextUnmarshaler interface.
func (h *Hash) UnmarshalText(text []byte) error {
	if len(text) != 2*len(h) {
		return errors.Wrapf(ErrBadHashLength, "got %d hex characters", len(text))
	}

	_, err := hex.Decode(h[:], text)
	return err
}

// KeyHash is the 28-byte digest of an ed25519 public key.
type KeyHash [crypto.Hash28Size]byte

// NewKeyHash hashes a public key into its payment credential digest.
func NewKeyHash(pubKey []byte) KeyHash {
	return KeyHash(crypto.Blake2b224(pubKey))
}

// KeyHashFromBytes copies b into a KeyHash.
func KeyHashFromBytes(b []byte) (KeyHash, error) {
	var k KeyHash
	if len(b) != len(k) {
		return k, errors.Wrapf(ErrBadHashLength, "key hash has %d bytes", len(b))
	}

	copy(k[:], b)
	return k, nil
}

// Bytes returns a copy of the key hash.
func (k KeyHash) Bytes() []byte {
	return append([]byte(nil), k[:]...)
}

func (k KeyHash) String() string {
	return hex.EncodeToString(k[:])
}

// ScriptHash is the 28-byte digest identifying a validator script.
type ScriptHash [crypto.Hash28Size]byte

// NewScriptHash hashes the serialized script parts.
func NewScriptHash(parts ...[]byte) ScriptHash {
	return ScriptHash(crypto.Blake2b224(parts...))
}

// ScriptHashFromBytes copies b into a ScriptHash.
func ScriptHashFromBytes(b []byte) (ScriptHash, error) {
	var s ScriptHash
	if len(b) != len(s) {
		return s, errors.Wrapf(ErrBadHashLength, "script hash has %d bytes", len(b))
	}

	copy(s[:], b)
	return s, nil
}

// Bytes returns a copy of the script hash.
func (s ScriptHash) Bytes() []byte {
	return append([]byte(nil), s[:]...)
}

func (s ScriptHash) String() string {
	return hex.EncodeToString(s[:])
}

// IsZero reports whether s is the empty policy, which denotes ada.
func (s ScriptHash) IsZero() bool {
	return s == ScriptHash{}
}

// PolicyID identifies a minting policy. A policy id is the hash of the
// script that governs minting under it.
type PolicyID = ScriptHash
