// Package crypto holds the digests used to name credentials, scripts and policies.
package crypto

import (
	"golang.org/x/crypto/blake2b"
)

// Hash28Size is the length of a credential, script or policy digest.
const Hash28Size = 28

// Blake2b224 returns the 28-byte BLAKE2b digest of data.
func Blake2b224(data ...[]byte) [Hash28Size]byte {
	h, err := blake2b.New(Hash28Size, nil)
	if err != nil {
		// only fails for an out-of-range size or an oversized key
		panic(err)
	}

	for _, d := range data {
		h.Write(d)
	}

	var out [Hash28Size]byte
	copy(out[:], h.Sum(nil))
	return out
}
