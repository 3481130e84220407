package bc

import (
	"fmt"
)

// CredentialType distinguishes key-locked from script-locked addresses.
type CredentialType uint8

const (
	// KeyCredential locks an output to the holder of a private key.
	KeyCredential CredentialType = iota
	// ScriptCredential locks an output to a validator script.
	ScriptCredential
)

// Credential is the payment part of an address.
type Credential struct {
	Type CredentialType
	Hash [28]byte
}

// Address is a payment address.
type Address struct {
	Payment Credential
}

// NewKeyAddress returns the address locked by the given key hash.
func NewKeyAddress(keyHash KeyHash) Address {
	return Address{Payment: Credential{Type: KeyCredential, Hash: keyHash}}
}

// NewScriptAddress returns the address locked by the given script.
func NewScriptAddress(scriptHash ScriptHash) Address {
	return Address{Payment: Credential{Type: ScriptCredential, Hash: scriptHash}}
}

// IsScript reports whether the address is locked by a script.
func (a Address) IsScript() bool {
	return a.Payment.Type == ScriptCredential
}

// KeyHash returns the key hash of a key-locked address.
func (a Address) KeyHash() (KeyHash, bool) {
	if a.IsScript() {
		return KeyHash{}, false
	}
	return KeyHash(a.Payment.Hash), true
}

// ScriptHash returns the script hash of a script-locked address.
func (a Address) ScriptHash() (ScriptHash, bool) {
	if !a.IsScript() {
		return ScriptHash{}, false
	}
	return ScriptHash(a.Payment.Hash), true
}

func (a Address) String() string {
	if a.IsScript() {
		return fmt.Sprintf("script1%x", a.Payment.Hash[:])
	}
	return fmt.Sprintf("addr1%x", a.Payment.Hash[:])
}
