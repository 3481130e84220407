package contract

import (
	"github.com/bytom/escrow/protocol/bc"
)

// DefaultTokenName is the asset name of the validity token.
const DefaultTokenName = "val"

const scriptVersion = "escrow-order-v1"

// Script identifies one deployment of the order validator. Its hash is
// both the order address and the policy id of the validity token.
type Script struct {
	hash      bc.ScriptHash
	tokenName string
}

// NewScript returns the order script parameterised by the validity token name.
func NewScript(tokenName string) *Script {
	if tokenName == "" {
		tokenName = DefaultTokenName
	}

	return &Script{
		hash:      bc.NewScriptHash([]byte(scriptVersion), []byte(tokenName)),
		tokenName: tokenName,
	}
}

// Hash returns the script hash.
func (s *Script) Hash() bc.ScriptHash {
	return s.hash
}

// Address returns the address order outputs are locked at.
func (s *Script) Address() bc.Address {
	return bc.NewScriptAddress(s.hash)
}

// ValidityToken returns the asset that authenticates order outputs.
func (s *Script) ValidityToken() bc.AssetID {
	return bc.AssetID{PolicyID: s.hash, Name: s.tokenName}
}

// IsOrderAddress reports whether address is the order address.
func (s *Script) IsOrderAddress(address bc.Address) bool {
	return address == s.Address()
}
