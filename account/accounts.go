// Package account holds the signing identities that drive the ledger.
package account

import (
	"github.com/bytom/escrow/crypto/ed25519"
	"github.com/bytom/escrow/crypto/sha3pool"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// Account is an ed25519 key pair with its payment credential.
type Account struct {
	Alias   string
	PubKey  ed25519.PublicKey
	KeyHash bc.KeyHash

	priv ed25519.PrivateKey
}

// NewAccount derives an account from a 32-byte seed.
func NewAccount(alias string, seed []byte) *Account {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Account{
		Alias:   alias,
		PubKey:  pub,
		KeyHash: bc.NewKeyHash(pub),
		priv:    priv,
	}
}

// DeriveAccount returns the account whose seed is the sha3 digest of
// namespace and alias. The same pair always yields the same keys.
func DeriveAccount(namespace, alias string) *Account {
	seed := make([]byte, ed25519.SeedSize)
	sha3pool.Sum256(seed, []byte(namespace+"/"+alias))
	return NewAccount(alias, seed)
}

// Address returns the key-locked address of the account.
func (a *Account) Address() bc.Address {
	return bc.NewKeyAddress(a.KeyHash)
}

// Sign adds the account's witness to tx.
func (a *Account) Sign(tx *types.Tx) {
	tx.Sign(a.priv)
}
