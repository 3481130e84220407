package types

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/crypto/ed25519"
	"github.com/bytom/escrow/crypto/sha3pool"
	"github.com/bytom/escrow/protocol/bc"
)

// Mint is the signed quantity minted (positive) or burned (negative) per asset.
type Mint map[bc.AssetID]int64

// Policies lists the distinct policies touched by the mint field.
func (m Mint) Policies() []bc.PolicyID {
	seen := map[bc.PolicyID]bool{}
	policies := []bc.PolicyID{}
	for asset, q := range m {
		if q == 0 || seen[asset.PolicyID] {
			continue
		}

		seen[asset.PolicyID] = true
		policies = append(policies, asset.PolicyID)
	}

	sort.Slice(policies, func(i, j int) bool {
		return bc.AssetID{PolicyID: policies[i]}.Less(bc.AssetID{PolicyID: policies[j]})
	})
	return policies
}

// Witness is a signature over the transaction id.
type Witness struct {
	PubKey    ed25519.PublicKey
	Signature []byte
}

// TxData is the body of a transaction.
type TxData struct {
	Inputs          []*TxInput
	Outputs         []*TxOutput
	Mint            Mint
	RequiredSigners []bc.KeyHash
}

// Tx is a transaction body with its id and witnesses.
type Tx struct {
	TxData
	ID        bc.Hash
	Witnesses []*Witness
}

// NewTx sorts the inputs into canonical out-ref order and computes the id.
func NewTx(data TxData) (*Tx, error) {
	inputs := append([]*TxInput(nil), data.Inputs...)
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].OutRef.Less(inputs[j].OutRef) })
	data.Inputs = inputs

	id, err := data.Hash()
	if err != nil {
		return nil, err
	}

	return &Tx{TxData: data, ID: id}, nil
}

// Hash computes the SHA3-256 id of the canonical body encoding.
func (d *TxData) Hash() (bc.Hash, error) {
	body, err := d.MarshalCBOR()
	if err != nil {
		return bc.Hash{}, errors.Wrap(err, "encoding transaction body")
	}

	var h [32]byte
	sha3pool.Sum256(h[:], body)
	return bc.NewHash(h), nil
}

// OutputRef returns the reference to output index of this transaction.
func (tx *Tx) OutputRef(index int) bc.OutputRef {
	return bc.NewOutputRef(tx.ID, uint64(index))
}

// Sign appends a witness signed by priv over the transaction id.
func (tx *Tx) Sign(priv ed25519.PrivateKey) {
	tx.Witnesses = append(tx.Witnesses, &Witness{
		PubKey:    priv.Public().(ed25519.PublicKey),
		Signature: ed25519.Sign(priv, tx.ID.Bytes()),
	})
}

// Signatories returns the key hashes of all witnesses with a valid
// signature over the transaction id.
func (tx *Tx) Signatories() []bc.KeyHash {
	signers := []bc.KeyHash{}
	for _, w := range tx.Witnesses {
		if ed25519.Verify(w.PubKey, tx.ID.Bytes(), w.Signature) {
			signers = append(signers, bc.NewKeyHash(w.PubKey))
		}
	}
	return signers
}
