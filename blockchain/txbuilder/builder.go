package txbuilder

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/bytom/escrow/account"
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// Ledger is the read side of the ledger the builder funds transactions from.
type Ledger interface {
	GetUtxo(bc.OutputRef) (*storage.UtxoEntry, error)
	ListUtxos(bc.Address) ([]*storage.UtxoEntry, error)
}

// TemplateBuilder accumulates the parts of a transaction.
type TemplateBuilder struct {
	inputs  []*types.TxInput
	outputs []*types.TxOutput
	mint    types.Mint
	signers []bc.KeyHash
	used    map[bc.OutputRef]bool

	spent    bc.Balance
	produced bc.Balance
}

// NewTemplateBuilder returns an empty builder.
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		mint:     types.Mint{},
		used:     map[bc.OutputRef]bool{},
		spent:    bc.Balance{},
		produced: bc.Balance{},
	}
}

// AddInput spends entry with the given redeemer.
func (b *TemplateBuilder) AddInput(entry *storage.UtxoEntry, redeemer []byte) {
	b.inputs = append(b.inputs, types.NewTxInput(entry.OutRef, redeemer))
	b.used[entry.OutRef] = true
	b.spent.AddValue(entry.Output.Value)
}

// AddOutput appends an output.
func (b *TemplateBuilder) AddOutput(out *types.TxOutput) {
	b.outputs = append(b.outputs, out)
	b.produced.AddValue(out.Value)
}

// AddMint mints (q > 0) or burns (q < 0) q units of asset.
func (b *TemplateBuilder) AddMint(asset bc.AssetID, q int64) {
	if q > 0 {
		b.spent.Add(asset, uint64(q))
	} else if q < 0 {
		b.produced.Add(asset, uint64(-q))
	}
	b.mint[asset] += q
}

// RequireSigner makes signer's witness mandatory.
func (b *TemplateBuilder) RequireSigner(signer bc.KeyHash) {
	b.signers = append(b.signers, signer)
}

// imbalance returns what the transaction still lacks and what it has in
// excess once fee ada is paid.
func (b *TemplateBuilder) imbalance(fee uint64) (bc.Value, bc.Value, error) {
	need := bc.Balance{}
	for asset, q := range b.produced {
		need[asset] = new(uint256.Int).Set(q)
	}
	need.Add(bc.ADA, fee)

	deficit, surplus := bc.Value{}, bc.Value{}
	assets := append(need.Assets(), b.spent.Assets()...)
	for _, asset := range assets {
		want, have := need.Get(asset), b.spent.Get(asset)
		diff := new(uint256.Int)
		switch {
		case want.Gt(have):
			diff.Sub(want, have)
			if !diff.IsUint64() {
				return nil, nil, bc.ErrOverflow
			}
			deficit[asset] = diff.Uint64()
		case have.Gt(want):
			diff.Sub(have, want)
			if !diff.IsUint64() {
				return nil, nil, bc.ErrOverflow
			}
			surplus[asset] = diff.Uint64()
		}
	}
	return deficit, surplus, nil
}

// Fund covers any shortfall from payer's wallet, pays fee ada and returns
// everything left over to payer.
func (b *TemplateBuilder) Fund(ledger Ledger, payer *account.Account, fee uint64) error {
	deficit, _, err := b.imbalance(fee)
	if err != nil {
		return err
	}

	if !deficit.IsZero() {
		utxos, err := ledger.ListUtxos(payer.Address())
		if err != nil {
			return err
		}

		available := []*storage.UtxoEntry{}
		for _, u := range utxos {
			if !b.used[u.OutRef] {
				available = append(available, u)
			}
		}

		selected, _, err := account.SelectUtxos(available, deficit)
		if err != nil {
			return errors.Wrapf(err, "funding for %s", payer.Alias)
		}

		for _, u := range selected {
			b.AddInput(u, nil)
		}
	}

	_, surplus, err := b.imbalance(fee)
	if err != nil {
		return err
	}

	if !surplus.IsZero() {
		b.AddOutput(types.NewTxOutput(payer.Address(), surplus, nil))
	}
	return nil
}

// Build assembles the transaction and signs it with signers.
func (b *TemplateBuilder) Build(signers ...*account.Account) (*types.Tx, error) {
	tx, err := types.NewTx(types.TxData{
		Inputs:          b.inputs,
		Outputs:         b.outputs,
		Mint:            b.mint,
		RequiredSigners: b.signers,
	})
	if err != nil {
		return nil, err
	}

	for _, signer := range signers {
		signer.Sign(tx)
	}
	return tx, nil
}
