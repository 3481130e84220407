package types

import (
	"github.com/bytom/escrow/protocol/bc"
)

// TxInfo is the read-only view of a candidate transaction handed to
// validator scripts.
type TxInfo interface {
	ID() bc.Hash
	Inputs() []*ResolvedInput
	Outputs() []*TxOutput
	Mint() Mint
	Signatories() []bc.KeyHash
}

// ScriptContext is the ledger's TxInfo implementation.
type ScriptContext struct {
	id          bc.Hash
	inputs      []*ResolvedInput
	outputs     []*TxOutput
	mint        Mint
	signatories []bc.KeyHash
}

// NewScriptContext binds a transaction to the outputs its inputs spend.
// Inputs keep the transaction's canonical order.
func NewScriptContext(tx *Tx, spent map[bc.OutputRef]*TxOutput, signatories []bc.KeyHash) *ScriptContext {
	inputs := make([]*ResolvedInput, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, &ResolvedInput{OutRef: in.OutRef, Output: spent[in.OutRef], Redeemer: in.Redeemer})
	}

	mint := tx.Mint
	if mint == nil {
		mint = Mint{}
	}

	return &ScriptContext{id: tx.ID, inputs: inputs, outputs: tx.Outputs, mint: mint, signatories: signatories}
}

// ID returns the transaction id.
func (c *ScriptContext) ID() bc.Hash { return c.id }

// Inputs returns the resolved inputs.
func (c *ScriptContext) Inputs() []*ResolvedInput { return c.inputs }

// Outputs returns the produced outputs.
func (c *ScriptContext) Outputs() []*TxOutput { return c.outputs }

// Mint returns the mint field.
func (c *ScriptContext) Mint() Mint { return c.mint }

// Signatories returns the verified signer key hashes.
func (c *ScriptContext) Signatories() []bc.KeyHash { return c.signatories }
