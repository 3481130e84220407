package types

import (
	"github.com/bytom/escrow/protocol/bc"
)

// TxOutput is one output of a transaction: value locked at an address,
// optionally carrying an inline datum.
type TxOutput struct {
	Address bc.Address
	Value   bc.Value
	Datum   []byte
}

// NewTxOutput create a new output struct
func NewTxOutput(address bc.Address, value bc.Value, datum []byte) *TxOutput {
	return &TxOutput{Address: address, Value: value.Clone(), Datum: datum}
}

// Quantity returns how much of asset the output holds.
func (o *TxOutput) Quantity(asset bc.AssetID) uint64 {
	return o.Value.Quantity(asset)
}
