package storage

import (
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// UtxoEntry is an output in the unspent set, or one spent within the
// current view.
type UtxoEntry struct {
	OutRef bc.OutputRef
	Output *types.TxOutput
	Spent  bool
}

// NewUtxoEntry will create a new utxo entry
func NewUtxoEntry(outRef bc.OutputRef, output *types.TxOutput, spent bool) *UtxoEntry {
	return &UtxoEntry{
		OutRef: outRef,
		Output: output,
		Spent:  spent,
	}
}

// SpendOutput marks the output as spent
func (entry *UtxoEntry) SpendOutput() {
	entry.Spent = true
}

// UnspendOutput marks the output as unspent
func (entry *UtxoEntry) UnspendOutput() {
	entry.Spent = false
}
