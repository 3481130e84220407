package types

import (
	"github.com/bytom/escrow/protocol/bc"
)

// TxInput spends a previous output. Script-locked outputs need a redeemer.
type TxInput struct {
	OutRef   bc.OutputRef
	Redeemer []byte
}

// NewTxInput create a new input struct
func NewTxInput(outRef bc.OutputRef, redeemer []byte) *TxInput {
	return &TxInput{OutRef: outRef, Redeemer: redeemer}
}

// ResolvedInput is an input together with the output it spends.
type ResolvedInput struct {
	OutRef   bc.OutputRef
	Output   *TxOutput
	Redeemer []byte
}
