// Package validation is the order-escrow validator: the predicate the
// ledger evaluates for every transaction that spends an order output or
// mints under the order policy.
package validation

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/application/order/contract"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

const logModule = "order"

// TxInfo is the view of the candidate transaction the validator reads.
type TxInfo = types.TxInfo

// Validator enforces the Create, Resolve and Close transitions of one
// order script. It holds no state between transactions.
type Validator struct {
	script *contract.Script
}

// NewValidator binds a validator to its script.
func NewValidator(script *contract.Script) *Validator {
	return &Validator{script: script}
}

// Hash returns the hash of the script the validator guards.
func (v *Validator) Hash() bc.ScriptHash {
	return v.script.Hash()
}

// Script returns the guarded script.
func (v *Validator) Script() *contract.Script {
	return v.script
}

// Validate accepts or rejects the whole transaction.
func (v *Validator) Validate(info TxInfo) error {
	err := v.validate(info)
	if err != nil {
		log.WithFields(log.Fields{"module": logModule, "tx_id": info.ID().String(), "error": err}).Debug("order transaction rejected")
	}
	return err
}

func (v *Validator) validate(info TxInfo) error {
	inputs := v.scriptInputs(info)
	if len(inputs) == 0 {
		return v.validateCreate(info)
	}

	orders := make([]*AuthenticOrder, 0, len(inputs))
	redeemers := make([]contract.Redeemer, 0, len(inputs))
	for _, in := range inputs {
		switch utxo := v.Classify(in.OutRef, in.Output).(type) {
		case *AuthenticOrder:
			orders = append(orders, utxo)
		case *ForeignUTXO:
			return utxo.Reason
		}

		r, err := contract.DecodeRedeemer(in.Redeemer)
		if err != nil {
			return errors.Wrapf(err, "input %s", in.OutRef)
		}
		redeemers = append(redeemers, r)
	}

	trade := contract.IsTrade(redeemers[0])
	for _, r := range redeemers[1:] {
		if contract.IsTrade(r) != trade {
			return ErrMixedActions
		}
	}

	if trade {
		return v.validateResolve(info, orders, redeemers)
	}
	return v.validateClose(info, orders)
}

// scriptInputs returns the inputs spending order outputs in canonical
// out-ref order; batch positions index into this slice.
func (v *Validator) scriptInputs(info TxInfo) []*types.ResolvedInput {
	inputs := []*types.ResolvedInput{}
	for _, in := range info.Inputs() {
		if in.Output != nil && v.script.IsOrderAddress(in.Output.Address) {
			inputs = append(inputs, in)
		}
	}

	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].OutRef.Less(inputs[j].OutRef) })
	return inputs
}
