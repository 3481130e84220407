package state

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

var (
	// ErrMissingUtxo is returned when an input spends an unknown output.
	ErrMissingUtxo = errors.New("fail to find utxo entry")
	// ErrSpentUtxo is returned when an input spends an output twice.
	ErrSpentUtxo = errors.New("utxo has been spent")
)

// UtxoViewpoint represents a view into the set of unspent transaction outputs
type UtxoViewpoint struct {
	Entries map[bc.OutputRef]*storage.UtxoEntry
}

// NewUtxoViewpoint returns a new empty unspent transaction output view.
func NewUtxoViewpoint() *UtxoViewpoint {
	return &UtxoViewpoint{
		Entries: make(map[bc.OutputRef]*storage.UtxoEntry),
	}
}

// ApplyTransaction spends the inputs of tx and adds its outputs.
func (view *UtxoViewpoint) ApplyTransaction(tx *types.Tx) error {
	if err := view.applySpendUtxo(tx); err != nil {
		return err
	}

	view.applyOutputUtxo(tx)
	return nil
}

// ApplyBlock applies every transaction in order.
func (view *UtxoViewpoint) ApplyBlock(txs []*types.Tx) error {
	for i, tx := range txs {
		if err := view.ApplyTransaction(tx); err != nil {
			return errors.Wrapf(err, "transaction %d", i)
		}
	}
	return nil
}

// CanSpend reports whether the view holds ref unspent.
func (view *UtxoViewpoint) CanSpend(ref bc.OutputRef) bool {
	entry := view.Entries[ref]
	return entry != nil && !entry.Spent
}

// HasUtxo reports whether the view has loaded ref.
func (view *UtxoViewpoint) HasUtxo(ref bc.OutputRef) bool {
	_, ok := view.Entries[ref]
	return ok
}

// Spent returns the outputs consumed by tx, failing if any is unavailable.
func (view *UtxoViewpoint) Spent(tx *types.Tx) (map[bc.OutputRef]*types.TxOutput, error) {
	spent := make(map[bc.OutputRef]*types.TxOutput, len(tx.Inputs))
	for _, in := range tx.Inputs {
		entry, ok := view.Entries[in.OutRef]
		if !ok {
			return nil, errors.Wrapf(ErrMissingUtxo, "input %s", in.OutRef)
		}

		if entry.Spent {
			return nil, errors.Wrapf(ErrSpentUtxo, "input %s", in.OutRef)
		}
		spent[in.OutRef] = entry.Output
	}
	return spent, nil
}

func (view *UtxoViewpoint) applyOutputUtxo(tx *types.Tx) {
	for i, out := range tx.Outputs {
		ref := tx.OutputRef(i)
		view.Entries[ref] = storage.NewUtxoEntry(ref, out, false)
	}
}

func (view *UtxoViewpoint) applySpendUtxo(tx *types.Tx) error {
	for _, in := range tx.Inputs {
		entry, ok := view.Entries[in.OutRef]
		if !ok {
			return errors.Wrapf(ErrMissingUtxo, "input %s", in.OutRef)
		}

		if entry.Spent {
			return errors.Wrapf(ErrSpentUtxo, "input %s", in.OutRef)
		}

		entry.SpendOutput()
	}
	return nil
}
