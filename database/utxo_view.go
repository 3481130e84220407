package database

import (
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"

	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
)

// ErrUtxoNotFound is returned when the store holds no unspent output for a reference.
var ErrUtxoNotFound = errors.New("can't find utxo in db")

var utxoPrefix = []byte("UT:")

func calcUtxoKey(ref bc.OutputRef) []byte {
	return append(append([]byte(nil), utxoPrefix...), ref.Bytes()...)
}

func decodeUtxo(key, data []byte) (*storage.UtxoEntry, error) {
	ref, err := bc.OutputRefFromBytes(key[len(utxoPrefix):])
	if err != nil {
		return nil, err
	}

	output := &types.TxOutput{}
	if err := output.UnmarshalCBOR(data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling utxo entry")
	}
	return storage.NewUtxoEntry(ref, output, false), nil
}

func getTransactionsUtxo(db dbm.DB, view *state.UtxoViewpoint, txs []*types.Tx) error {
	for _, tx := range txs {
		for _, in := range tx.Inputs {
			if view.HasUtxo(in.OutRef) {
				continue
			}

			key := calcUtxoKey(in.OutRef)
			data, err := db.Get(key)
			if err != nil {
				return errors.Wrap(err, "reading utxo")
			}

			if data == nil {
				continue
			}

			entry, err := decodeUtxo(key, data)
			if err != nil {
				return err
			}
			view.Entries[in.OutRef] = entry
		}
	}
	return nil
}

func getUtxo(db dbm.DB, ref bc.OutputRef) (*storage.UtxoEntry, error) {
	key := calcUtxoKey(ref)
	data, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "reading utxo")
	}

	if data == nil {
		return nil, errors.Wrapf(ErrUtxoNotFound, "%s", ref)
	}
	return decodeUtxo(key, data)
}

func listUtxos(db dbm.DB, filter func(*storage.UtxoEntry) bool) ([]*storage.UtxoEntry, error) {
	end := append(append([]byte(nil), utxoPrefix[:len(utxoPrefix)-1]...), utxoPrefix[len(utxoPrefix)-1]+1)
	itr, err := db.Iterator(utxoPrefix, end)
	if err != nil {
		return nil, err
	}
	defer itr.Close()

	entries := []*storage.UtxoEntry{}
	for ; itr.Valid(); itr.Next() {
		entry, err := decodeUtxo(itr.Key(), itr.Value())
		if err != nil {
			return nil, err
		}

		if filter == nil || filter(entry) {
			entries = append(entries, entry)
		}
	}
	return entries, itr.Error()
}

func saveUtxoView(batch dbm.Batch, view *state.UtxoViewpoint) error {
	for ref, entry := range view.Entries {
		if entry.Spent {
			if err := batch.Delete(calcUtxoKey(ref)); err != nil {
				return errors.Wrapf(err, "deleting utxo %s", ref)
			}
			continue
		}

		b, err := entry.Output.MarshalCBOR()
		if err != nil {
			return errors.Wrap(err, "marshaling utxo entry")
		}
		if err := batch.Set(calcUtxoKey(ref), b); err != nil {
			return errors.Wrapf(err, "saving utxo %s", ref)
		}
	}
	return nil
}
