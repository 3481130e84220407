package database

import (
	"encoding/json"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbm "github.com/tendermint/tm-db"

	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
)

const logModule = "db"

// ErrTxNotFound is returned when the store holds no transaction with the given id.
var ErrTxNotFound = errors.New("can't find transaction in db")

var (
	storeStatusKey = []byte("BS")
	txPrefix       = []byte("TX:")
)

func calcTxKey(id bc.Hash) []byte {
	return append(append([]byte(nil), txPrefix...), id.Bytes()...)
}

func loadStoreStatusJSON(db dbm.DB) *protocol.BlockStoreState {
	bytes, err := db.Get(storeStatusKey)
	if err != nil {
		log.WithFields(log.Fields{"module": logModule, "err": err}).Panic("fail on reading store status")
	}

	if bytes == nil {
		return nil
	}

	bsj := &protocol.BlockStoreState{}
	if err := json.Unmarshal(bytes, bsj); err != nil {
		log.WithFields(log.Fields{"module": logModule, "err": err}).Panic("fail on unmarshal BlockStoreStateJSON")
	}
	return bsj
}

// A Store encapsulates storage for the ledger emulator.
// It satisfies the interface protocol.Store.
type Store struct {
	db dbm.DB
}

// NewStore creates and returns a new Store object.
func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// GetStoreStatus return the BlockStoreStateJSON
func (s *Store) GetStoreStatus() *protocol.BlockStoreState {
	return loadStoreStatusJSON(s.db)
}

// GetTransactionsUtxo will return all the utxo that related to the input txs
func (s *Store) GetTransactionsUtxo(view *state.UtxoViewpoint, txs []*types.Tx) error {
	return getTransactionsUtxo(s.db, view, txs)
}

// GetUtxo will search the utxo in db
func (s *Store) GetUtxo(ref bc.OutputRef) (*storage.UtxoEntry, error) {
	return getUtxo(s.db, ref)
}

// ListUtxos returns the unspent outputs accepted by filter, in out-ref order.
func (s *Store) ListUtxos(filter func(*storage.UtxoEntry) bool) ([]*storage.UtxoEntry, error) {
	return listUtxos(s.db, filter)
}

// GetTransaction returns an applied transaction by id.
func (s *Store) GetTransaction(id bc.Hash) (*types.Tx, error) {
	data, err := s.db.Get(calcTxKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "reading transaction")
	}

	if data == nil {
		return nil, errors.Wrapf(ErrTxNotFound, "%s", id)
	}

	body, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "decompressing transaction")
	}

	tx := &types.Tx{ID: id}
	if err := tx.TxData.UnmarshalCBOR(body); err != nil {
		return nil, errors.Wrap(err, "unmarshaling transaction")
	}
	return tx, nil
}

// SaveChainStatus atomically writes the applied transactions, the utxo
// changes and the new status.
func (s *Store) SaveChainStatus(status *protocol.BlockStoreState, view *state.UtxoViewpoint, txs []*types.Tx) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := saveUtxoView(batch, view); err != nil {
		return err
	}

	for _, tx := range txs {
		body, err := tx.TxData.MarshalCBOR()
		if err != nil {
			return errors.Wrap(err, "marshaling transaction")
		}
		if err := batch.Set(calcTxKey(tx.ID), snappy.Encode(nil, body)); err != nil {
			return errors.Wrapf(err, "saving transaction %s", tx.ID)
		}
	}

	bytes, err := json.Marshal(status)
	if err != nil {
		return err
	}

	if err := batch.Set(storeStatusKey, bytes); err != nil {
		return errors.Wrap(err, "saving chain status")
	}

	if err := batch.WriteSync(); err != nil {
		return errors.Wrap(err, "writing chain status")
	}

	log.WithFields(log.Fields{"module": logModule, "height": status.Height, "txs": len(txs)}).Debug("chain status saved")
	return nil
}
