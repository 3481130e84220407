package protocol

import (
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
)

// Store provides storage interface for ledger data
type Store interface {
	GetStoreStatus() *BlockStoreState
	GetTransactionsUtxo(*state.UtxoViewpoint, []*types.Tx) error
	GetUtxo(bc.OutputRef) (*storage.UtxoEntry, error)
	ListUtxos(func(*storage.UtxoEntry) bool) ([]*storage.UtxoEntry, error)
	GetTransaction(bc.Hash) (*types.Tx, error)

	SaveChainStatus(*BlockStoreState, *state.UtxoViewpoint, []*types.Tx) error
}

// BlockStoreState represents the core's db status
type BlockStoreState struct {
	Height    uint64
	TxCount   uint64
	UtxoCount int64
}
