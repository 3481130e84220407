package protocol

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
)

const (
	logModule = "protocol"

	defaultVerdictCacheSize = 1024
)

// ErrDuplicateScript is returned when two validators claim the same hash.
var ErrDuplicateScript = errors.New("script already registered")

// Script is a validator the ledger runs for transactions that spend
// outputs locked by its hash or mint under its policy.
type Script interface {
	Hash() bc.ScriptHash
	Validate(info types.TxInfo) error
}

// Chain is an in-process ledger: a persistent utxo set that accepts
// transactions passing the structural rules and every involved script.
type Chain struct {
	store   Store
	metrics *Metrics

	scriptsMu sync.RWMutex
	scripts   map[bc.ScriptHash]Script

	verdictMu sync.Mutex
	verdicts  *lru.Cache

	mtx    sync.Mutex
	status *BlockStoreState
}

// NewChain returns a new Chain using store as the underlying storage. An
// empty store is initialised with a genesis transaction paying genesis.
func NewChain(store Store, genesis []*types.TxOutput, verdictCacheSize int, metrics *Metrics) (*Chain, error) {
	if verdictCacheSize <= 0 {
		verdictCacheSize = defaultVerdictCacheSize
	}

	if metrics == nil {
		metrics = NopMetrics()
	}

	c := &Chain{
		store:    store,
		metrics:  metrics,
		scripts:  make(map[bc.ScriptHash]Script),
		verdicts: lru.New(verdictCacheSize),
	}

	c.status = store.GetStoreStatus()
	if c.status == nil {
		if err := c.initChainStatus(genesis); err != nil {
			return nil, err
		}
	}

	c.metrics.UtxoSetSize.Set(float64(c.status.UtxoCount))
	return c, nil
}

// GenesisTx returns the transaction that funds the initial utxo set.
func GenesisTx(outputs []*types.TxOutput) (*types.Tx, error) {
	return types.NewTx(types.TxData{Outputs: outputs})
}

func (c *Chain) initChainStatus(genesis []*types.TxOutput) error {
	tx, err := GenesisTx(genesis)
	if err != nil {
		return err
	}

	view := state.NewUtxoViewpoint()
	if err := view.ApplyTransaction(tx); err != nil {
		return err
	}

	status := &BlockStoreState{Height: 0, TxCount: 1, UtxoCount: int64(len(tx.Outputs))}
	if err := c.store.SaveChainStatus(status, view, []*types.Tx{tx}); err != nil {
		return err
	}

	log.WithFields(log.Fields{"module": logModule, "genesis": tx.ID.String(), "outputs": len(tx.Outputs)}).Info("ledger initialized")
	c.status = status
	return nil
}

// RegisterScript makes a validator available to the ledger.
func (c *Chain) RegisterScript(s Script) error {
	c.scriptsMu.Lock()
	defer c.scriptsMu.Unlock()

	if _, ok := c.scripts[s.Hash()]; ok {
		return errors.Wrapf(ErrDuplicateScript, "%s", s.Hash())
	}

	c.scripts[s.Hash()] = s
	return nil
}

func (c *Chain) script(hash bc.ScriptHash) (Script, bool) {
	c.scriptsMu.RLock()
	defer c.scriptsMu.RUnlock()

	s, ok := c.scripts[hash]
	return s, ok
}

func (c *Chain) hasScript(hash bc.ScriptHash) bool {
	_, ok := c.script(hash)
	return ok
}

// BestHeight returns the number of blocks applied after genesis.
func (c *Chain) BestHeight() uint64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.status.Height
}

// GetUtxo returns an unspent output.
func (c *Chain) GetUtxo(ref bc.OutputRef) (*storage.UtxoEntry, error) {
	return c.store.GetUtxo(ref)
}

// ListUtxos returns the unspent outputs locked at address.
func (c *Chain) ListUtxos(address bc.Address) ([]*storage.UtxoEntry, error) {
	return c.store.ListUtxos(func(entry *storage.UtxoEntry) bool {
		return entry.Output.Address == address
	})
}

// GetTransaction returns the body of an applied transaction.
func (c *Chain) GetTransaction(id bc.Hash) (*types.Tx, error) {
	return c.store.GetTransaction(id)
}

// This function must be called with mtx lock in above level
func (c *Chain) setState(view *state.UtxoViewpoint, txs []*types.Tx, newBlock bool) error {
	status := *c.status
	status.TxCount += uint64(len(txs))
	if newBlock {
		status.Height++
	}

	for _, tx := range txs {
		status.UtxoCount += int64(len(tx.Outputs)) - int64(len(tx.Inputs))
	}

	if err := c.store.SaveChainStatus(&status, view, txs); err != nil {
		return err
	}

	c.status = &status
	c.metrics.UtxoSetSize.Set(float64(status.UtxoCount))
	return nil
}
