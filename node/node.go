// Package node assembles a ledger, the order validator, a set of funded
// accounts and a transaction builder into one runnable environment.
package node

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbm "github.com/tendermint/tm-db"

	"github.com/bytom/escrow/account"
	"github.com/bytom/escrow/application/order"
	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/contract"
	"github.com/bytom/escrow/application/order/validation"
	"github.com/bytom/escrow/blockchain/txbuilder"
	cfg "github.com/bytom/escrow/config"
	"github.com/bytom/escrow/database"
	"github.com/bytom/escrow/protocol"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

const (
	logModule = "node"

	accountNamespace = "escrow-account"
	assetNamespace   = "escrow-asset"
)

// Aliases of the accounts funded at genesis.
const (
	Alice = "alice"
	Bob   = "bob"
	Carol = "carol"
)

// Names of the native assets minted at genesis.
const (
	AssetA = "A"
	AssetB = "B"
)

// ErrUnknownAccount is returned for an alias that was not funded at genesis.
var ErrUnknownAccount = errors.New("unknown account")

type Node struct {
	config *cfg.Config
	db     dbm.DB

	store     *database.Store
	chain     *protocol.Chain
	validator *validation.Validator
	builder   *txbuilder.Builder
	orders    *order.OrderCore

	accounts map[string]*account.Account
	assets   map[string]bc.AssetID
}

// NewNode opens the ledger database under the root dir and builds a node on it.
func NewNode(config *cfg.Config, metrics *protocol.Metrics) (*Node, error) {
	db, err := database.NewDB("ledger", config.DBBackend, config.DBDir())
	if err != nil {
		return nil, err
	}

	n, err := NewNodeWithDB(config, db, metrics)
	if err != nil {
		db.Close()
		return nil, err
	}
	return n, nil
}

// NewNodeWithDB builds a node on an open database. An empty database is
// initialised with the genesis funding.
func NewNodeWithDB(config *cfg.Config, db dbm.DB, metrics *protocol.Metrics) (*Node, error) {
	n := &Node{
		config:   config,
		db:       db,
		store:    database.NewStore(db),
		accounts: make(map[string]*account.Account),
		assets:   make(map[string]bc.AssetID),
	}

	for _, alias := range []string{Alice, Bob, Carol} {
		n.accounts[alias] = account.DeriveAccount(accountNamespace, alias)
	}
	for _, name := range []string{AssetA, AssetB} {
		n.assets[name] = bc.NewAssetID(bc.NewScriptHash([]byte(assetNamespace), []byte(name)), []byte(name))
	}

	chain, err := protocol.NewChain(n.store, n.genesisOutputs(), config.Ledger.VerdictCacheSize, metrics)
	if err != nil {
		return nil, errors.Wrap(err, "create chain")
	}

	n.chain = chain
	n.validator = validation.NewValidator(contract.NewScript(config.Order.TokenName))
	if err := chain.RegisterScript(n.validator); err != nil {
		return nil, err
	}

	n.builder = txbuilder.NewBuilder(chain, n.validator.Script(), config.Ledger.Fee, config.Ledger.MinAda)
	n.orders = order.NewOrderCore(chain, n.validator)

	log.WithFields(log.Fields{"module": logModule, "script": n.validator.Hash().String(), "height": chain.BestHeight()}).Info("node started")
	return n, nil
}

// genesisOutputs funds every account with ada. Alice holds asset A, Bob
// holds asset B and Carol holds some of both.
func (n *Node) genesisOutputs() []*types.TxOutput {
	ledger := n.config.Ledger
	a, b := n.assets[AssetA], n.assets[AssetB]
	return []*types.TxOutput{
		types.NewTxOutput(n.accounts[Alice].Address(), bc.Value{bc.ADA: ledger.GenesisAda, a: ledger.GenesisAssets}, nil),
		types.NewTxOutput(n.accounts[Bob].Address(), bc.Value{bc.ADA: ledger.GenesisAda, b: ledger.GenesisAssets}, nil),
		types.NewTxOutput(n.accounts[Carol].Address(), bc.Value{bc.ADA: ledger.GenesisAda, a: ledger.GenesisAssets, b: ledger.GenesisAssets}, nil),
	}
}

// Close releases the database.
func (n *Node) Close() error {
	return n.db.Close()
}

func (n *Node) Chain() *protocol.Chain           { return n.chain }
func (n *Node) Builder() *txbuilder.Builder      { return n.builder }
func (n *Node) Validator() *validation.Validator { return n.validator }
func (n *Node) Asset(name string) bc.AssetID     { return n.assets[name] }
func (n *Node) OrderCore() *order.OrderCore      { return n.orders }
func (n *Node) Config() *cfg.Config              { return n.config }

// Account returns the genesis account named alias.
func (n *Node) Account(alias string) (*account.Account, error) {
	acc, ok := n.accounts[alias]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAccount, "%q", alias)
	}
	return acc, nil
}

// Balance sums the outputs locked at the account's address.
func (n *Node) Balance(alias string) (bc.Value, error) {
	acc, err := n.Account(alias)
	if err != nil {
		return nil, err
	}

	utxos, err := n.chain.ListUtxos(acc.Address())
	if err != nil {
		return nil, err
	}

	total := bc.Value{}
	for _, u := range utxos {
		if total, err = total.Add(u.Output.Value); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// OwnerAlias names the genesis account owning an order, or returns the
// key hash when no account matches.
func (n *Node) OwnerAlias(datum *common.Datum) string {
	aliases := make([]string, 0, len(n.accounts))
	for alias := range n.accounts {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		if n.accounts[alias].KeyHash == datum.Owner {
			return alias
		}
	}
	return datum.Owner.String()
}
