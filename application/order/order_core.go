// Package order exposes the open orders sitting at an order script
// address and proposes pairs for resolution.
package order

import (
	"sort"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/match"
	"github.com/bytom/escrow/application/order/validation"
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
)

const (
	logModule = "order"

	// outputs never change under an out-ref, so neither does their class
	classifiedCacheSize = 4096
)

// Ledger lists unspent outputs by address.
type Ledger interface {
	ListUtxos(bc.Address) ([]*storage.UtxoEntry, error)
}

// OrderCore reads the order book straight from the utxo set.
type OrderCore struct {
	ledger     Ledger
	validator  *validation.Validator
	classified *lru.ARCCache
}

// NewOrderCore return a instance of OrderCore
func NewOrderCore(ledger Ledger, validator *validation.Validator) *OrderCore {
	classified, _ := lru.NewARC(classifiedCacheSize)
	return &OrderCore{ledger: ledger, validator: validator, classified: classified}
}

func (o *OrderCore) classify(u *storage.UtxoEntry) validation.ScriptUTXO {
	if utxo, ok := o.classified.Get(u.OutRef); ok {
		return utxo.(validation.ScriptUTXO)
	}

	utxo := o.validator.Classify(u.OutRef, u.Output)
	o.classified.Add(u.OutRef, utxo)
	return utxo
}

// OpenOrders returns the authentic orders at the script address. Foreign
// outputs at the address are skipped.
func (o *OrderCore) OpenOrders() ([]*common.Order, error) {
	utxos, err := o.ledger.ListUtxos(o.validator.Script().Address())
	if err != nil {
		return nil, err
	}

	orders := []*common.Order{}
	for _, u := range utxos {
		switch utxo := o.classify(u).(type) {
		case *validation.AuthenticOrder:
			orders = append(orders, &common.Order{OutRef: utxo.OutRef, Datum: utxo.Datum, Value: utxo.Value})
		case *validation.ForeignUTXO:
			log.WithFields(log.Fields{"module": logModule, "utxo": utxo.OutRef.String(), "reason": utxo.Reason}).Debug("skip foreign utxo at order address")
		}
	}

	sort.Sort(common.OrderSlice(orders))
	return orders, nil
}

// MatchedPairs proposes reciprocal pairs among the open orders.
func (o *OrderCore) MatchedPairs() ([][2]*common.Order, error) {
	orders, err := o.OpenOrders()
	if err != nil {
		return nil, err
	}
	return match.FindPairs(orders, o.validator.Script().ValidityToken()), nil
}
