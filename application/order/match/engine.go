// Package match proposes reciprocal order pairs for resolution. It only
// pairs orders whose quantities agree exactly.
package match

import (
	"sort"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/protocol/bc"
)

// IsMatched reports whether a and b can settle against each other: each
// offers exactly the single asset and quantity the other requests.
func IsMatched(a, b *common.Order, token bc.AssetID) bool {
	pairA, ok := a.TradePair(token)
	if !ok {
		return false
	}

	pairB, ok := b.TradePair(token)
	if !ok || *pairB != *pairA.Reverse() {
		return false
	}

	return a.Offered(token).Quantity(pairA.FromAssetID) == uint64(b.Datum.Amount) &&
		b.Offered(token).Quantity(pairB.FromAssetID) == uint64(a.Datum.Amount)
}

// FindPairs pairs open orders greedily in out-ref order. Every order
// appears in at most one pair.
func FindPairs(orders []*common.Order, token bc.AssetID) [][2]*common.Order {
	sorted := append(common.OrderSlice(nil), orders...)
	sort.Sort(sorted)

	book := map[string][]*common.Order{}
	for _, order := range sorted {
		if pair, ok := order.TradePair(token); ok {
			book[pair.Key()] = append(book[pair.Key()], order)
		}
	}

	paired := map[bc.OutputRef]bool{}
	pairs := [][2]*common.Order{}
	for _, order := range sorted {
		pair, ok := order.TradePair(token)
		if !ok || paired[order.OutRef] {
			continue
		}

		for _, other := range book[pair.Reverse().Key()] {
			if paired[other.OutRef] || !IsMatched(order, other, token) {
				continue
			}

			paired[order.OutRef], paired[other.OutRef] = true, true
			pairs = append(pairs, [2]*common.Order{order, other})
			break
		}
	}
	return pairs
}
