package common

import (
	"fmt"

	"github.com/bytom/escrow/protocol/bc"
)

// Order is the off-chain view of an authentic order output.
type Order struct {
	OutRef bc.OutputRef
	Datum  *Datum
	Value  bc.Value
}

// Offered returns the assets held by the order, excluding ada and the
// given validity token.
func (o *Order) Offered(token bc.AssetID) bc.Value {
	return o.Value.Without(bc.ADA, token)
}

// Key return the unique key for representing this order
func (o *Order) Key() string {
	return o.OutRef.String()
}

// TradePair returns the order's single offered asset and its requested
// asset. Orders offering several assets have no trade pair.
func (o *Order) TradePair(token bc.AssetID) (*TradePair, bool) {
	assets := o.Offered(token).Assets()
	if len(assets) != 1 {
		return nil, false
	}
	return &TradePair{FromAssetID: assets[0], ToAssetID: o.Datum.RequestedAsset()}, true
}

// TradePair is the asset an order gives and the asset it wants.
type TradePair struct {
	FromAssetID bc.AssetID
	ToAssetID   bc.AssetID
}

// Reverse return the reverse trade pair object
func (t *TradePair) Reverse() *TradePair {
	return &TradePair{FromAssetID: t.ToAssetID, ToAssetID: t.FromAssetID}
}

// Key return the unique key for representing this trade pair
func (t *TradePair) Key() string {
	return fmt.Sprintf("%s:%s", t.FromAssetID, t.ToAssetID)
}

// OrderSlice is define for order's sort
type OrderSlice []*Order

func (o OrderSlice) Len() int           { return len(o) }
func (o OrderSlice) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o OrderSlice) Less(i, j int) bool { return o[i].OutRef.Less(o[j].OutRef) }
