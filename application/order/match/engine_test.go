package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/protocol/bc"
)

var (
	token  = bc.NewAssetID(bc.NewScriptHash([]byte("order")), []byte("val"))
	assetA = bc.NewAssetID(bc.NewScriptHash([]byte("a")), []byte("A"))
	assetB = bc.NewAssetID(bc.NewScriptHash([]byte("b")), []byte("B"))
	assetC = bc.NewAssetID(bc.NewScriptHash([]byte("c")), []byte("C"))
)

func newOrder(id byte, offer bc.AssetID, offerAmount uint64, want bc.AssetID, wantAmount int64) *common.Order {
	return &common.Order{
		OutRef: bc.NewOutputRef(bc.Hash{id}, 0),
		Datum:  &common.Datum{Amount: wantAmount, PolicyID: want.PolicyID, AssetName: want.Name},
		Value:  bc.Value{bc.ADA: 2, token: 1, offer: offerAmount},
	}
}

func TestIsMatched(t *testing.T) {
	cases := []struct {
		desc string
		a, b *common.Order
		want bool
	}{
		{
			desc: "reciprocal exact",
			a:    newOrder(1, assetA, 4242, assetB, 4300),
			b:    newOrder(2, assetB, 4300, assetA, 4242),
			want: true,
		},
		{
			desc: "quantity mismatch",
			a:    newOrder(1, assetA, 4242, assetB, 4300),
			b:    newOrder(2, assetB, 4242, assetA, 4242),
		},
		{
			desc: "asset mismatch",
			a:    newOrder(1, assetA, 10, assetB, 10),
			b:    newOrder(2, assetC, 10, assetA, 10),
		},
		{
			desc: "same direction",
			a:    newOrder(1, assetA, 10, assetB, 10),
			b:    newOrder(2, assetA, 10, assetB, 10),
		},
	}

	for _, c := range cases {
		require.Equal(t, c.want, IsMatched(c.a, c.b, token), c.desc)
		require.Equal(t, c.want, IsMatched(c.b, c.a, token), c.desc)
	}
}

func TestFindPairs(t *testing.T) {
	o1 := newOrder(1, assetA, 10, assetB, 20)
	o2 := newOrder(2, assetB, 21, assetA, 10)
	o3 := newOrder(3, assetB, 20, assetA, 10)
	o4 := newOrder(4, assetB, 20, assetA, 10)
	o5 := newOrder(5, assetC, 1, assetB, 1)

	pairs := FindPairs([]*common.Order{o5, o4, o3, o2, o1}, token)
	require.Equal(t, [][2]*common.Order{{o1, o3}}, pairs)
}
