package bc

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrOverflow is returned when a quantity leaves the uint64 range.
var ErrOverflow = errors.New("asset quantity overflow")

// Value is a multi-asset bundle. Zero quantities are equivalent to absent entries.
type Value map[AssetID]uint64

// NewAdaValue returns a bundle holding only ada.
func NewAdaValue(lovelace uint64) Value {
	return Value{ADA: lovelace}
}

// Quantity returns how much of asset the bundle holds.
func (v Value) Quantity(asset AssetID) uint64 {
	return v[asset]
}

// Ada returns the ada quantity.
func (v Value) Ada() uint64 {
	return v[ADA]
}

// Clone returns a copy without zero entries.
func (v Value) Clone() Value {
	c := make(Value, len(v))
	for asset, q := range v {
		if q != 0 {
			c[asset] = q
		}
	}
	return c
}

// Add returns v + o, failing on overflow.
func (v Value) Add(o Value) (Value, error) {
	sum := v.Clone()
	for asset, q := range o {
		total, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(sum[asset]), uint256.NewInt(q))
		if overflow || !total.IsUint64() {
			return nil, errors.Wrapf(ErrOverflow, "adding %s", asset)
		}

		if q := total.Uint64(); q != 0 {
			sum[asset] = q
		}
	}
	return sum, nil
}

// Assets lists the assets with a non-zero quantity in canonical order.
func (v Value) Assets() []AssetID {
	assets := make([]AssetID, 0, len(v))
	for asset, q := range v {
		if q != 0 {
			assets = append(assets, asset)
		}
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Less(assets[j]) })
	return assets
}

// Without returns a copy of v omitting the given assets.
func (v Value) Without(assets ...AssetID) Value {
	c := v.Clone()
	for _, asset := range assets {
		delete(c, asset)
	}
	return c
}

// NonAda returns the native assets of v.
func (v Value) NonAda() Value {
	return v.Without(ADA)
}

// IsZero reports whether the bundle holds nothing.
func (v Value) IsZero() bool {
	return len(v.Assets()) == 0
}

// Equal compares two bundles ignoring zero entries.
func (v Value) Equal(o Value) bool {
	a, b := v.Clone(), o.Clone()
	if len(a) != len(b) {
		return false
	}

	for asset, q := range a {
		if b[asset] != q {
			return false
		}
	}
	return true
}

// Balance accumulates per-asset totals without overflow.
type Balance map[AssetID]*uint256.Int

// AddValue adds every quantity of v to the balance.
func (b Balance) AddValue(v Value) {
	for asset, q := range v {
		b.Add(asset, q)
	}
}

// Add adds q units of asset.
func (b Balance) Add(asset AssetID, q uint64) {
	if q == 0 {
		return
	}

	if _, ok := b[asset]; !ok {
		b[asset] = new(uint256.Int)
	}
	b[asset].Add(b[asset], uint256.NewInt(q))
}

// Get returns the accumulated total of asset.
func (b Balance) Get(asset AssetID) *uint256.Int {
	if q, ok := b[asset]; ok {
		return q
	}
	return new(uint256.Int)
}

// Equal compares two balances ignoring zero entries.
func (b Balance) Equal(o Balance) bool {
	for asset, q := range b {
		if !q.Eq(o.Get(asset)) {
			return false
		}
	}

	for asset, q := range o {
		if !q.Eq(b.Get(asset)) {
			return false
		}
	}
	return true
}

// Assets lists the assets of the balance in canonical order.
func (b Balance) Assets() []AssetID {
	assets := make([]AssetID, 0, len(b))
	for asset, q := range b {
		if !q.IsZero() {
			assets = append(assets, asset)
		}
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Less(assets[j]) })
	return assets
}
