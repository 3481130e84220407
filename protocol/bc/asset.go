package bc

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// AssetID is the composite identifier of a native asset. The zero value is ada.
type AssetID struct {
	PolicyID PolicyID
	Name     string
}

// ADA is the ledger's base currency.
var ADA = AssetID{}

// NewAssetID builds an asset id from a policy and a raw asset name.
func NewAssetID(policyID PolicyID, name []byte) AssetID {
	return AssetID{PolicyID: policyID, Name: string(name)}
}

// IsADA reports whether a is the base currency.
func (a AssetID) IsADA() bool {
	return a == ADA
}

// NameBytes returns the raw asset name.
func (a AssetID) NameBytes() []byte {
	return []byte(a.Name)
}

// Less orders assets by policy, then by name.
func (a AssetID) Less(b AssetID) bool {
	if c := bytes.Compare(a.PolicyID[:], b.PolicyID[:]); c != 0 {
		return c < 0
	}
	return a.Name < b.Name
}

func (a AssetID) String() string {
	if a.IsADA() {
		return "ada"
	}
	return fmt.Sprintf("%s.%s", a.PolicyID.String(), hex.EncodeToString([]byte(a.Name)))
}
