package common

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/bytom/escrow/protocol/bc"
)

// ErrMalformedDatum is returned when bytes do not decode into an order record.
var ErrMalformedDatum = errors.New("malformed order datum")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(err)
	}
}

// Datum is the order record locked with every order output.
type Datum struct {
	Owner     bc.KeyHash
	Amount    int64
	PolicyID  bc.PolicyID
	AssetName string
	Tag       bc.OutputRef
}

// OriginTag is the tag of a freshly created order: an all-zero
// transaction id with a caller chosen index.
func OriginTag(index uint64) bc.OutputRef {
	return bc.NewOutputRef(bc.EmptyHash, index)
}

// IsOrigin reports whether the datum still carries its creation tag.
func (d *Datum) IsOrigin() bool {
	return d.Tag.TxID.IsZero()
}

// RequestedAsset is the asset the order wants in exchange.
func (d *Datum) RequestedAsset() bc.AssetID {
	return bc.AssetID{PolicyID: d.PolicyID, Name: d.AssetName}
}

// WithTag returns a copy of the datum pointing at tag.
func (d *Datum) WithTag(tag bc.OutputRef) *Datum {
	next := *d
	next.Tag = tag
	return &next
}

// SameTerms reports whether two datums agree on everything but the tag.
func (d *Datum) SameTerms(o *Datum) bool {
	return d.Owner == o.Owner && d.Amount == o.Amount && d.PolicyID == o.PolicyID && d.AssetName == o.AssetName
}

type tagEncoding struct {
	_           struct{} `cbor:",toarray"`
	TxID        []byte
	OutputIndex uint64
}

type datumEncoding struct {
	_         struct{} `cbor:",toarray"`
	Owner     []byte
	Amount    int64
	PolicyID  []byte
	AssetName []byte
	Tag       tagEncoding
}

// EncodeDatum serializes the datum as the canonical CBOR array
// [owner, amount, policyId, assetName, [txId, outputIndex]].
func EncodeDatum(d *Datum) ([]byte, error) {
	e := datumEncoding{
		Owner:     d.Owner.Bytes(),
		Amount:    d.Amount,
		PolicyID:  []byte{},
		AssetName: []byte(d.AssetName),
		Tag:       tagEncoding{TxID: d.Tag.TxID.Bytes(), OutputIndex: d.Tag.Index},
	}
	if !d.PolicyID.IsZero() {
		e.PolicyID = d.PolicyID.Bytes()
	}

	return encMode.Marshal(e)
}

// DecodeDatum parses bytes produced by EncodeDatum.
func DecodeDatum(data []byte) (*Datum, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrMalformedDatum, "missing datum")
	}

	var e datumEncoding
	if err := decMode.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(ErrMalformedDatum, err.Error())
	}

	d := &Datum{Amount: e.Amount, AssetName: string(e.AssetName)}
	var err error
	if d.Owner, err = bc.KeyHashFromBytes(e.Owner); err != nil {
		return nil, errors.Wrap(ErrMalformedDatum, err.Error())
	}

	if len(e.PolicyID) != 0 {
		if d.PolicyID, err = bc.ScriptHashFromBytes(e.PolicyID); err != nil {
			return nil, errors.Wrap(ErrMalformedDatum, err.Error())
		}
	}

	if d.Tag.TxID, err = bc.HashFromBytes(e.Tag.TxID); err != nil {
		return nil, errors.Wrap(ErrMalformedDatum, err.Error())
	}

	d.Tag.Index = e.Tag.OutputIndex
	return d, nil
}
