package types

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/bytom/escrow/protocol/bc"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}

	if decMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

type assetEntry struct {
	_        struct{} `cbor:",toarray"`
	PolicyID []byte
	Name     []byte
	Quantity uint64
}

type mintEntry struct {
	_        struct{} `cbor:",toarray"`
	PolicyID []byte
	Name     []byte
	Quantity int64
}

type outputEncoding struct {
	_          struct{} `cbor:",toarray"`
	CredType   uint8
	Credential []byte
	Value      []assetEntry
	Datum      []byte
}

type inputEncoding struct {
	_        struct{} `cbor:",toarray"`
	TxID     []byte
	Index    uint64
	Redeemer []byte
}

type bodyEncoding struct {
	_               struct{} `cbor:",toarray"`
	Inputs          []inputEncoding
	Outputs         []outputEncoding
	Mint            []mintEntry
	RequiredSigners [][]byte
}

func encodeValue(v bc.Value) []assetEntry {
	entries := []assetEntry{}
	for _, asset := range v.Assets() {
		entries = append(entries, assetEntry{PolicyID: asset.PolicyID.Bytes(), Name: asset.NameBytes(), Quantity: v[asset]})
	}
	return entries
}

func decodeAsset(policy, name []byte) (bc.AssetID, error) {
	if len(policy) == 0 {
		return bc.ADA, nil
	}

	policyID, err := bc.ScriptHashFromBytes(policy)
	if err != nil {
		return bc.AssetID{}, err
	}
	return bc.NewAssetID(policyID, name), nil
}

func decodeValue(entries []assetEntry) (bc.Value, error) {
	v := bc.Value{}
	for _, e := range entries {
		asset, err := decodeAsset(e.PolicyID, e.Name)
		if err != nil {
			return nil, err
		}
		v[asset] += e.Quantity
	}
	return v.Clone(), nil
}

func encodeOutput(o *TxOutput) outputEncoding {
	return outputEncoding{
		CredType:   uint8(o.Address.Payment.Type),
		Credential: append([]byte(nil), o.Address.Payment.Hash[:]...),
		Value:      encodeValue(o.Value),
		Datum:      o.Datum,
	}
}

func decodeOutput(e *outputEncoding) (*TxOutput, error) {
	if len(e.Credential) != 28 {
		return nil, errors.Wrapf(bc.ErrBadHashLength, "credential has %d bytes", len(e.Credential))
	}

	value, err := decodeValue(e.Value)
	if err != nil {
		return nil, err
	}

	o := &TxOutput{Value: value, Datum: e.Datum}
	o.Address.Payment.Type = bc.CredentialType(e.CredType)
	copy(o.Address.Payment.Hash[:], e.Credential)
	return o, nil
}

// MarshalCBOR encodes an output for storage.
func (o *TxOutput) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(encodeOutput(o))
}

// UnmarshalCBOR decodes an output written by MarshalCBOR.
func (o *TxOutput) UnmarshalCBOR(data []byte) error {
	var e outputEncoding
	if err := decMode.Unmarshal(data, &e); err != nil {
		return err
	}

	decoded, err := decodeOutput(&e)
	if err != nil {
		return err
	}

	*o = *decoded
	return nil
}

// MarshalCBOR encodes the canonical transaction body, the preimage of the id.
func (d *TxData) MarshalCBOR() ([]byte, error) {
	body := bodyEncoding{
		Inputs:          []inputEncoding{},
		Outputs:         []outputEncoding{},
		Mint:            []mintEntry{},
		RequiredSigners: [][]byte{},
	}

	for _, in := range d.Inputs {
		body.Inputs = append(body.Inputs, inputEncoding{TxID: in.OutRef.TxID.Bytes(), Index: in.OutRef.Index, Redeemer: in.Redeemer})
	}

	for _, out := range d.Outputs {
		body.Outputs = append(body.Outputs, encodeOutput(out))
	}

	mintValue := bc.Value{}
	for asset, q := range d.Mint {
		if q != 0 {
			mintValue[asset] = 1
		}
	}
	for _, asset := range mintValue.Assets() {
		body.Mint = append(body.Mint, mintEntry{PolicyID: asset.PolicyID.Bytes(), Name: asset.NameBytes(), Quantity: d.Mint[asset]})
	}

	for _, signer := range d.RequiredSigners {
		body.RequiredSigners = append(body.RequiredSigners, signer.Bytes())
	}

	return encMode.Marshal(body)
}

// UnmarshalCBOR decodes a transaction body.
func (d *TxData) UnmarshalCBOR(data []byte) error {
	var body bodyEncoding
	if err := decMode.Unmarshal(data, &body); err != nil {
		return err
	}

	decoded := TxData{Mint: Mint{}}
	for _, in := range body.Inputs {
		txID, err := bc.HashFromBytes(in.TxID)
		if err != nil {
			return err
		}
		decoded.Inputs = append(decoded.Inputs, NewTxInput(bc.NewOutputRef(txID, in.Index), in.Redeemer))
	}

	for i := range body.Outputs {
		out, err := decodeOutput(&body.Outputs[i])
		if err != nil {
			return err
		}
		decoded.Outputs = append(decoded.Outputs, out)
	}

	for _, m := range body.Mint {
		asset, err := decodeAsset(m.PolicyID, m.Name)
		if err != nil {
			return err
		}
		decoded.Mint[asset] += m.Quantity
	}

	for _, s := range body.RequiredSigners {
		signer, err := bc.KeyHashFromBytes(s)
		if err != nil {
			return err
		}
		decoded.RequiredSigners = append(decoded.RequiredSigners, signer)
	}

	*d = decoded
	return nil
}
