package validation

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// ScriptUTXO is an output locked at the order address. It is either an
// AuthenticOrder or a ForeignUTXO.
type ScriptUTXO interface {
	Ref() bc.OutputRef
	scriptUTXO()
}

// AuthenticOrder is a script output carrying exactly one validity token
// and a decodable order record. Only the validator constructs it.
type AuthenticOrder struct {
	OutRef  bc.OutputRef
	Datum   *common.Datum
	Value   bc.Value
	offered bc.Value
}

// ForeignUTXO is any other output sitting at the order address.
type ForeignUTXO struct {
	OutRef bc.OutputRef
	Reason error
}

// Ref returns the out-ref of the order output.
func (o *AuthenticOrder) Ref() bc.OutputRef { return o.OutRef }

// Ref returns the out-ref of the foreign output.
func (f *ForeignUTXO) Ref() bc.OutputRef { return f.OutRef }

func (*AuthenticOrder) scriptUTXO() {}
func (*ForeignUTXO) scriptUTXO()    {}

// Offered returns what the order holds besides ada and its validity token.
func (o *AuthenticOrder) Offered() bc.Value {
	return o.offered.Clone()
}

// Classify decides whether an output at the order address is a genuine order.
func (v *Validator) Classify(ref bc.OutputRef, out *types.TxOutput) ScriptUTXO {
	token := v.script.ValidityToken()
	if q := out.Quantity(token); q != 1 {
		return &ForeignUTXO{OutRef: ref, Reason: errors.Wrapf(ErrMissingValidityToken, "%s holds %d validity tokens", ref, q)}
	}

	datum, err := common.DecodeDatum(out.Datum)
	if err != nil {
		return &ForeignUTXO{OutRef: ref, Reason: errors.Wrapf(err, "%s", ref)}
	}

	return &AuthenticOrder{
		OutRef:  ref,
		Datum:   datum,
		Value:   out.Value.Clone(),
		offered: out.Value.Without(bc.ADA, token),
	}
}

// checkMint rejects any mint under the order policy other than want
// units of the validity token. A wrong token quantity is reported as errAmount.
func (v *Validator) checkMint(info TxInfo, want int64, errAmount error) error {
	token := v.script.ValidityToken()
	for asset, q := range info.Mint() {
		if asset.PolicyID != token.PolicyID || asset == token || q == 0 {
			continue
		}
		return errors.Wrapf(ErrInvalidMintAmount, "minting %d of foreign name %q under order policy", q, asset.Name)
	}

	if got := info.Mint()[token]; got != want {
		return errors.Wrapf(errAmount, "validity token mint %d, want %d", got, want)
	}
	return nil
}

// checkCustody requires every output holding the validity token to be one
// of the allowed order outputs.
func (v *Validator) checkCustody(info TxInfo, allowed map[int]bool) error {
	token := v.script.ValidityToken()
	for i, out := range info.Outputs() {
		if out.Quantity(token) == 0 || allowed[i] {
			continue
		}

		if !v.script.IsOrderAddress(out.Address) || out.Quantity(token) != 1 {
			return errors.Wrapf(ErrValidityTokenLost, "output %d holds %d validity tokens at %s", i, out.Quantity(token), out.Address)
		}
		return errors.Wrapf(ErrValidityTokenLost, "output %d is not an order successor", i)
	}
	return nil
}
