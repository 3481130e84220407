package validation

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

func (v *Validator) validateCreate(info TxInfo) error {
	created := map[int]bool{}
	for i, out := range info.Outputs() {
		if !v.script.IsOrderAddress(out.Address) {
			continue
		}

		if err := v.checkNewOrder(out); err != nil {
			return errors.Wrapf(err, "output %d", i)
		}
		created[i] = true
	}

	if len(created) == 0 {
		return errors.Wrap(ErrInvalidMintAmount, "no order output created")
	}

	if err := v.checkMint(info, int64(len(created)), ErrInvalidMintAmount); err != nil {
		return err
	}

	return v.checkCustody(info, created)
}

func (v *Validator) checkNewOrder(out *types.TxOutput) error {
	datum, err := common.DecodeDatum(out.Datum)
	if err != nil {
		return err
	}

	if !datum.IsOrigin() {
		return errors.Wrapf(ErrMalformedDatum, "tag %s is not an origin tag", datum.Tag)
	}

	requested := datum.RequestedAsset()
	if requested.IsADA() || requested.PolicyID == v.script.Hash() {
		return errors.Wrapf(ErrMalformedDatum, "cannot request %s", requested)
	}

	if datum.Amount <= 0 {
		return errors.Wrapf(ErrZeroOrNegativeAmount, "amount %d", datum.Amount)
	}

	token := v.script.ValidityToken()
	if q := out.Quantity(token); q != 1 {
		return errors.Wrapf(ErrMissingValidityToken, "order holds %d validity tokens", q)
	}

	offered := out.Value.Without(bc.ADA, token)
	if offered.Quantity(requested) != 0 {
		return errors.Wrapf(ErrSelfTradeAsset, "offers %d of requested %s", offered.Quantity(requested), requested)
	}

	if offered.IsZero() {
		return ErrNothingOffered
	}
	return nil
}
