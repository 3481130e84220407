package validation

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/protocol/bc"
)

func (v *Validator) validateClose(info TxInfo, orders []*AuthenticOrder) error {
	signers := make(map[bc.KeyHash]bool, len(info.Signatories()))
	for _, signer := range info.Signatories() {
		signers[signer] = true
	}

	for _, order := range orders {
		if !signers[order.Datum.Owner] {
			return errors.Wrapf(ErrUnauthorizedCloser, "%s is owned by %s", order.OutRef, order.Datum.Owner)
		}
	}

	if err := v.checkMint(info, -int64(len(orders)), ErrInvalidBurnAmount); err != nil {
		return err
	}

	return v.checkCustody(info, nil)
}
