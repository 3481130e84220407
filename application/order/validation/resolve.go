package validation

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/contract"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

type successor struct {
	index  int
	datum  *common.Datum
	output *types.TxOutput
}

// collectSuccessors maps every consumed order to the output whose tag
// points back at it.
func (v *Validator) collectSuccessors(info TxInfo, orders []*AuthenticOrder) (map[bc.OutputRef]*successor, error) {
	consumed := make(map[bc.OutputRef]bool, len(orders))
	for _, order := range orders {
		consumed[order.OutRef] = true
	}

	successors := map[bc.OutputRef]*successor{}
	for i, out := range info.Outputs() {
		if !v.script.IsOrderAddress(out.Address) {
			continue
		}

		datum, err := common.DecodeDatum(out.Datum)
		if err != nil || !consumed[datum.Tag] {
			continue
		}

		if prev, ok := successors[datum.Tag]; ok {
			return nil, errors.Wrapf(ErrUnmatchedOrder, "outputs %d and %d both succeed %s", prev.index, i, datum.Tag)
		}
		successors[datum.Tag] = &successor{index: i, datum: datum, output: out}
	}
	return successors, nil
}

// checkPair verifies that order i and the order it names point at each
// other and offer exactly what the other requests.
func checkPair(i int, r contract.ResolveRedeemer, orders []*AuthenticOrder, redeemers []contract.Redeemer) error {
	j := int(r.Match)
	if r.Match < 0 || r.Match >= int64(len(orders)) || j == i {
		return errors.Wrapf(ErrUnmatchedOrder, "position %d matched against invalid position %d", i, r.Match)
	}

	back, ok := redeemers[j].(contract.ResolveRedeemer)
	if !ok || back.Match != int64(i) {
		return errors.Wrapf(ErrUnmatchedOrder, "position %d is not matched back by position %d", i, j)
	}

	requested := orders[i].Datum.RequestedAsset()
	offered := orders[j].Offered()
	if assets := offered.Assets(); len(assets) != 1 || assets[0] != requested {
		return errors.Wrapf(ErrUnmatchedOrder, "position %d offers %v, position %d requests %s", j, assets, i, requested)
	}

	if q := offered.Quantity(requested); q != uint64(orders[i].Datum.Amount) {
		return errors.Wrapf(ErrValueConservationViolated, "position %d offers %d, position %d requests %d", j, q, i, orders[i].Datum.Amount)
	}
	return nil
}

// checkSuccessor verifies that the successor carries the predecessor's
// terms, its validity token and exactly the requested amount.
func (v *Validator) checkSuccessor(order *AuthenticOrder, succ *successor) error {
	if !succ.datum.SameTerms(order.Datum) {
		return errors.Wrapf(ErrMalformedDatum, "successor of %s rewrites the order terms", order.OutRef)
	}

	token := v.script.ValidityToken()
	if q := succ.output.Quantity(token); q != 1 {
		return errors.Wrapf(ErrValidityTokenLost, "successor of %s holds %d validity tokens", order.OutRef, q)
	}

	want := bc.Value{order.Datum.RequestedAsset(): uint64(order.Datum.Amount)}
	if got := succ.output.Value.Without(bc.ADA, token); !got.Equal(want) {
		return errors.Wrapf(ErrValueConservationViolated, "successor of %s holds %v, want %v", order.OutRef, got, want)
	}
	return nil
}

func (v *Validator) validateResolve(info TxInfo, orders []*AuthenticOrder, redeemers []contract.Redeemer) error {
	if err := v.checkMint(info, 0, ErrInvalidMintAmount); err != nil {
		return err
	}

	successors, err := v.collectSuccessors(info, orders)
	if err != nil {
		return err
	}

	settled := map[int]bool{}
	for i, order := range orders {
		succ, ok := successors[order.OutRef]
		if !ok {
			return errors.Wrapf(ErrValidityTokenLost, "no successor for %s", order.OutRef)
		}

		if r, ok := redeemers[i].(contract.ResolveRedeemer); ok {
			if err := checkPair(i, r, orders, redeemers); err != nil {
				return err
			}
		}

		if err := v.checkSuccessor(order, succ); err != nil {
			return err
		}
		settled[succ.index] = true
	}

	return v.checkCustody(info, settled)
}
