package account

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
)

// ErrInsufficient is returned when the wallet cannot cover a request.
var ErrInsufficient = errors.New("reservation found insufficient funds")

// SelectUtxos picks outputs from utxos until every asset of want is
// covered. Outputs holding a wanted native asset are taken first, then
// ada is topped up largest first. It returns the selection and what is
// left over as change.
func SelectUtxos(utxos []*storage.UtxoEntry, want bc.Value) ([]*storage.UtxoEntry, bc.Value, error) {
	candidates := append([]*storage.UtxoEntry(nil), utxos...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Output.Value.Ada() > candidates[j].Output.Value.Ada()
	})

	selected := []*storage.UtxoEntry{}
	taken := map[bc.OutputRef]bool{}
	have := bc.Value{}
	take := func(u *storage.UtxoEntry) error {
		sum, err := have.Add(u.Output.Value)
		if err != nil {
			return err
		}

		have = sum
		taken[u.OutRef] = true
		selected = append(selected, u)
		return nil
	}

	assets := append(want.NonAda().Assets(), bc.ADA)
	for _, asset := range assets {
		for _, u := range candidates {
			if have.Quantity(asset) >= want.Quantity(asset) {
				break
			}

			if taken[u.OutRef] || u.Output.Value.Quantity(asset) == 0 {
				continue
			}

			if err := take(u); err != nil {
				return nil, nil, err
			}
		}

		if have.Quantity(asset) < want.Quantity(asset) {
			return nil, nil, errors.Wrapf(ErrInsufficient, "need %d of %s, have %d", want.Quantity(asset), asset, have.Quantity(asset))
		}
	}

	change := bc.Value{}
	for asset, q := range have {
		if left := q - want.Quantity(asset); left > 0 {
			change[asset] = left
		}
	}
	return selected, change, nil
}
