package protocol

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
	"github.com/bytom/escrow/protocol/validation"
)

// ApplyBlock applies txs atomically: either every transaction is valid in
// sequence and the whole block is stored, or nothing is. Later
// transactions may spend outputs of earlier ones. Scripts of all
// transactions are evaluated concurrently once the structural checks pass.
func (c *Chain) ApplyBlock(ctx context.Context, txs []*types.Tx) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	view := state.NewUtxoViewpoint()
	if err := c.store.GetTransactionsUtxo(view, txs); err != nil {
		return err
	}

	results := make([]*validation.Result, len(txs))
	for i, tx := range txs {
		result, err := validation.ValidateTx(tx, view, c.hasScript)
		if err != nil {
			return c.reject(tx, errors.Wrapf(err, "transaction %d", i))
		}

		if err := view.ApplyTransaction(tx); err != nil {
			return c.reject(tx, errors.Wrapf(err, "transaction %d", i))
		}
		results[i] = result
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range txs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if err := c.runScripts(verdictKey(txs[i].ID, results[i].Context.Signatories()), results[i]); err != nil {
				return c.reject(txs[i], errors.Wrapf(err, "transaction %d", i))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := c.setState(view, txs, true); err != nil {
		return err
	}

	for _, tx := range txs {
		c.accept(tx)
	}

	log.WithFields(log.Fields{"module": logModule, "height": c.status.Height, "txs": len(txs)}).Info("block applied")
	return nil
}
