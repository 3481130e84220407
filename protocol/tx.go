package protocol

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/crypto/sha3pool"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
	"github.com/bytom/escrow/protocol/validation"
)

type verdict struct {
	err error
}

// SubmitTx validates tx against the current utxo set and applies it.
// Concurrent submissions are serialized; of two transactions spending the
// same output the first one wins.
func (c *Chain) SubmitTx(tx *types.Tx) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	view := state.NewUtxoViewpoint()
	if err := c.store.GetTransactionsUtxo(view, []*types.Tx{tx}); err != nil {
		return err
	}

	if err := c.validateTx(tx, view); err != nil {
		return c.reject(tx, err)
	}

	if err := view.ApplyTransaction(tx); err != nil {
		return c.reject(tx, err)
	}

	if err := c.setState(view, []*types.Tx{tx}, false); err != nil {
		return err
	}

	c.accept(tx)
	return nil
}

// ValidateTx runs every check SubmitTx does without applying tx.
func (c *Chain) ValidateTx(tx *types.Tx) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	view := state.NewUtxoViewpoint()
	if err := c.store.GetTransactionsUtxo(view, []*types.Tx{tx}); err != nil {
		return err
	}
	return c.validateTx(tx, view)
}

func (c *Chain) validateTx(tx *types.Tx, view *state.UtxoViewpoint) error {
	result, err := validation.ValidateTx(tx, view, c.hasScript)
	if err != nil {
		return err
	}
	return c.runScripts(verdictKey(tx.ID, result.Context.Signatories()), result)
}

// verdictKey commits to everything a script sees. The tx id covers the
// body and the spent out-refs, whose outputs never change; the signatories
// come from the witnesses, which the id does not cover.
func verdictKey(txID bc.Hash, signatories []bc.KeyHash) bc.Hash {
	h := sha3pool.Get256()
	defer sha3pool.Put256(h)

	h.Write(txID.Bytes())
	for _, signer := range signatories {
		h.Write(signer.Bytes())
	}

	var key [32]byte
	h.Sum(key[:0])
	return bc.NewHash(key)
}

// runScripts evaluates every script the transaction involves, caching the
// verdict under key.
func (c *Chain) runScripts(key bc.Hash, result *validation.Result) error {
	if v, ok := c.cachedVerdict(key); ok {
		return v.err
	}

	start := time.Now()
	var err error
	for _, hash := range result.Scripts {
		s, ok := c.script(hash)
		if !ok {
			err = errors.Wrapf(validation.ErrUnknownScript, "%s", hash)
			break
		}

		if err = s.Validate(result.Context); err != nil {
			err = errors.Wrapf(err, "script %s", hash)
			break
		}
	}

	c.metrics.ScriptSeconds.Observe(time.Since(start).Seconds())
	c.cacheVerdict(key, err)
	return err
}

func (c *Chain) cachedVerdict(key bc.Hash) (*verdict, bool) {
	c.verdictMu.Lock()
	defer c.verdictMu.Unlock()

	v, ok := c.verdicts.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*verdict), true
}

func (c *Chain) cacheVerdict(key bc.Hash, err error) {
	c.verdictMu.Lock()
	defer c.verdictMu.Unlock()

	c.verdicts.Add(key, &verdict{err: err})
}

func (c *Chain) accept(tx *types.Tx) {
	c.metrics.AcceptedTxs.Add(1)
	log.WithFields(log.Fields{"module": logModule, "tx_id": tx.ID.String(), "inputs": len(tx.Inputs), "outputs": len(tx.Outputs)}).Info("transaction accepted")
}

func (c *Chain) reject(tx *types.Tx, err error) error {
	c.metrics.RejectedTxs.With("reason", errors.Cause(err).Error()).Add(1)
	log.WithFields(log.Fields{"module": logModule, "tx_id": tx.ID.String(), "error": err}).Info("transaction rejected")
	return err
}
