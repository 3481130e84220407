package txbuilder

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/protocol/bc/types"
)

// Submitter accepts signed transactions.
type Submitter interface {
	SubmitTx(*types.Tx) error
}

// FinalizeTx submits a signed transaction to the ledger.
func FinalizeTx(ctx context.Context, c Submitter, tx *types.Tx) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.SubmitTx(tx); err != nil {
		return errors.Wrapf(err, "submit %s", tx.ID)
	}
	return nil
}
