package validation

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/crypto/ed25519"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
)

// validate transaction error
var (
	ErrEmptyInputs     = errors.New("transaction has no inputs")
	ErrDuplicateInput  = errors.New("output spent twice in one transaction")
	ErrMismatchedTxID  = errors.New("transaction id does not match its body")
	ErrBadSignature    = errors.New("invalid signature witness")
	ErrMissingWitness  = errors.New("missing signature witness")
	ErrMissingRedeemer = errors.New("script input without redeemer")
	ErrUnknownScript   = errors.New("no validator registered for script")
	ErrUnbalanced      = errors.New("transaction does not balance")
)

// Result is the outcome of the structural checks: the context scripts
// will see and the scripts that must approve the transaction.
type Result struct {
	Context *types.ScriptContext
	Scripts []bc.ScriptHash
}

// ValidateTx applies the structural ledger rules to tx against view. The
// scripts named by the result still have to approve the transaction.
func ValidateTx(tx *types.Tx, view *state.UtxoViewpoint, knownScript func(bc.ScriptHash) bool) (*Result, error) {
	if len(tx.Inputs) == 0 {
		return nil, ErrEmptyInputs
	}

	if id, err := tx.TxData.Hash(); err != nil {
		return nil, err
	} else if id != tx.ID {
		return nil, errors.Wrapf(ErrMismatchedTxID, "declared %s, computed %s", tx.ID, id)
	}

	seen := make(map[bc.OutputRef]bool, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if seen[in.OutRef] {
			return nil, errors.Wrapf(ErrDuplicateInput, "input %s", in.OutRef)
		}
		seen[in.OutRef] = true
	}

	spent, err := view.Spent(tx)
	if err != nil {
		return nil, err
	}

	signers, err := checkWitnesses(tx)
	if err != nil {
		return nil, err
	}

	scripts := map[bc.ScriptHash]bool{}
	for _, in := range tx.Inputs {
		address := spent[in.OutRef].Address
		if keyHash, ok := address.KeyHash(); ok {
			if !signers[keyHash] {
				return nil, errors.Wrapf(ErrMissingWitness, "input %s locked by %s", in.OutRef, keyHash)
			}
			continue
		}

		scriptHash, _ := address.ScriptHash()
		if len(in.Redeemer) == 0 {
			return nil, errors.Wrapf(ErrMissingRedeemer, "input %s", in.OutRef)
		}

		if !knownScript(scriptHash) {
			return nil, errors.Wrapf(ErrUnknownScript, "input %s locked by %s", in.OutRef, scriptHash)
		}
		scripts[scriptHash] = true
	}

	for _, signer := range tx.RequiredSigners {
		if !signers[signer] {
			return nil, errors.Wrapf(ErrMissingWitness, "required signer %s", signer)
		}
	}

	for _, policy := range tx.Mint.Policies() {
		if !knownScript(policy) {
			return nil, errors.Wrapf(ErrUnknownScript, "minting policy %s", policy)
		}
		scripts[policy] = true
	}

	if err := checkBalance(tx, spent); err != nil {
		return nil, err
	}

	signatories := make([]bc.KeyHash, 0, len(signers))
	for signer := range signers {
		signatories = append(signatories, signer)
	}
	sort.Slice(signatories, func(i, j int) bool { return signatories[i].String() < signatories[j].String() })

	result := &Result{Context: types.NewScriptContext(tx, spent, signatories)}
	for script := range scripts {
		result.Scripts = append(result.Scripts, script)
	}
	sort.Slice(result.Scripts, func(i, j int) bool { return result.Scripts[i].String() < result.Scripts[j].String() })
	return result, nil
}

func checkWitnesses(tx *types.Tx) (map[bc.KeyHash]bool, error) {
	signers := make(map[bc.KeyHash]bool, len(tx.Witnesses))
	for i, w := range tx.Witnesses {
		if !ed25519.Verify(w.PubKey, tx.ID.Bytes(), w.Signature) {
			return nil, errors.Wrapf(ErrBadSignature, "witness %d", i)
		}
		signers[bc.NewKeyHash(w.PubKey)] = true
	}
	return signers, nil
}

// checkBalance requires inputs plus mint to equal outputs for every native
// asset. Ada may only shrink; the difference is the fee.
func checkBalance(tx *types.Tx, spent map[bc.OutputRef]*types.TxOutput) error {
	in, out := bc.Balance{}, bc.Balance{}
	for _, output := range spent {
		in.AddValue(output.Value)
	}

	for _, output := range tx.Outputs {
		out.AddValue(output.Value)
	}

	for asset, q := range tx.Mint {
		if asset.IsADA() && q != 0 {
			return errors.Wrap(ErrUnbalanced, "ada cannot be minted")
		}

		if q > 0 {
			in.Add(asset, uint64(q))
		} else if q < 0 {
			out.Add(asset, uint64(-q))
		}
	}

	if in.Get(bc.ADA).Lt(out.Get(bc.ADA)) {
		return errors.Wrapf(ErrUnbalanced, "ada in %s, out %s", in.Get(bc.ADA), out.Get(bc.ADA))
	}

	delete(in, bc.ADA)
	delete(out, bc.ADA)
	if !in.Equal(out) {
		for _, asset := range append(in.Assets(), out.Assets()...) {
			if !in.Get(asset).Eq(out.Get(asset)) {
				return errors.Wrapf(ErrUnbalanced, "%s in %s, out %s", asset, in.Get(asset), out.Get(asset))
			}
		}
	}
	return nil
}
