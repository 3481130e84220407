package validation

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/bytom/escrow/account"
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/protocol/state"
	"github.com/bytom/escrow/testutil"
)

var (
	alice = account.NewAccount("alice", testutil.TestSeed("alice"))
	bob   = account.NewAccount("bob", testutil.TestSeed("bob"))

	knownHash   = bc.NewScriptHash([]byte("known"))
	unknownHash = bc.NewScriptHash([]byte("unknown"))
	assetX      = bc.NewAssetID(bc.NewScriptHash([]byte("policy-x")), []byte("X"))
	knownAsset  = bc.NewAssetID(knownHash, []byte("val"))

	refAlice   = bc.NewOutputRef(bc.Hash{1}, 0)
	refScript  = bc.NewOutputRef(bc.Hash{2}, 0)
	refUnknown = bc.NewOutputRef(bc.Hash{3}, 0)
	refMissing = bc.NewOutputRef(bc.Hash{4}, 0)
)

func mockView() *state.UtxoViewpoint {
	view := state.NewUtxoViewpoint()
	for ref, out := range map[bc.OutputRef]*types.TxOutput{
		refAlice:   types.NewTxOutput(alice.Address(), bc.Value{bc.ADA: 1000, assetX: 50}, nil),
		refScript:  types.NewTxOutput(bc.NewScriptAddress(knownHash), bc.Value{bc.ADA: 10, knownAsset: 1}, []byte{0x80}),
		refUnknown: types.NewTxOutput(bc.NewScriptAddress(unknownHash), bc.NewAdaValue(10), nil),
	} {
		view.Entries[ref] = storage.NewUtxoEntry(ref, out, false)
	}
	return view
}

func isKnown(hash bc.ScriptHash) bool {
	return hash == knownHash
}

func toBob(value bc.Value) *types.TxOutput {
	return types.NewTxOutput(bob.Address(), value, nil)
}

func TestValidateTx(t *testing.T) {
	cases := []struct {
		desc        string
		data        types.TxData
		signers     []*account.Account
		tamper      func(*types.Tx)
		known       func(bc.ScriptHash) bool
		wantErr     error
		wantScripts int
	}{
		{
			desc:    "payment",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 50})}},
			signers: []*account.Account{alice},
		},
		{
			desc:    "no inputs",
			data:    types.TxData{Outputs: []*types.TxOutput{toBob(bc.NewAdaValue(1))}},
			wantErr: ErrEmptyInputs,
		},
		{
			desc:    "body changed after signing",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 50})}},
			signers: []*account.Account{alice},
			tamper:  func(tx *types.Tx) { tx.Outputs[0].Value[bc.ADA] = 999 },
			wantErr: ErrMismatchedTxID,
		},
		{
			desc:    "duplicate input",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil), types.NewTxInput(refAlice, nil)}},
			signers: []*account.Account{alice},
			wantErr: ErrDuplicateInput,
		},
		{
			desc:    "missing utxo",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refMissing, nil)}},
			signers: []*account.Account{alice},
			wantErr: state.ErrMissingUtxo,
		},
		{
			desc:    "key input without witness",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 50})}},
			signers: []*account.Account{bob},
			wantErr: ErrMissingWitness,
		},
		{
			desc:    "bad signature",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 50})}},
			signers: []*account.Account{alice},
			tamper:  func(tx *types.Tx) { tx.Witnesses[0].Signature[0] ^= 0xff },
			wantErr: ErrBadSignature,
		},
		{
			desc:    "script input without redeemer",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refScript, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 5, knownAsset: 1})}},
			wantErr: ErrMissingRedeemer,
		},
		{
			desc:    "unregistered script",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refUnknown, []byte{0x01})}, Outputs: []*types.TxOutput{toBob(bc.NewAdaValue(5))}},
			wantErr: ErrUnknownScript,
		},
		{
			desc:        "script input",
			data:        types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refScript, []byte{0x01})}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 5, knownAsset: 1})}},
			wantScripts: 1,
		},
		{
			desc: "required signer missing",
			data: types.TxData{
				Inputs:          []*types.TxInput{types.NewTxInput(refAlice, nil)},
				Outputs:         []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 50})},
				RequiredSigners: []bc.KeyHash{bob.KeyHash},
			},
			signers: []*account.Account{alice},
			wantErr: ErrMissingWitness,
		},
		{
			desc: "burn under registered policy",
			data: types.TxData{
				Inputs:  []*types.TxInput{types.NewTxInput(refScript, []byte{0x01})},
				Outputs: []*types.TxOutput{toBob(bc.NewAdaValue(5))},
				Mint:    types.Mint{knownAsset: -1},
			},
			wantScripts: 1,
		},
		{
			desc: "mint under unregistered policy",
			data: types.TxData{
				Inputs:  []*types.TxInput{types.NewTxInput(refAlice, nil)},
				Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 51})},
				Mint:    types.Mint{assetX: 1},
			},
			signers: []*account.Account{alice},
			wantErr: ErrUnknownScript,
		},
		{
			desc:    "ada created",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 1001, assetX: 50})}},
			signers: []*account.Account{alice},
			wantErr: ErrUnbalanced,
		},
		{
			desc:    "native asset lost",
			data:    types.TxData{Inputs: []*types.TxInput{types.NewTxInput(refAlice, nil)}, Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 990, assetX: 49})}},
			signers: []*account.Account{alice},
			wantErr: ErrUnbalanced,
		},
		{
			desc: "ada minted",
			data: types.TxData{
				Inputs:  []*types.TxInput{types.NewTxInput(refAlice, nil)},
				Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 1010, assetX: 50})},
				Mint:    types.Mint{bc.ADA: 10},
			},
			signers: []*account.Account{alice},
			known:   func(bc.ScriptHash) bool { return true },
			wantErr: ErrUnbalanced,
		},
	}

	for _, c := range cases {
		tx, err := types.NewTx(c.data)
		if err != nil {
			t.Fatalf("case %q: %v", c.desc, err)
		}

		for _, signer := range c.signers {
			signer.Sign(tx)
		}
		if c.tamper != nil {
			c.tamper(tx)
		}

		known := isKnown
		if c.known != nil {
			known = c.known
		}

		result, err := ValidateTx(tx, mockView(), known)
		if errors.Cause(err) != c.wantErr {
			t.Errorf("case %q: got error %v, want %v", c.desc, err, c.wantErr)
			continue
		}

		if err == nil && len(result.Scripts) != c.wantScripts {
			t.Errorf("case %q: got scripts %s, want %d", c.desc, spew.Sdump(result.Scripts), c.wantScripts)
		}
	}
}

func TestValidateTxContext(t *testing.T) {
	tx, err := types.NewTx(types.TxData{
		Inputs:  []*types.TxInput{types.NewTxInput(refScript, []byte{0x01}), types.NewTxInput(refAlice, nil)},
		Outputs: []*types.TxOutput{toBob(bc.Value{bc.ADA: 1000, assetX: 50, knownAsset: 1})},
	})
	if err != nil {
		t.Fatal(err)
	}
	alice.Sign(tx)
	bob.Sign(tx)

	result, err := ValidateTx(tx, mockView(), isKnown)
	if err != nil {
		t.Fatal(err)
	}

	ctx := result.Context
	if ctx.ID() != tx.ID {
		t.Errorf("got id %s, want %s", ctx.ID(), tx.ID)
	}

	if len(ctx.Inputs()) != 2 || ctx.Inputs()[0].OutRef != refAlice || ctx.Inputs()[1].OutRef != refScript {
		t.Errorf("inputs not resolved in out-ref order: %s", spew.Sdump(ctx.Inputs()))
	}

	if len(ctx.Signatories()) != 2 {
		t.Errorf("got signatories %v, want alice and bob", ctx.Signatories())
	}
}
