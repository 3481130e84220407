package txbuilder

import (
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytom/escrow/account"
	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/contract"
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
	"github.com/bytom/escrow/testutil"
)

var (
	alice = account.NewAccount("alice", testutil.TestSeed("alice"))
	bob   = account.NewAccount("bob", testutil.TestSeed("bob"))
	carol = account.NewAccount("carol", testutil.TestSeed("carol"))

	assetA = bc.NewAssetID(bc.NewScriptHash([]byte("a")), []byte("A"))
	assetB = bc.NewAssetID(bc.NewScriptHash([]byte("b")), []byte("B"))
)

var errNotFound = errors.New("not found")

type mockLedger struct {
	utxos map[bc.OutputRef]*storage.UtxoEntry
	next  byte
}

func newMockLedger() *mockLedger {
	return &mockLedger{utxos: map[bc.OutputRef]*storage.UtxoEntry{}}
}

func (l *mockLedger) add(out *types.TxOutput) bc.OutputRef {
	l.next++
	ref := bc.NewOutputRef(bc.Hash{l.next}, 0)
	l.utxos[ref] = storage.NewUtxoEntry(ref, out, false)
	return ref
}

func (l *mockLedger) GetUtxo(ref bc.OutputRef) (*storage.UtxoEntry, error) {
	entry, ok := l.utxos[ref]
	if !ok {
		return nil, errNotFound
	}
	return entry, nil
}

func (l *mockLedger) ListUtxos(address bc.Address) ([]*storage.UtxoEntry, error) {
	utxos := []*storage.UtxoEntry{}
	for _, entry := range l.utxos {
		if entry.Output.Address == address {
			utxos = append(utxos, entry)
		}
	}
	sort.Slice(utxos, func(i, j int) bool { return utxos[i].OutRef.Less(utxos[j].OutRef) })
	return utxos, nil
}

// addOrder places an order created by owner directly in the ledger.
func (l *mockLedger) addOrder(t *testing.T, script *contract.Script, owner *account.Account, offer bc.Value, want bc.AssetID, amount int64) bc.OutputRef {
	t.Helper()
	datum, err := common.EncodeDatum(&common.Datum{Owner: owner.KeyHash, Amount: amount, PolicyID: want.PolicyID, AssetName: want.Name, Tag: common.OriginTag(0)})
	require.NoError(t, err)

	value, err := offer.Add(bc.Value{bc.ADA: 2000, script.ValidityToken(): 1})
	require.NoError(t, err)
	return l.add(types.NewTxOutput(script.Address(), value, datum))
}

func outputsTo(tx *types.Tx, address bc.Address) []*types.TxOutput {
	outs := []*types.TxOutput{}
	for _, out := range tx.Outputs {
		if out.Address == address {
			outs = append(outs, out)
		}
	}
	return outs
}

func TestFund(t *testing.T) {
	cases := []struct {
		desc       string
		utxos      []bc.Value
		pay        bc.Value
		wantInputs int
		wantChange bc.Value
		wantErr    error
	}{
		{
			desc:       "native asset utxo covers ada too",
			utxos:      []bc.Value{{bc.ADA: 100}, {bc.ADA: 50, assetA: 10}},
			pay:        bc.Value{bc.ADA: 20, assetA: 5},
			wantInputs: 1,
			wantChange: bc.Value{bc.ADA: 28, assetA: 5},
		},
		{
			desc:       "ada topped up",
			utxos:      []bc.Value{{bc.ADA: 100}, {bc.ADA: 5, assetA: 10}},
			pay:        bc.Value{bc.ADA: 20, assetA: 10},
			wantInputs: 2,
			wantChange: bc.Value{bc.ADA: 83},
		},
		{
			desc:    "insufficient",
			utxos:   []bc.Value{{bc.ADA: 100}},
			pay:     bc.Value{bc.ADA: 20, assetB: 1},
			wantErr: account.ErrInsufficient,
		},
	}

	for _, c := range cases {
		ledger := newMockLedger()
		for _, v := range c.utxos {
			ledger.add(types.NewTxOutput(alice.Address(), v, nil))
		}

		tpl := NewTemplateBuilder()
		tpl.AddOutput(types.NewTxOutput(bob.Address(), c.pay, nil))
		err := tpl.Fund(ledger, alice, 2)
		if errors.Cause(err) != c.wantErr {
			t.Errorf("case %q: got error %v, want %v", c.desc, err, c.wantErr)
			continue
		}
		if err != nil {
			continue
		}

		tx, err := tpl.Build(alice)
		require.NoError(t, err)
		assert.Len(t, tx.Inputs, c.wantInputs, c.desc)

		change := outputsTo(tx, alice.Address())
		require.Len(t, change, 1, c.desc)
		assert.True(t, c.wantChange.Equal(change[0].Value), "case %q: got change %v, want %v", c.desc, change[0].Value, c.wantChange)
	}
}

func TestBuildCreate(t *testing.T) {
	ledger := newMockLedger()
	ledger.add(types.NewTxOutput(alice.Address(), bc.Value{bc.ADA: 100000, assetA: 5000}, nil))
	script := contract.NewScript(contract.DefaultTokenName)
	b := NewBuilder(ledger, script, 200, 2000)

	tx, err := b.BuildCreate(alice,
		OrderSpec{Offer: bc.Value{assetA: 1234}, Want: assetB, Amount: 4242},
		OrderSpec{Offer: bc.Value{assetA: 10}, Want: assetB, Amount: 20},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tx.Mint[script.ValidityToken()])
	assert.Equal(t, alice.KeyHash, tx.Signatories()[0])

	orders := outputsTo(tx, script.Address())
	require.Len(t, orders, 2)
	for i, out := range orders {
		datum, err := common.DecodeDatum(out.Datum)
		require.NoError(t, err)
		assert.Equal(t, common.OriginTag(uint64(i)), datum.Tag)
		assert.Equal(t, alice.KeyHash, datum.Owner)
		assert.Equal(t, assetB, datum.RequestedAsset())
		assert.Equal(t, uint64(1), out.Quantity(script.ValidityToken()))
		assert.Equal(t, uint64(2000), out.Value.Ada())
	}

	_, err = b.BuildCreate(alice)
	assert.Equal(t, ErrBadAction, errors.Cause(err))
}

func TestBuildResolve(t *testing.T) {
	ledger := newMockLedger()
	script := contract.NewScript(contract.DefaultTokenName)
	ledger.add(types.NewTxOutput(carol.Address(), bc.NewAdaValue(100000), nil))
	refA := ledger.addOrder(t, script, alice, bc.Value{assetA: 1234}, assetB, 4242)
	refB := ledger.addOrder(t, script, bob, bc.Value{assetB: 4242}, assetA, 1234)
	b := NewBuilder(ledger, script, 200, 2000)

	// the pair is named in reverse out-ref order on purpose
	tx, err := b.BuildResolve(carol, Pair{A: refB, B: refA})
	require.NoError(t, err)

	// positions count script inputs only, in canonical order
	position := map[bc.OutputRef]int64{}
	matches := map[bc.OutputRef]int64{}
	for _, in := range tx.Inputs {
		if in.OutRef != refA && in.OutRef != refB {
			continue
		}

		r, err := contract.DecodeRedeemer(in.Redeemer)
		require.NoError(t, err)
		resolve, ok := r.(contract.ResolveRedeemer)
		require.True(t, ok, "got %v", r)
		matches[in.OutRef] = resolve.Match
		position[in.OutRef] = int64(len(position))
	}

	assert.Equal(t, position[refB], matches[refA])
	assert.Equal(t, position[refA], matches[refB])

	wants := map[bc.OutputRef]bc.Value{
		refA: {bc.ADA: 2000, script.ValidityToken(): 1, assetB: 4242},
		refB: {bc.ADA: 2000, script.ValidityToken(): 1, assetA: 1234},
	}
	for _, out := range outputsTo(tx, script.Address()) {
		datum, err := common.DecodeDatum(out.Datum)
		require.NoError(t, err)
		want, ok := wants[datum.Tag]
		require.True(t, ok, "successor tagged %s", datum.Tag)
		assert.True(t, want.Equal(out.Value), "got %v, want %v", out.Value, want)
		delete(wants, datum.Tag)
	}
	assert.Empty(t, wants)

	cases := []struct {
		desc  string
		pairs []Pair
	}{
		{desc: "no pair"},
		{desc: "self pair", pairs: []Pair{{A: refA, B: refA}}},
		{desc: "order paired twice", pairs: []Pair{{A: refA, B: refB}, {A: refB, B: refA}}},
	}
	for _, c := range cases {
		_, err := b.BuildResolve(carol, c.pairs...)
		assert.Equal(t, ErrBadAction, errors.Cause(err), c.desc)
	}
}

func TestBuildFillAndClose(t *testing.T) {
	ledger := newMockLedger()
	script := contract.NewScript(contract.DefaultTokenName)
	ledger.add(types.NewTxOutput(carol.Address(), bc.Value{bc.ADA: 100000, assetB: 5000}, nil))
	ledger.add(types.NewTxOutput(alice.Address(), bc.NewAdaValue(100000), nil))
	ref := ledger.addOrder(t, script, alice, bc.Value{assetA: 1234}, assetB, 4242)
	b := NewBuilder(ledger, script, 200, 2000)

	fill, err := b.BuildFill(carol, ref)
	require.NoError(t, err)

	for _, in := range fill.Inputs {
		if in.OutRef != ref {
			assert.Empty(t, in.Redeemer)
			continue
		}

		r, err := contract.DecodeRedeemer(in.Redeemer)
		require.NoError(t, err)
		assert.Equal(t, contract.FillRedeemer{}, r)
	}

	change := outputsTo(fill, carol.Address())
	require.Len(t, change, 1)
	assert.Equal(t, uint64(1234), change[0].Quantity(assetA))
	assert.Equal(t, uint64(5000-4242), change[0].Quantity(assetB))

	closeTx, err := b.BuildClose(alice, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), closeTx.Mint[script.ValidityToken()])
	assert.Equal(t, []bc.KeyHash{alice.KeyHash}, closeTx.RequiredSigners)
	require.Len(t, closeTx.Inputs, 1, "the order's ada covers the fee")

	released := outputsTo(closeTx, alice.Address())
	require.Len(t, released, 1)
	assert.True(t, bc.Value{bc.ADA: 1800, assetA: 1234}.Equal(released[0].Value), "got %v", released[0].Value)

	_, err = b.BuildClose(alice)
	assert.Equal(t, ErrBadAction, errors.Cause(err))
}
