package txbuilder

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bytom/escrow/account"
	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/contract"
	"github.com/bytom/escrow/database/storage"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// ErrBadAction is returned for requests that cannot be turned into a transaction.
var ErrBadAction = errors.New("invalid action")

// OrderSpec describes an order to create.
type OrderSpec struct {
	Offer  bc.Value
	Want   bc.AssetID
	Amount int64
}

// Pair names two orders to resolve against each other.
type Pair struct {
	A, B bc.OutputRef
}

// Builder turns order actions into signed transactions.
type Builder struct {
	ledger Ledger
	script *contract.Script
	fee    uint64
	minAda uint64
}

// NewBuilder returns a builder paying fee per transaction and locking
// minAda with every order output.
func NewBuilder(ledger Ledger, script *contract.Script, fee, minAda uint64) *Builder {
	return &Builder{ledger: ledger, script: script, fee: fee, minAda: minAda}
}

func (b *Builder) loadOrder(ref bc.OutputRef) (*storage.UtxoEntry, *common.Datum, error) {
	entry, err := b.ledger.GetUtxo(ref)
	if err != nil {
		return nil, nil, err
	}

	if !b.script.IsOrderAddress(entry.Output.Address) {
		return nil, nil, errors.Wrapf(ErrBadAction, "%s is not at the order address", ref)
	}

	datum, err := common.DecodeDatum(entry.Output.Datum)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "order %s", ref)
	}
	return entry, datum, nil
}

// successorOutput replaces the predecessor's holdings with the requested
// amount. The validity token quantity is carried over as found.
func (b *Builder) successorOutput(entry *storage.UtxoEntry, datum *common.Datum) (*types.TxOutput, error) {
	token := b.script.ValidityToken()
	value := bc.Value{
		bc.ADA:                 entry.Output.Value.Ada(),
		token:                  entry.Output.Value.Quantity(token),
		datum.RequestedAsset(): uint64(datum.Amount),
	}

	encoded, err := common.EncodeDatum(datum.WithTag(entry.OutRef))
	if err != nil {
		return nil, err
	}
	return types.NewTxOutput(b.script.Address(), value, encoded), nil
}

// BuildCreate locks one order output per spec, minting a validity token for each.
func (b *Builder) BuildCreate(maker *account.Account, specs ...OrderSpec) (*types.Tx, error) {
	if len(specs) == 0 {
		return nil, errors.Wrap(ErrBadAction, "no order to create")
	}

	token := b.script.ValidityToken()
	tpl := NewTemplateBuilder()
	for i, spec := range specs {
		datum := &common.Datum{
			Owner:     maker.KeyHash,
			Amount:    spec.Amount,
			PolicyID:  spec.Want.PolicyID,
			AssetName: spec.Want.Name,
			Tag:       common.OriginTag(uint64(i)),
		}

		encoded, err := common.EncodeDatum(datum)
		if err != nil {
			return nil, err
		}

		value, err := spec.Offer.Add(bc.Value{bc.ADA: b.minAda, token: 1})
		if err != nil {
			return nil, err
		}
		tpl.AddOutput(types.NewTxOutput(b.script.Address(), value, encoded))
	}

	tpl.AddMint(token, int64(len(specs)))
	if err := tpl.Fund(b.ledger, maker, b.fee); err != nil {
		return nil, err
	}
	return tpl.Build(maker)
}

// BuildResolve settles each pair against each other. The taker pays the fee
// and receives whatever the pairs leave over.
func (b *Builder) BuildResolve(taker *account.Account, pairs ...Pair) (*types.Tx, error) {
	if len(pairs) == 0 {
		return nil, errors.Wrap(ErrBadAction, "no pair to resolve")
	}

	refs := []bc.OutputRef{}
	counterpart := map[bc.OutputRef]bc.OutputRef{}
	for _, p := range pairs {
		if p.A == p.B {
			return nil, errors.Wrapf(ErrBadAction, "%s paired with itself", p.A)
		}

		for _, ref := range []bc.OutputRef{p.A, p.B} {
			if _, ok := counterpart[ref]; ok {
				return nil, errors.Wrapf(ErrBadAction, "%s paired twice", ref)
			}
		}

		counterpart[p.A], counterpart[p.B] = p.B, p.A
		refs = append(refs, p.A, p.B)
	}

	// positions follow the ledger's canonical input order
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	position := make(map[bc.OutputRef]int64, len(refs))
	for i, ref := range refs {
		position[ref] = int64(i)
	}

	tpl := NewTemplateBuilder()
	for _, ref := range refs {
		entry, datum, err := b.loadOrder(ref)
		if err != nil {
			return nil, err
		}

		redeemer, err := contract.EncodeRedeemer(contract.ResolveRedeemer{Match: position[counterpart[ref]]})
		if err != nil {
			return nil, err
		}

		successor, err := b.successorOutput(entry, datum)
		if err != nil {
			return nil, err
		}

		tpl.AddInput(entry, redeemer)
		tpl.AddOutput(successor)
	}

	if err := tpl.Fund(b.ledger, taker, b.fee); err != nil {
		return nil, err
	}
	return tpl.Build(taker)
}

// BuildFill settles one order against the taker's own funds. The taker
// receives the order's offered assets.
func (b *Builder) BuildFill(taker *account.Account, ref bc.OutputRef) (*types.Tx, error) {
	entry, datum, err := b.loadOrder(ref)
	if err != nil {
		return nil, err
	}

	redeemer, err := contract.EncodeRedeemer(contract.FillRedeemer{})
	if err != nil {
		return nil, err
	}

	successor, err := b.successorOutput(entry, datum)
	if err != nil {
		return nil, err
	}

	tpl := NewTemplateBuilder()
	tpl.AddInput(entry, redeemer)
	tpl.AddOutput(successor)
	if err := tpl.Fund(b.ledger, taker, b.fee); err != nil {
		return nil, err
	}
	return tpl.Build(taker)
}

// BuildClose spends the orders with Close redeemers, burns the validity
// tokens they hold and releases the rest to closer.
func (b *Builder) BuildClose(closer *account.Account, refs ...bc.OutputRef) (*types.Tx, error) {
	if len(refs) == 0 {
		return nil, errors.Wrap(ErrBadAction, "no order to close")
	}

	redeemer, err := contract.EncodeRedeemer(contract.CloseRedeemer{})
	if err != nil {
		return nil, err
	}

	token := b.script.ValidityToken()
	tpl := NewTemplateBuilder()
	var burn int64
	for _, ref := range refs {
		entry, err := b.ledger.GetUtxo(ref)
		if err != nil {
			return nil, err
		}

		tpl.AddInput(entry, redeemer)
		burn += int64(entry.Output.Quantity(token))
	}

	tpl.AddMint(token, -burn)
	tpl.RequireSigner(closer.KeyHash)
	if err := tpl.Fund(b.ledger, closer, b.fee); err != nil {
		return nil, err
	}
	return tpl.Build(closer)
}

// BuildPayment sends outputs funded by payer.
func (b *Builder) BuildPayment(payer *account.Account, outputs ...*types.TxOutput) (*types.Tx, error) {
	tpl := NewTemplateBuilder()
	for _, out := range outputs {
		tpl.AddOutput(out)
	}

	if err := tpl.Fund(b.ledger, payer, b.fee); err != nil {
		return nil, err
	}
	return tpl.Build(payer)
}
