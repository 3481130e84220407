package node

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/blockchain/txbuilder"
	"github.com/bytom/escrow/protocol/bc"
	"github.com/bytom/escrow/protocol/bc/types"
)

// ErrUnknownScenario is returned by RunScenario for an unregistered name.
var ErrUnknownScenario = errors.New("unknown scenario")

// Step is one transaction of a scenario and the ledger's verdict on it.
type Step struct {
	Name string
	TxID bc.Hash
	Err  error
}

// Accepted reports whether the ledger applied the transaction.
func (s *Step) Accepted() bool {
	return s.Err == nil
}

type scenarioFunc func(ctx context.Context, n *Node) ([]*Step, error)

var scenarios = map[string]scenarioFunc{
	"direct":       directScenario,
	"mismatch":     mismatchScenario,
	"wrong-closer": wrongCloserScenario,
	"forged":       forgedScenario,
	"fill":         fillScenario,
}

// Scenarios lists the registered scenario names.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunScenario drives the named scenario against the node's ledger. A
// rejected transaction is recorded in its step; the returned error only
// reports a transaction that could not be built.
func (n *Node) RunScenario(ctx context.Context, name string) ([]*Step, error) {
	run, ok := scenarios[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScenario, "%q", name)
	}

	steps, err := run(ctx, n)
	if err != nil {
		return steps, errors.Wrapf(err, "scenario %s", name)
	}

	runID := uuid.New().String()
	for _, step := range steps {
		fields := log.Fields{"module": logModule, "scenario": name, "run_id": runID, "step": step.Name, "tx_id": step.TxID.String()}
		if step.Err != nil {
			log.WithFields(fields).WithField("error", errors.Cause(step.Err)).Info("step rejected")
			continue
		}
		log.WithFields(fields).Info("step accepted")
	}
	return steps, nil
}

// submit records the verdict on tx. Ledger rejections are not errors of
// the scenario; any other failure is.
func (n *Node) submit(ctx context.Context, name string, tx *types.Tx, buildErr error) (*Step, error) {
	if buildErr != nil {
		return nil, errors.Wrapf(buildErr, "build %s", name)
	}
	return &Step{Name: name, TxID: tx.ID, Err: txbuilder.FinalizeTx(ctx, n.chain, tx)}, nil
}

// submitBlock applies txs as one block; every step shares the verdict.
func (n *Node) submitBlock(ctx context.Context, names []string, txs []*types.Tx) []*Step {
	err := n.chain.ApplyBlock(ctx, txs)
	steps := make([]*Step, len(txs))
	for i, tx := range txs {
		steps[i] = &Step{Name: names[i], TxID: tx.ID, Err: err}
	}
	return steps
}

// createOrder builds and submits a single order. It returns the step and
// the order's out-ref.
func (n *Node) createOrder(ctx context.Context, name, maker string, spec txbuilder.OrderSpec) (*Step, bc.OutputRef, error) {
	acc, err := n.Account(maker)
	if err != nil {
		return nil, bc.OutputRef{}, err
	}

	tx, err := n.builder.BuildCreate(acc, spec)
	step, err := n.submit(ctx, name, tx, err)
	if err != nil {
		return nil, bc.OutputRef{}, err
	}
	return step, n.orderOutput(tx, 0), nil
}

// orderOutput returns the out-ref of the i-th order output of tx.
func (n *Node) orderOutput(tx *types.Tx, i int) bc.OutputRef {
	for idx, out := range tx.Outputs {
		if !n.validator.Script().IsOrderAddress(out.Address) {
			continue
		}
		if i == 0 {
			return tx.OutputRef(idx)
		}
		i--
	}
	return bc.OutputRef{}
}

// successorOf finds the output of tx whose datum points back at pred.
func (n *Node) successorOf(tx *types.Tx, pred bc.OutputRef) (bc.OutputRef, error) {
	for idx, out := range tx.Outputs {
		if !n.validator.Script().IsOrderAddress(out.Address) {
			continue
		}

		datum, err := common.DecodeDatum(out.Datum)
		if err != nil {
			continue
		}
		if datum.Tag == pred {
			return tx.OutputRef(idx), nil
		}
	}
	return bc.OutputRef{}, errors.Wrapf(txbuilder.ErrBadAction, "no successor of %s", pred)
}

func (n *Node) closeOrder(ctx context.Context, name, closer string, ref bc.OutputRef) (*Step, error) {
	acc, err := n.Account(closer)
	if err != nil {
		return nil, err
	}

	tx, err := n.builder.BuildClose(acc, ref)
	return n.submit(ctx, name, tx, err)
}

// directScenario: Alice offers 1234 A for 4242 B, Bob offers 4242 B for
// 1234 A. Both orders land in one block, Carol resolves them and each
// owner closes their successor.
func directScenario(ctx context.Context, n *Node) ([]*Step, error) {
	a, b := n.Asset(AssetA), n.Asset(AssetB)
	alice, _ := n.Account(Alice)
	bob, _ := n.Account(Bob)
	carol, _ := n.Account(Carol)

	createA, err := n.builder.BuildCreate(alice, txbuilder.OrderSpec{Offer: bc.Value{a: 1234}, Want: b, Amount: 4242})
	if err != nil {
		return nil, errors.Wrap(err, "build alice create")
	}

	createB, err := n.builder.BuildCreate(bob, txbuilder.OrderSpec{Offer: bc.Value{b: 4242}, Want: a, Amount: 1234})
	if err != nil {
		return nil, errors.Wrap(err, "build bob create")
	}

	steps := n.submitBlock(ctx, []string{"alice create", "bob create"}, []*types.Tx{createA, createB})
	if !steps[0].Accepted() {
		return steps, nil
	}

	orderA, orderB := n.orderOutput(createA, 0), n.orderOutput(createB, 0)
	resolve, err := n.builder.BuildResolve(carol, txbuilder.Pair{A: orderA, B: orderB})
	step, err := n.submit(ctx, "carol resolve", resolve, err)
	if err != nil {
		return steps, err
	}

	steps = append(steps, step)
	if !step.Accepted() {
		return steps, nil
	}

	for _, c := range []struct {
		name, owner string
		pred        bc.OutputRef
	}{
		{name: "alice close", owner: Alice, pred: orderA},
		{name: "bob close", owner: Bob, pred: orderB},
	} {
		successor, err := n.successorOf(resolve, c.pred)
		if err != nil {
			return steps, err
		}

		step, err := n.closeOrder(ctx, c.name, c.owner, successor)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// mismatchScenario: Alice offers 4300 A while Bob wants exactly 4242 A.
// The resolve is rejected and both owners take their orders back.
func mismatchScenario(ctx context.Context, n *Node) ([]*Step, error) {
	a, b := n.Asset(AssetA), n.Asset(AssetB)
	carol, _ := n.Account(Carol)

	steps := []*Step{}
	createA, orderA, err := n.createOrder(ctx, "alice create", Alice, txbuilder.OrderSpec{Offer: bc.Value{a: 4300}, Want: b, Amount: 4242})
	if err != nil {
		return steps, err
	}

	createB, orderB, err := n.createOrder(ctx, "bob create", Bob, txbuilder.OrderSpec{Offer: bc.Value{b: 4242}, Want: a, Amount: 4242})
	if err != nil {
		return steps, err
	}

	steps = append(steps, createA, createB)
	resolve, err := n.builder.BuildResolve(carol, txbuilder.Pair{A: orderA, B: orderB})
	step, err := n.submit(ctx, "carol resolve", resolve, err)
	if err != nil {
		return steps, err
	}
	steps = append(steps, step)

	for _, c := range []struct {
		name, owner string
		ref         bc.OutputRef
	}{
		{name: "alice close", owner: Alice, ref: orderA},
		{name: "bob close", owner: Bob, ref: orderB},
	} {
		step, err := n.closeOrder(ctx, c.name, c.owner, c.ref)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// wrongCloserScenario: Carol tries to close Alice's order, then Alice does.
func wrongCloserScenario(ctx context.Context, n *Node) ([]*Step, error) {
	a, b := n.Asset(AssetA), n.Asset(AssetB)

	create, ref, err := n.createOrder(ctx, "alice create", Alice, txbuilder.OrderSpec{Offer: bc.Value{a: 1234}, Want: b, Amount: 4242})
	if err != nil {
		return nil, err
	}

	steps := []*Step{create}
	for _, c := range []struct{ name, closer string }{
		{name: "carol close", closer: Carol},
		{name: "alice close", closer: Alice},
	} {
		step, err := n.closeOrder(ctx, c.name, c.closer, ref)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// forgedScenario: Carol pays an order shaped output without a validity
// token to the order address. Neither a resolve against a genuine order
// nor a close can spend it.
func forgedScenario(ctx context.Context, n *Node) ([]*Step, error) {
	a, b := n.Asset(AssetA), n.Asset(AssetB)
	carol, _ := n.Account(Carol)

	datum, err := common.EncodeDatum(&common.Datum{
		Owner:     carol.KeyHash,
		Amount:    1234,
		PolicyID:  a.PolicyID,
		AssetName: a.Name,
		Tag:       common.OriginTag(0),
	})
	if err != nil {
		return nil, err
	}

	forgedOut := types.NewTxOutput(n.validator.Script().Address(), bc.Value{bc.ADA: n.config.Ledger.MinAda, b: 4242}, datum)
	forgeTx, err := n.builder.BuildPayment(carol, forgedOut)
	step, err := n.submit(ctx, "carol forge", forgeTx, err)
	if err != nil {
		return nil, err
	}

	steps := []*Step{step}
	if !step.Accepted() {
		return steps, nil
	}

	create, genuine, err := n.createOrder(ctx, "alice create", Alice, txbuilder.OrderSpec{Offer: bc.Value{a: 1234}, Want: b, Amount: 4242})
	if err != nil {
		return steps, err
	}
	steps = append(steps, create)

	forged := n.orderOutput(forgeTx, 0)
	resolve, err := n.builder.BuildResolve(carol, txbuilder.Pair{A: genuine, B: forged})
	if step, err = n.submit(ctx, "carol resolve forged", resolve, err); err != nil {
		return steps, err
	}
	steps = append(steps, step)

	for _, c := range []struct {
		name, closer string
		ref          bc.OutputRef
	}{
		{name: "carol close forged", closer: Carol, ref: forged},
		{name: "alice close", closer: Alice, ref: genuine},
	} {
		step, err := n.closeOrder(ctx, c.name, c.closer, c.ref)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// fillScenario: Carol fills Alice's order from her own funds and Alice
// collects the proceeds.
func fillScenario(ctx context.Context, n *Node) ([]*Step, error) {
	a, b := n.Asset(AssetA), n.Asset(AssetB)
	carol, _ := n.Account(Carol)

	create, ref, err := n.createOrder(ctx, "alice create", Alice, txbuilder.OrderSpec{Offer: bc.Value{a: 1234}, Want: b, Amount: 4242})
	if err != nil {
		return nil, err
	}

	steps := []*Step{create}
	fill, err := n.builder.BuildFill(carol, ref)
	step, err := n.submit(ctx, "carol fill", fill, err)
	if err != nil {
		return steps, err
	}

	steps = append(steps, step)
	if !step.Accepted() {
		return steps, nil
	}

	successor, err := n.successorOf(fill, ref)
	if err != nil {
		return steps, err
	}

	if step, err = n.closeOrder(ctx, "alice close", Alice, successor); err != nil {
		return steps, err
	}
	return append(steps, step), nil
}
