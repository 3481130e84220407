package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytom/escrow/node"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the authentic open orders at the order address",
	Args:  cobra.NoArgs,
	RunE:  listOrders,
}

func init() {
	RootCmd.AddCommand(ordersCmd)
}

func listOrders(cmd *cobra.Command, args []string) error {
	n, err := node.NewNode(config, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	orders, err := n.OrderCore().OpenOrders()
	if err != nil {
		return err
	}

	token := n.Validator().Script().ValidityToken()
	out := cmd.OutOrStdout()
	for _, o := range orders {
		state := "open"
		if !o.Datum.IsOrigin() {
			state = "settled"
		}
		fmt.Fprintf(out, "%s  owner=%s  offers=%v  wants=%d %s  %s\n", o.OutRef, n.OwnerAlias(o.Datum), o.Value.Without(token), o.Datum.Amount, o.Datum.RequestedAsset(), state)
	}

	fmt.Fprintf(out, "%d orders at %s\n", len(orders), n.Validator().Script().Address())
	return nil
}
