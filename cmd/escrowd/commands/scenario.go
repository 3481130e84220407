package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bytom/escrow/node"
	"github.com/bytom/escrow/protocol"
)

var scenarioCmd = &cobra.Command{
	Use:       fmt.Sprintf("scenario [%s]", strings.Join(node.Scenarios(), "|")),
	Short:     "Run an order scenario against the persistent ledger",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: node.Scenarios(),
	RunE:      runScenario,
}

func init() {
	RootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	n, err := node.NewNode(config, protocol.PrometheusMetrics("escrow"))
	if err != nil {
		return err
	}
	defer n.Close()

	steps, err := n.RunScenario(context.Background(), args[0])
	for _, step := range steps {
		verdict := "accepted"
		if step.Err != nil {
			verdict = "rejected: " + errors.Cause(step.Err).Error()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s  %s\n", step.Name, step.TxID, verdict)
	}
	return err
}
