package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/crucible/internal/cli/render"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage local anvil dev nodes",
		Long: `Start, stop and inspect local anvil instances used as snapshot-capable
test networks.`,
	}

	var (
		name    string
		port    string
		chainID string
		forkURL string
	)

	cmd.PersistentFlags().StringVar(&name, "name", "default", "Instance name")
	cmd.PersistentFlags().StringVar(&port, "port", "8545", "RPC port")
	cmd.PersistentFlags().StringVar(&chainID, "chain-id", "", "Chain ID (anvil default if empty)")
	cmd.PersistentFlags().StringVar(&forkURL, "fork-url", "", "Fork from a remote endpoint")

	runOp := func(cmd *cobra.Command, operation string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		result, err := app.ManageNode.Run(cmd.Context(), usecase.ManageNodeParams{
			Operation: operation,
			Name:      name,
			Port:      port,
			ChainID:   chainID,
			ForkURL:   forkURL,
		})
		if err != nil {
			return err
		}

		renderer := render.NewNodeRenderer(cmd.OutOrStdout())
		return renderer.RenderNodeResult(result)
	}

	for _, op := range []struct {
		use   string
		short string
	}{
		{"start", "Start an anvil instance"},
		{"stop", "Stop an anvil instance"},
		{"restart", "Restart an anvil instance"},
		{"status", "Show instance status"},
		{"logs", "Follow instance logs"},
	} {
		op := op
		cmd.AddCommand(&cobra.Command{
			Use:   op.use,
			Short: op.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOp(cmd, op.use)
			},
		})
	}

	return cmd
}
