package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/crucible/internal/cli/render"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the configured network supports test isolation",
		Long: `Connect to the configured network and probe snapshot support with an
evm_snapshot/evm_revert round trip. Reports whether test runs against
this network will be isolated or degraded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if app.Config.NetworkChoice == "" {
				return fmt.Errorf("no network configured: pass --network or set a default in crucible.yaml")
			}

			result, err := app.CheckNetwork.Run(cmd.Context(), app.Config.NetworkChoice)
			if err != nil {
				return err
			}

			renderer := render.NewCheckRenderer(cmd.OutOrStdout())
			return renderer.RenderCheckResult(result)
		},
	}

	return cmd
}
