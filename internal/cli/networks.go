package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/crucible/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List all networks known to crucible: the [rpc_endpoints] section of
foundry.toml, the networks block of crucible.yaml, and the built-in
dev networks.

Chain IDs are fetched from each endpoint and cached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout())
			return renderer.RenderNetworksList(result)
		},
	}

	return cmd
}
