package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/crucible/internal/adapters/progress"
	"github.com/trebuchet-org/crucible/internal/app"
	"github.com/trebuchet-org/crucible/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the crucible root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crucible",
		Short: "Isolated test sessions for Foundry projects",
		Long: `Crucible runs smart contract test suites against a configured network,
wrapping every test with snapshot/revert state isolation when the
connected provider supports it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// node management works outside a project
				if cmd.Name() != "node" && (cmd.Parent() == nil || cmd.Parent().Name() != "node") {
					return err
				}
				projectRoot = "."
			}

			v := config.SetupViper(projectRoot, cmd)
			bindGlobalFlags(v, cmd)

			sink := progress.NewSpinnerSink()

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Cobra skips post-run hooks when RunE errors, so the
				// cancel has to ride on RunE itself.
				if runE := cmd.RunE; runE != nil {
					cmd.RunE = func(cmd *cobra.Command, args []string) error {
						defer cancel()
						return runE(cmd, args)
					}
				} else {
					cmd.PostRun = func(cmd *cobra.Command, args []string) {
						cancel()
					}
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("disable-warnings", false, "Suppress warning diagnostics")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., anvil, sepolia, or an RPC URL)")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "Timeout for network operations")

	networksCmd := NewNetworksCmd()
	rootCmd.AddCommand(networksCmd)

	checkCmd := NewCheckCmd()
	rootCmd.AddCommand(checkCmd)

	nodeCmd := NewNodeCmd()
	rootCmd.AddCommand(nodeCmd)

	versionCmd := NewVersionCmd()
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Only bind flags that exist and have been changed
	if f := cmd.Flag("debug"); f != nil && f.Changed {
		v.Set("debug", f.Value.String())
	}
	if f := cmd.Flag("disable-warnings"); f != nil && f.Changed {
		v.Set("disable_warnings", f.Value.String())
	}
	if f := cmd.Flag("network"); f != nil && f.Changed {
		v.Set("network", f.Value.String())
	}
	if f := cmd.Flag("timeout"); f != nil && f.Changed {
		v.Set("timeout", f.Value.String())
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	instance, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return instance, nil
}
