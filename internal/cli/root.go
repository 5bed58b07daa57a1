package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/progress"
	"github.com/trebuchet-org/p2p-deploy/internal/app"
	"github.com/trebuchet-org/p2p-deploy/internal/config"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// initApp builds the application container; replaced in tests
var initApp = app.InitApp

// NewRootCmd creates the root command. Running it without a subcommand deploys.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "p2p-deploy",
		Short: "Deploy the P2pErc20Trader contract",
		Long: `p2p-deploy resolves a deployment account for the selected network and
submits a single contract-creation transaction for P2pErc20Trader.

Running p2p-deploy without a subcommand is the same as p2p-deploy deploy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, cleanup, err := initApp(v, newProgressSink(cmd))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cobra.OnFinalize(cleanup)

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cobra.OnFinalize(cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
		RunE: runDeploy,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to deploy to (e.g., development, sepolia)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	addAccountFlags(rootCmd)

	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewNetworksCmd())
	rootCmd.AddCommand(NewDeploymentsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink picks the spinner for interactive runs and stays silent otherwise
func newProgressSink(cmd *cobra.Command) usecase.ProgressSink {
	debug, _ := cmd.Flags().GetBool("debug")
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	if debug || nonInteractive {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
