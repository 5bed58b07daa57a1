package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/p2p-deploy/internal/cli/render"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		contractName string
		allChains    bool
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"list", "ls"},
		Short:   "List recorded deployments",
		Long: `List deployments recorded in build/deployments.

By default only deployments on the active network's chain are shown.`,
		Example: `  # List deployments on sepolia
  p2p-deploy deployments --network sepolia

  # List deployments on every chain
  p2p-deploy deployments --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				ContractName: contractName,
				AllChains:    allChains,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVar(&allChains, "all", false, "Show deployments on every chain")

	return cmd
}
