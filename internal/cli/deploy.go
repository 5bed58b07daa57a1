package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/p2p-deploy/internal/cli/render"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy P2pErc20Trader",
		Long: `Deploy P2pErc20Trader from the resolved account.

The sender is chosen in this order:
  1. --account-index: an unlocked account of the connected node
  2. --account-id: a keystore file <keystore_dir>/<id>.json
  3. the node's first account on local networks
  4. wallets.from_key in brownie-config.yaml`,
		Example: `  # Deploy to the local development node
  p2p-deploy

  # Deploy to sepolia with a keystore account
  p2p-deploy deploy --network sepolia --account-id deployer`,
		Args: cobra.NoArgs,
		RunE: runDeploy,
	}
}

// addAccountFlags registers the sender selection flags
func addAccountFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Int("account-index", -1, "Use the node's unlocked account at this index")
	cmd.PersistentFlags().String("account-id", "", "Use the keystore account with this id")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
		ContractName: usecase.DefaultContractName,
	})
	if err != nil {
		return err
	}

	return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
}
