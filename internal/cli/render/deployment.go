package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgGreen, color.Bold)
	networkStyle = color.New(color.FgCyan)
)

// DeployRenderer renders the outcome of a deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the deployed address, sender and transaction details
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	dep := result.Deployment
	kind := cases.Title(language.English).String(strings.ReplaceAll(string(result.Account.Kind), "_", " "))

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed", dep.ContractName)))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Address: "), addressStyle.Sprint(dep.Address))
	fmt.Fprintf(r.out, "  %s %s (chain %d)\n", labelStyle.Sprint("Network: "), networkStyle.Sprint(dep.Network), dep.ChainID)
	fmt.Fprintf(r.out, "  %s %s [%s: %s]\n", labelStyle.Sprint("Deployer:"), dep.Deployer, kind, result.Account.Source)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Tx hash: "), dep.TxHash)
	fmt.Fprintf(r.out, "  %s %d (gas used %d)\n", labelStyle.Sprint("Block:   "), dep.BlockNumber, dep.GasUsed)

	if result.Network != nil && result.Network.ExplorerURL != "" {
		fmt.Fprintf(r.out, "  %s %s/address/%s\n", labelStyle.Sprint("Explorer:"), result.Network.ExplorerURL, dep.Address)
	}

	if result.Previous != nil {
		fmt.Fprintf(r.out, "  %s %s (block %d)\n", labelStyle.Sprint("Replaces:"), result.Previous.Address, result.Previous.BlockNumber)
	}

	if result.Persisted {
		fmt.Fprintf(r.out, "\n  %s\n", labelStyle.Sprint("Recorded in build/deployments"))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}

	return nil
}

var _ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
