package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// Color styles for table format
var (
	chainHeader    = color.New(color.BgCyan, color.FgBlack)
	contractStyle  = color.New(color.FgGreen, color.Bold)
	timestampStyle = color.New(color.Faint)
)

// DeploymentsRenderer renders deployment lists grouped by chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders one table per chain, newest deployment first
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(d *models.Deployment) uint64 {
		return d.ChainID
	})
	chainIDs := lo.Keys(groups)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for i, chainID := range chainIDs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		deployments := groups[chainID]
		fmt.Fprintln(r.out, chainHeader.Sprintf(" ⛓ chain %d (%s) - %d deployment(s) ", chainID, deployments[0].Network, result.ByChain[chainID]))
		fmt.Fprintln(r.out, renderDeploymentTable(deployments))
	}

	return nil
}

// renderDeploymentTable renders a borderless table of deployments
func renderDeploymentTable(deployments []*models.Deployment) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignLeft},
	})

	for _, dep := range deployments {
		t.AppendRow(table.Row{
			contractStyle.Sprint(dep.ContractName),
			dep.Address,
			shortHash(dep.Deployer),
			dep.BlockNumber,
			timestampStyle.Sprint(dep.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}

	return t.Render()
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
