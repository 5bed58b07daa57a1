package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	AllChains    bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	ByChain     map[uint64]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	config   *config.RuntimeConfig
	networks NetworkResolver
	store    DeploymentStore
	sink     ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, networks NetworkResolver, store DeploymentStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config:   cfg,
		networks: networks,
		store:    store,
		sink:     sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: "Loading deployments",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		ContractName: params.ContractName,
	}
	if !params.AllChains {
		chainID, err := uc.activeChainID(ctx)
		if err != nil {
			uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Failed to load deployments"})
			return nil, err
		}
		filter.ChainID = chainID
	}

	deployments, err := uc.store.List(ctx, filter)
	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Failed to load deployments"})
		return nil, err
	}

	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		ByChain: lo.CountValuesBy(deployments, func(d *models.Deployment) uint64 {
			return d.ChainID
		}),
	}, nil
}

// activeChainID asks the node when the chain ID is not configured; zero would match every chain
func (uc *ListDeployments) activeChainID(ctx context.Context) (uint64, error) {
	if uc.config.Network == nil {
		return 0, fmt.Errorf("no network selected")
	}
	if uc.config.Network.ChainID != 0 {
		return uc.config.Network.ChainID, nil
	}

	network, err := uc.networks.ResolveNetwork(ctx, uc.config.Network.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve chain ID for %s (use --all to list every chain): %w", uc.config.Network.Name, err)
	}
	if network.ChainID == 0 {
		return 0, fmt.Errorf("network %s reported chain ID 0", uc.config.Network.Name)
	}
	return network.ChainID, nil
}

// sortDeployments sorts deployments by chain, then newest first
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		return deployments[i].CreatedAt.After(deployments[j].CreatedAt)
	})
}
