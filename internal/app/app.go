package app

import (
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContract  *usecase.DeployContract
	ListNetworks    *usecase.ListNetworks
	ListDeployments *usecase.ListDeployments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContract *usecase.DeployContract,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
) *App {
	return &App{
		Config:          cfg,
		DeployContract:  deployContract,
		ListNetworks:    listNetworks,
		ListDeployments: listDeployments,
	}
}
