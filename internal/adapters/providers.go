package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/accounts"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/interactive"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/p2p-deploy/internal/config"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStore,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStore)),

	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompter,
	wire.Bind(new(usecase.Prompter), new(*interactive.Prompter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.ProvideClient,
	wire.Bind(new(blockchain.Connector), new(*blockchain.Client)),
	wire.Bind(new(accounts.NodeAccounts), new(*blockchain.Client)),

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),
)

// AccountsSet provides account resolution
var AccountsSet = wire.NewSet(
	accounts.NewResolver,
	wire.Bind(new(usecase.AccountResolver), new(*accounts.Resolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	AccountsSet,
)
