package usecase

import (
	"context"

	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
)

// AccountRequest selects which account to resolve. Zero value means "use the defaults".
type AccountRequest struct {
	Index *int   // node account index
	ID    string // keystore id
}

// AccountResolver resolves the sender of a deployment
type AccountResolver interface {
	Resolve(ctx context.Context, req AccountRequest) (*models.Account, error)
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	Get(ctx context.Context, contractName string) (*models.Artifact, error)
}

// DeployRequest describes one contract-creation transaction
type DeployRequest struct {
	Account  *models.Account
	Artifact *models.Artifact
	Network  *config.Network
}

// ContractDeployer submits contract-creation transactions and waits for them to be mined
type ContractDeployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*models.DeployedContract, error)
}

// DeploymentStore handles persistence of deployments
type DeploymentStore interface {
	Save(ctx context.Context, deployment *models.Deployment) error
	List(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	Latest(ctx context.Context, chainID uint64, contractName string) (*models.Deployment, error)
}

// NetworkResolver resolves configured networks
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// Prompter asks the user for input
type Prompter interface {
	Confirm(ctx context.Context, label string) (bool, error)
	Password(ctx context.Context, label string) (string, error)
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the deploy process
type ExecutionStage string

const (
	StageResolving    ExecutionStage = "Resolving"
	StageLoading      ExecutionStage = "Loading"
	StageBroadcasting ExecutionStage = "Broadcasting"
	StageRecording    ExecutionStage = "Recording"
	StageCompleted    ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
	// Suspend stops any live output, e.g. while the user is prompted; call resume afterwards
	Suspend() (resume func())
}
