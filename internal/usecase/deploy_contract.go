package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
)

// DefaultContractName is the contract this tool deploys
const DefaultContractName = "P2pErc20Trader"

// DeployContractParams contains parameters for deploying a contract
type DeployContractParams struct {
	ContractName string
}

// DeployContractResult contains the result of a deployment
type DeployContractResult struct {
	Network    *config.Network
	Account    *models.Account
	Contract   *models.DeployedContract
	Deployment *models.Deployment
	Previous   *models.Deployment
	Persisted  bool
	Warnings   []string
}

// DeployContract resolves a sender and submits a single contract-creation transaction
type DeployContract struct {
	config    *config.RuntimeConfig
	accounts  AccountResolver
	artifacts ArtifactRepository
	deployer  ContractDeployer
	store     DeploymentStore
	prompter  Prompter
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	accounts AccountResolver,
	artifacts ArtifactRepository,
	deployer ContractDeployer,
	store DeploymentStore,
	prompter Prompter,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		accounts:  accounts,
		artifacts: artifacts,
		deployer:  deployer,
		store:     store,
		prompter:  prompter,
		progress:  progress,
		log:       log,
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (result *DeployContractResult, err error) {
	contractName := params.ContractName
	if contractName == "" {
		contractName = DefaultContractName
	}
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	defer func() {
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Deployment failed"})
		}
	}()

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: "Resolving account",
		Spinner: true,
	})

	account, err := uc.accounts.Resolve(ctx, uc.accountRequest())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	uc.log.Debug("resolved account", "address", account.Address.Hex(), "kind", account.Kind, "source", account.Source)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: fmt.Sprintf("Loading %s artifact", contractName),
		Spinner: true,
	})

	artifact, err := uc.artifacts.Get(ctx, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact for %s: %w", contractName, err)
	}
	uc.log.Debug("loaded artifact", "contract", contractName, "path", artifact.Path)

	if !network.Local && !uc.config.NonInteractive {
		ok, confirmErr := uc.prompter.Confirm(ctx, fmt.Sprintf("Deploy %s to %s from %s", contractName, network.Name, account.Address.Hex()))
		if confirmErr != nil {
			return nil, fmt.Errorf("confirmation failed: %w", confirmErr)
		}
		if !ok {
			return nil, domain.ErrDeploymentCancelled
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageBroadcasting,
		Message: fmt.Sprintf("Deploying %s on %s", contractName, network.Name),
		Spinner: true,
	})

	contract, err := uc.deployer.Deploy(ctx, DeployRequest{
		Account:  account,
		Artifact: artifact,
		Network:  network,
	})
	if err != nil {
		return nil, fmt.Errorf("deployment failed: %w", err)
	}
	uc.log.Info("contract deployed", "contract", contractName, "address", contract.Address.Hex(), "tx", contract.TxHash.Hex())

	result = &DeployContractResult{
		Network:    network,
		Account:    account,
		Contract:   contract,
		Deployment: models.NewDeployment(network.Name, account, artifact, contract),
	}

	if uc.config.PersistDeployments() {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageRecording,
			Message: "Recording deployment",
			Spinner: true,
		})

		previous, latestErr := uc.store.Latest(ctx, result.Deployment.ChainID, result.Deployment.ContractName)
		switch {
		case latestErr == nil:
			result.Previous = previous
		case !errors.Is(latestErr, domain.ErrNotFound):
			uc.log.Warn("failed to read previous deployment", "error", latestErr)
		}

		// The contract exists on-chain either way, so a failed write is only a warning
		if saveErr := uc.store.Save(ctx, result.Deployment); saveErr != nil {
			uc.log.Warn("failed to record deployment", "error", saveErr)
			result.Warnings = append(result.Warnings, fmt.Sprintf("deployment not recorded: %v", saveErr))
		} else {
			result.Persisted = true
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Message: fmt.Sprintf("%s deployed at %s", contractName, contract.Address.Hex()),
	})

	return result, nil
}

func (uc *DeployContract) accountRequest() AccountRequest {
	req := AccountRequest{ID: uc.config.AccountID}
	if uc.config.HasAccountIndex() {
		index := uc.config.AccountIndex
		req.Index = &index
	}
	return req
}
