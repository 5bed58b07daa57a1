package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// Deployer implements ContractDeployer on top of go-ethereum's bind package
type Deployer struct {
	conn Connector
	log  *slog.Logger
}

// NewDeployer creates a new contract deployer
func NewDeployer(conn Connector, log *slog.Logger) *Deployer {
	return &Deployer{
		conn: conn,
		log:  log,
	}
}

// Deploy sends one contract-creation transaction and waits for it to be mined
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*models.DeployedContract, error) {
	if req.Account == nil || req.Artifact == nil {
		return nil, fmt.Errorf("deploy request requires an account and an artifact")
	}

	parsed, err := req.Artifact.ParsedABI()
	if err != nil {
		return nil, err
	}
	code := req.Artifact.CreationCode()
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s has no creation bytecode", domain.ErrInvalidArtifact, req.Artifact.ContractName)
	}

	backend, err := d.conn.Backend(ctx)
	if err != nil {
		return nil, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	gas, err := ResolveGasSettings(ctx, backend, req.Network)
	if err != nil {
		return nil, err
	}

	var tx *types.Transaction
	if req.Account.CanSign() {
		tx, err = d.sendSigned(ctx, backend, chainID, req, parsed, code, gas)
	} else {
		tx, err = d.sendUnlocked(ctx, backend, req, code, gas)
	}
	if err != nil {
		return nil, err
	}
	d.log.Info("deployment transaction sent", "contract", req.Artifact.ContractName, "tx", tx.Hash().Hex(), "from", req.Account.Address.Hex())

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrDeploymentReverted, tx.Hash().Hex())
	}

	deployed, err := backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", receipt.ContractAddress.Hex(), err)
	}
	if len(deployed) == 0 {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrDeploymentReverted, receipt.ContractAddress.Hex())
	}

	contract := &models.DeployedContract{
		Address: receipt.ContractAddress,
		ChainID: chainID.Uint64(),
		TxHash:  tx.Hash(),
		GasUsed: receipt.GasUsed,
		ABI:     parsed,
	}
	if receipt.BlockNumber != nil {
		contract.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return contract, nil
}

func (d *Deployer) sendSigned(ctx context.Context, backend Backend, chainID *big.Int, req usecase.DeployRequest, parsed abi.ABI, code []byte, gas GasSettings) (*types.Transaction, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(req.Account.Key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	gas.apply(auth)

	_, tx, _, err := bind.DeployContract(auth, parsed, code, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment transaction: %w", err)
	}
	return tx, nil
}

func (d *Deployer) sendUnlocked(ctx context.Context, backend Backend, req usecase.DeployRequest, code []byte, gas GasSettings) (*types.Transaction, error) {
	hash, err := d.conn.SendUnlocked(ctx, req.Account.Address, code, gas)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment transaction: %w", err)
	}

	tx, _, err := backend.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", hash.Hex(), err)
	}
	return tx, nil
}

// Ensure the adapter implements the interface
var _ usecase.ContractDeployer = (*Deployer)(nil)
