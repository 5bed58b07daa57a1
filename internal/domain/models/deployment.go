package models

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DeployedContract is the handle returned after a successful contract creation
type DeployedContract struct {
	Address     common.Address
	ChainID     uint64
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	ABI         abi.ABI
}

// Deployment represents a persisted contract deployment record
type Deployment struct {
	ContractName string          `json:"contractName"`
	Address      string          `json:"address"`
	Deployer     string          `json:"deployer"`
	AccountKind  AccountKind     `json:"accountKind"`
	ChainID      uint64          `json:"chainId"`
	Network      string          `json:"network"`
	TxHash       string          `json:"txHash"`
	BlockNumber  uint64          `json:"blockNumber"`
	GasUsed      uint64          `json:"gasUsed"`
	ABI          json.RawMessage `json:"abi,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewDeployment builds the record of a deployment
func NewDeployment(network string, account *Account, artifact *Artifact, contract *DeployedContract) *Deployment {
	return &Deployment{
		ContractName: artifact.ContractName,
		Address:      contract.Address.Hex(),
		Deployer:     account.Address.Hex(),
		AccountKind:  account.Kind,
		ChainID:      contract.ChainID,
		Network:      network,
		TxHash:       contract.TxHash.Hex(),
		BlockNumber:  contract.BlockNumber,
		GasUsed:      contract.GasUsed,
		ABI:          artifact.ABI,
		CreatedAt:    time.Now().UTC(),
	}
}
