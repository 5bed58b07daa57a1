package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // always resolved, defaults to development

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Account selection
	AccountIndex     int // -1 when unset
	AccountID        string
	KeystoreDir      string
	KeystorePassword string

	// Resolved configurations
	Project *ProjectConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Local       bool   `json:"local"`

	// Transaction settings, "auto" or empty lets the node decide
	GasLimit    string `json:"gasLimit,omitempty"`
	GasPrice    string `json:"gasPrice,omitempty"`
	PriorityFee string `json:"priorityFee,omitempty"`
}

// HasAccountIndex reports whether an explicit node account index was requested
func (c *RuntimeConfig) HasAccountIndex() bool {
	return c.AccountIndex >= 0
}

// PersistDeployments reports whether deployments on the active network are recorded
func (c *RuntimeConfig) PersistDeployments() bool {
	if c.Network == nil {
		return false
	}
	if !c.Network.Local {
		return true
	}
	return c.Project != nil && c.Project.DevDeploymentArtifacts
}
