package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents brownie-config.yaml merged with foundry.toml
type ProjectConfig struct {
	Dotenv                 string         `yaml:"dotenv,omitempty"`
	Wallets                WalletsConfig  `yaml:"wallets,omitempty"`
	Networks               NetworksConfig `yaml:"networks,omitempty"`
	DevDeploymentArtifacts bool           `yaml:"dev_deployment_artifacts,omitempty"`

	// ConfigSource lists the files the configuration was read from
	ConfigSource []string `yaml:"-"`

	Foundry *FoundryConfig `yaml:"-"`
}

// WalletsConfig holds signing material referenced from the project config
type WalletsConfig struct {
	FromKey string `yaml:"from_key,omitempty"` //nolint:gosec // usually an env var reference
}

// NetworksConfig is the networks section: a default name plus per-network settings
type NetworksConfig struct {
	Default  string
	Settings map[string]NetworkSettings
}

// NetworkSettings represents one entry under networks
type NetworkSettings struct {
	Host        string `yaml:"host,omitempty"`
	ChainID     uint64 `yaml:"chainid,omitempty"`
	Explorer    string `yaml:"explorer,omitempty"`
	GasLimit    string `yaml:"gas_limit,omitempty"`
	GasPrice    string `yaml:"gas_price,omitempty"`
	PriorityFee string `yaml:"priority_fee,omitempty"`
	Local       bool   `yaml:"local,omitempty"`
}

// UnmarshalYAML splits the string-valued default key from the network mappings
func (n *NetworksConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("networks must be a mapping, got line %d", value.Line)
	}

	n.Settings = make(map[string]NetworkSettings)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		node := value.Content[i+1]

		if key == "default" {
			if err := node.Decode(&n.Default); err != nil {
				return fmt.Errorf("networks.default: %w", err)
			}
			continue
		}

		var settings NetworkSettings
		if err := node.Decode(&settings); err != nil {
			return fmt.Errorf("networks.%s: %w", key, err)
		}
		n.Settings[key] = settings
	}

	return nil
}
