package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

// loadFoundryConfig parses foundry.toml, returning nil when the project has none
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	foundryPath := filepath.Join(projectRoot, FoundryConfigFile)
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = expandEnvVars(url)
	}
	for name, es := range cfg.Etherscan {
		es.URL = expandEnvVars(es.URL)
		es.Key = expandEnvVars(es.Key)
		cfg.Etherscan[name] = es
	}

	return &cfg, nil
}
