package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is the brownie-style project configuration
	ProjectConfigFile = "brownie-config.yaml"
	// FoundryConfigFile is the foundry project configuration
	FoundryConfigFile = "foundry.toml"
)

// LoadProjectConfig loads brownie-config.yaml and foundry.toml from the project root.
// Either file may be missing; dotenv files are loaded before ${VAR} expansion.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	project := &config.ProjectConfig{}

	yamlPath := filepath.Join(projectRoot, ProjectConfigFile)
	data, err := os.ReadFile(yamlPath) //nolint:gosec // project path
	switch {
	case err == nil:
		// First pass only to learn which dotenv file to load
		var head struct {
			Dotenv string `yaml:"dotenv"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFile, err)
		}
		loadDotenv(projectRoot, head.Dotenv)

		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), project); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFile, err)
		}
		project.ConfigSource = append(project.ConfigSource, ProjectConfigFile)
	case os.IsNotExist(err):
		loadDotenv(projectRoot, "")
	default:
		return nil, fmt.Errorf("failed to read %s: %w", ProjectConfigFile, err)
	}

	foundry, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if foundry != nil {
		project.Foundry = foundry
		project.ConfigSource = append(project.ConfigSource, FoundryConfigFile)
	}

	if project.Networks.Settings == nil {
		project.Networks.Settings = make(map[string]config.NetworkSettings)
	}

	return project, nil
}

// loadDotenv loads .env files without overriding variables already set
func loadDotenv(projectRoot, configured string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	if configured != "" {
		if !filepath.IsAbs(configured) {
			configured = filepath.Join(projectRoot, configured)
		}
		envFiles = append([]string{configured}, envFiles...)
	}

	seen := make(map[string]bool)
	for _, envFile := range envFiles {
		if seen[envFile] {
			continue
		}
		seen[envFile] = true

		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}
