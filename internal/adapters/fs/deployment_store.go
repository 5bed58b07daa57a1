package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

const (
	DeploymentsDir = "build/deployments"
	MapFile        = "map.json"
)

// deploymentMap indexes deployed addresses as chainId -> contract name -> addresses, newest first
type deploymentMap map[string]map[string][]string

// DeploymentStore persists deployment records under build/deployments
type DeploymentStore struct {
	rootDir string
	log     *slog.Logger
	mu      sync.RWMutex
}

// NewDeploymentStore creates a store rooted at the project's deployments directory
func NewDeploymentStore(cfg *config.RuntimeConfig, log *slog.Logger) *DeploymentStore {
	return &DeploymentStore{
		rootDir: filepath.Join(cfg.ProjectRoot, DeploymentsDir),
		log:     log.With("component", "DeploymentStore"),
	}
}

// Save writes the deployment record and moves its address to the front of the map
func (s *DeploymentStore) Save(_ context.Context, deployment *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chainKey := strconv.FormatUint(deployment.ChainID, 10)
	if err := os.MkdirAll(filepath.Join(s.rootDir, chainKey), 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	recordPath := filepath.Join(s.rootDir, chainKey, deployment.Address+".json")
	if err := writeJSON(recordPath, deployment); err != nil {
		return fmt.Errorf("failed to write deployment record: %w", err)
	}

	index, err := s.loadMap()
	if err != nil {
		return err
	}
	if index[chainKey] == nil {
		index[chainKey] = make(map[string][]string)
	}
	addresses := lo.Reject(index[chainKey][deployment.ContractName], func(addr string, _ int) bool {
		return strings.EqualFold(addr, deployment.Address)
	})
	index[chainKey][deployment.ContractName] = append([]string{deployment.Address}, addresses...)

	if err := writeJSON(filepath.Join(s.rootDir, MapFile), index); err != nil {
		return fmt.Errorf("failed to write deployment map: %w", err)
	}

	s.log.Debug("saved deployment", "contract", deployment.ContractName, "address", deployment.Address, "chainId", deployment.ChainID)
	return nil
}

// List returns the records matching the filter in map order
func (s *DeploymentStore) List(_ context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.loadMap()
	if err != nil {
		return nil, err
	}

	var result []*models.Deployment
	for chainKey, contracts := range index {
		chainID, err := strconv.ParseUint(chainKey, 10, 64)
		if err != nil {
			s.log.Warn("skipping invalid chain id in deployment map", "chainId", chainKey)
			continue
		}
		if filter.ChainID != 0 && chainID != filter.ChainID {
			continue
		}
		for name, addresses := range contracts {
			if filter.ContractName != "" && name != filter.ContractName {
				continue
			}
			for _, address := range addresses {
				dep, err := s.loadRecord(chainKey, address)
				if err != nil {
					s.log.Warn("skipping unreadable deployment record", "address", address, "error", err)
					continue
				}
				result = append(result, dep)
			}
		}
	}

	return result, nil
}

// Latest returns the newest deployment of a contract on a chain
func (s *DeploymentStore) Latest(_ context.Context, chainID uint64, contractName string) (*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.loadMap()
	if err != nil {
		return nil, err
	}

	chainKey := strconv.FormatUint(chainID, 10)
	addresses := index[chainKey][contractName]
	if len(addresses) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.loadRecord(chainKey, addresses[0])
}

func (s *DeploymentStore) loadMap() (deploymentMap, error) {
	index := make(deploymentMap)

	data, err := os.ReadFile(filepath.Join(s.rootDir, MapFile))
	if err != nil {
		if os.IsNotExist(err) {
			return index, nil
		}
		return nil, fmt.Errorf("failed to read deployment map: %w", err)
	}

	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse deployment map: %w", err)
	}
	return index, nil
}

func (s *DeploymentStore) loadRecord(chainKey, address string) (*models.Deployment, error) {
	data, err := os.ReadFile(filepath.Join(s.rootDir, chainKey, address+".json"))
	if err != nil {
		return nil, err
	}

	var dep models.Deployment
	if err := json.Unmarshal(data, &dep); err != nil {
		return nil, fmt.Errorf("failed to parse deployment record: %w", err)
	}
	return &dep, nil
}

// writeJSON writes to a temp file first and renames it into place
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Ensure DeploymentStore implements DeploymentStore
var _ usecase.DeploymentStore = (*DeploymentStore)(nil)
