package config

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/samber/lo"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

// DefaultLocalRPC is the endpoint used for local networks without a configured host
const DefaultLocalRPC = "http://127.0.0.1:8545"

// localNetworks are development chains whose node holds unlocked accounts
var localNetworks = []string{
	"development",
	"ganache-local",
	"anvil",
	"localhost",
	"mainnet-fork",
	"mainnet-fork-dev",
}

// IsLocalNetwork reports whether a network name is a conventional development chain
func IsLocalNetwork(name string) bool {
	return lo.Contains(localNetworks, name)
}

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	project *config.ProjectConfig
	dial    func(ctx context.Context, rpcURL string) (uint64, error)
	cache   map[string]uint64 // rpcURL -> chainID
	mu      sync.RWMutex
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	if project == nil {
		project = &config.ProjectConfig{}
	}
	return &NetworkResolver{
		project: project,
		dial:    fetchChainID,
		cache:   make(map[string]uint64),
	}
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.Project)
}

// Names returns every network known to the project, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.project.Networks.Settings)
	if r.project.Foundry != nil {
		names = append(names, lo.Keys(r.project.Foundry.RpcEndpoints)...)
	}
	names = append(names, DefaultNetwork)

	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration without touching the network
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	settings, configured := r.project.Networks.Settings[networkName]
	local := settings.Local || IsLocalNetwork(networkName)

	rpcURL := settings.Host
	if rpcURL == "" && r.project.Foundry != nil {
		rpcURL = r.project.Foundry.RpcEndpoints[networkName]
	}
	if rpcURL == "" {
		if fromEnv, ok := lookupRPCEnv(networkName); ok {
			rpcURL = fromEnv
		}
	}
	if rpcURL == "" && local {
		rpcURL = DefaultLocalRPC
	}
	if rpcURL == "" {
		if configured {
			return nil, fmt.Errorf("network '%s' has no host configured: %w", networkName, domain.ErrNetworkNotFound)
		}
		return nil, fmt.Errorf("network '%s' not found in %s networks, foundry.toml [rpc_endpoints] or %s: %w",
			networkName, ProjectConfigFile, GenerateEnvVarName(networkName), domain.ErrNetworkNotFound)
	}

	network := &config.Network{
		Name:        networkName,
		RPCURL:      rpcURL,
		ChainID:     settings.ChainID,
		Local:       local,
		GasLimit:    settings.GasLimit,
		GasPrice:    settings.GasPrice,
		PriorityFee: settings.PriorityFee,
	}
	network.ExplorerURL = r.getExplorerURL(networkName, settings, network.ChainID)

	return network, nil
}

// GetNetworks returns the names of all configured networks
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	return r.Names()
}

// ResolveNetwork resolves a network and fills in its chain ID from the RPC when not configured
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	network, err := r.Resolve(networkName)
	if err != nil {
		return nil, err
	}
	if network.ChainID != 0 {
		return network, nil
	}

	r.mu.RLock()
	chainID, cached := r.cache[network.RPCURL]
	r.mu.RUnlock()

	if !cached {
		chainID, err = r.dial(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}

		r.mu.Lock()
		r.cache[network.RPCURL] = chainID
		r.mu.Unlock()
	}

	network.ChainID = chainID
	if network.ExplorerURL == "" {
		network.ExplorerURL = defaultExplorerURL(chainID)
	}
	return network, nil
}

// fetchChainID asks the RPC endpoint for its chain ID
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// getExplorerURL returns the explorer URL for a network
func (r *NetworkResolver) getExplorerURL(networkName string, settings config.NetworkSettings, chainID uint64) string {
	if settings.Explorer != "" {
		return settings.Explorer
	}
	if r.project.Foundry != nil {
		if etherscan, exists := r.project.Foundry.Etherscan[networkName]; exists && etherscan.URL != "" {
			return etherscan.URL
		}
	}
	return defaultExplorerURL(chainID)
}

// defaultExplorerURL falls back to well-known explorers by chain ID
func defaultExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 250:
		return "https://ftmscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}
