package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

// Backend is the chain surface needed to create contracts
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// Connector hands out chain backends and reaches accounts managed by the node
type Connector interface {
	Backend(ctx context.Context) (Backend, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	SendUnlocked(ctx context.Context, from common.Address, data []byte, gas GasSettings) (common.Hash, error)
}

// Client lazily dials the active network's RPC endpoint
type Client struct {
	network *config.Network
	log     *slog.Logger

	mu     sync.Mutex
	client *ethclient.Client
}

// NewClient creates a client for the active network; no connection is made until first use
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		network: cfg.Network,
		log:     log,
	}
}

// ProvideClient creates a Client for Wire along with the cleanup that closes it
func ProvideClient(cfg *config.RuntimeConfig, log *slog.Logger) (*Client, func()) {
	client := NewClient(cfg, log)
	return client, client.Close
}

// connect establishes the connection and checks the chain ID
func (c *Client) connect(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	c.log.Debug("connecting to RPC", "network", c.network.Name, "url", c.network.RPCURL)
	client, err := ethclient.DialContext(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID in config means "whatever the node says"
	if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: %s expects chain ID %d, node reports %d",
			domain.ErrNetworkMismatch, c.network.Name, c.network.ChainID, networkChainID.Uint64())
	}

	c.client = client
	return client, nil
}

// Backend returns the connected backend
func (c *Client) Backend(ctx context.Context) (Backend, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Accounts lists the accounts the node can sign for
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []common.Address
	if err := client.Client().CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts failed: %w", err)
	}
	return accounts, nil
}

// SendUnlocked asks the node to sign and broadcast a contract creation from one of its accounts
func (c *Client) SendUnlocked(ctx context.Context, from common.Address, data []byte, gas GasSettings) (common.Hash, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	args := map[string]any{
		"from": from,
		"data": hexutil.Bytes(data),
	}
	gas.rpcArgs(args)
	var hash common.Hash
	if err := client.Client().CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction failed: %w", err)
	}
	return hash, nil
}

// Close releases the RPC connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// Ensure the client implements the interface
var _ Connector = (*Client)(nil)
