package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// NodeAccounts lists the accounts unlocked on the connected node
type NodeAccounts interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// Resolver picks the deployment sender from the node, a keystore or a configured key
type Resolver struct {
	config   *config.RuntimeConfig
	nodes    NodeAccounts
	prompter usecase.Prompter
	log      *slog.Logger
}

// NewResolver creates a new account resolver
func NewResolver(cfg *config.RuntimeConfig, nodes NodeAccounts, prompter usecase.Prompter, log *slog.Logger) *Resolver {
	return &Resolver{
		config:   cfg,
		nodes:    nodes,
		prompter: prompter,
		log:      log.With("component", "AccountResolver"),
	}
}

// Resolve returns the account selected by the request, falling back to the network defaults.
// Order: explicit node index, keystore id, first node account on local networks, wallets.from_key.
func (r *Resolver) Resolve(ctx context.Context, req usecase.AccountRequest) (*models.Account, error) {
	if req.Index != nil {
		return r.nodeAccount(ctx, *req.Index)
	}

	if req.ID != "" {
		return r.keystoreAccount(ctx, req.ID)
	}

	if r.config.Network != nil && r.config.Network.Local {
		return r.nodeAccount(ctx, 0)
	}

	if r.config.Project != nil && r.config.Project.Wallets.FromKey != "" {
		return privateKeyAccount(r.config.Project.Wallets.FromKey)
	}

	return nil, domain.ErrNoAccount
}

func (r *Resolver) nodeAccount(ctx context.Context, index int) (*models.Account, error) {
	accounts, err := r.nodes.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list node accounts: %w", err)
	}
	if index < 0 || index >= len(accounts) {
		return nil, fmt.Errorf("%w: node has %d accounts, index %d requested", domain.ErrNoAccount, len(accounts), index)
	}

	r.log.Debug("using node account", "index", index, "address", accounts[index].Hex())
	return &models.Account{
		Address: accounts[index],
		Kind:    models.AccountKindNode,
		Source:  fmt.Sprintf("eth_accounts[%d]", index),
	}, nil
}

func (r *Resolver) keystoreAccount(ctx context.Context, id string) (*models.Account, error) {
	path := filepath.Join(r.config.KeystoreDir, id+".json")
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: keystore %q not found in %s", domain.ErrNoAccount, id, r.config.KeystoreDir)
		}
		return nil, fmt.Errorf("failed to read keystore %q: %w", id, err)
	}

	password := r.config.KeystorePassword
	if password == "" {
		password, err = r.prompter.Password(ctx, fmt.Sprintf("Password for %s", id))
		if err != nil {
			return nil, fmt.Errorf("keystore %q needs a password: %w", id, err)
		}
	}

	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %q: %w", id, err)
	}

	r.log.Debug("using keystore account", "id", id, "address", key.Address.Hex())
	return &models.Account{
		Address: key.Address,
		Kind:    models.AccountKindKeystore,
		Source:  "keystore:" + id,
		Key:     key.PrivateKey,
	}, nil
}

func privateKeyAccount(hexKey string) (*models.Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key in wallets.from_key: %w", err)
	}

	return &models.Account{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Kind:    models.AccountKindPrivateKey,
		Source:  "wallets.from_key",
		Key:     key,
	}, nil
}

// Ensure Resolver implements AccountResolver
var _ usecase.AccountResolver = (*Resolver)(nil)
