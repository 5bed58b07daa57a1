package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

func TestListDeployments_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	older := &models.Deployment{ContractName: "P2pErc20Trader", ChainID: 11155111, Address: "0x1", CreatedAt: now.Add(-time.Hour)}
	newer := &models.Deployment{ContractName: "P2pErc20Trader", ChainID: 11155111, Address: "0x2", CreatedAt: now}

	t.Run("filters by active chain", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("List", ctx, domain.DeploymentFilter{ChainID: 11155111}).
			Return([]*models.Deployment{older, newer}, nil)

		uc := usecase.NewListDeployments(&config.RuntimeConfig{Network: liveNetwork}, new(MockNetworkResolver), store, new(MockProgressSink))
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 2)
		assert.Equal(t, "0x2", result.Deployments[0].Address)
		assert.Equal(t, 2, result.ByChain[11155111])
	})

	t.Run("all chains", func(t *testing.T) {
		mainnet := &models.Deployment{ContractName: "P2pErc20Trader", ChainID: 1, Address: "0x3", CreatedAt: now}
		store := new(MockDeploymentStore)
		store.On("List", ctx, domain.DeploymentFilter{ContractName: "P2pErc20Trader"}).
			Return([]*models.Deployment{newer, mainnet}, nil)

		uc := usecase.NewListDeployments(&config.RuntimeConfig{Network: liveNetwork}, new(MockNetworkResolver), store, new(MockProgressSink))
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{ContractName: "P2pErc20Trader", AllChains: true})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 2)
		assert.Equal(t, uint64(1), result.Deployments[0].ChainID)
		assert.Equal(t, 1, result.ByChain[1])
	})

	t.Run("chain ID comes from the node when not configured", func(t *testing.T) {
		unconfigured := &config.Network{Name: "sepolia", RPCURL: "https://rpc.sepolia.example"}
		resolver := new(MockNetworkResolver)
		resolver.On("ResolveNetwork", ctx, "sepolia").
			Return(&config.Network{Name: "sepolia", ChainID: 11155111}, nil).Once()
		store := new(MockDeploymentStore)
		store.On("List", ctx, domain.DeploymentFilter{ChainID: 11155111}).
			Return([]*models.Deployment{newer}, nil)

		uc := usecase.NewListDeployments(&config.RuntimeConfig{Network: unconfigured}, resolver, store, new(MockProgressSink))
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 1)
		assert.Equal(t, uint64(11155111), result.Deployments[0].ChainID)
		resolver.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("unreachable node does not fall back to every chain", func(t *testing.T) {
		unconfigured := &config.Network{Name: "development", Local: true}
		resolver := new(MockNetworkResolver)
		resolver.On("ResolveNetwork", ctx, "development").
			Return(nil, errors.New("dial tcp 127.0.0.1:8545: connection refused"))
		store := new(MockDeploymentStore)

		uc := usecase.NewListDeployments(&config.RuntimeConfig{Network: unconfigured}, resolver, store, new(MockProgressSink))
		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--all")
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("all chains skips the node", func(t *testing.T) {
		unconfigured := &config.Network{Name: "development", Local: true}
		resolver := new(MockNetworkResolver)
		store := new(MockDeploymentStore)
		store.On("List", ctx, domain.DeploymentFilter{}).Return([]*models.Deployment{}, nil)

		uc := usecase.NewListDeployments(&config.RuntimeConfig{Network: unconfigured}, resolver, store, new(MockProgressSink))
		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{AllChains: true})
		require.NoError(t, err)
		resolver.AssertNotCalled(t, "ResolveNetwork", mock.Anything, mock.Anything)
	})
}
