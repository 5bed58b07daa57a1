//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/p2p-deploy/internal/adapters"
	"github.com/trebuchet-org/p2p-deploy/internal/config"
	"github.com/trebuchet-org/p2p-deploy/internal/logging"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup closes the RPC connection.
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewListNetworks,
		usecase.NewListDeployments,

		// App
		NewApp,
	)
	return nil, nil, nil
}
