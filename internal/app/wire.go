//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/mintctl/internal/adapters"
	"github.com/trebuchet-org/mintctl/internal/config"
	"github.com/trebuchet-org/mintctl/internal/logging"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewSessionState,
		usecase.NewNetworkValidator,
		usecase.NewSessionManager,
		usecase.NewMintController,
		usecase.NewWatchWallet,
		usecase.NewShowStatus,

		// App
		NewApp,
	)
	return nil, nil, nil
}
