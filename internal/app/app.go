package app

import (
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	State     *usecase.SessionState
	Networks  usecase.NetworkRegistry
	Confirmer usecase.Confirmer
	Selector  usecase.NetworkSelector

	// Use cases
	Sessions  *usecase.SessionManager
	Validator *usecase.NetworkValidator
	Mint      *usecase.MintController
	Watch     *usecase.WatchWallet
	Status    *usecase.ShowStatus
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	state *usecase.SessionState,
	networks usecase.NetworkRegistry,
	confirmer usecase.Confirmer,
	selector usecase.NetworkSelector,
	sessions *usecase.SessionManager,
	validator *usecase.NetworkValidator,
	mint *usecase.MintController,
	watch *usecase.WatchWallet,
	status *usecase.ShowStatus,
) (*App, error) {
	return &App{
		Config:    cfg,
		State:     state,
		Networks:  networks,
		Confirmer: confirmer,
		Selector:  selector,
		Sessions:  sessions,
		Validator: validator,
		Mint:      mint,
		Watch:     watch,
		Status:    status,
	}, nil
}
