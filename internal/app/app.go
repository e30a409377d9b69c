package app

import (
	"log/slog"

	"github.com/trebuchet-org/crucible/internal/config"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Logging
	Log *slog.Logger

	// Use cases
	ListNetworks *usecase.ListNetworks
	CheckNetwork *usecase.CheckNetwork
	ManageNode   *usecase.ManageNode

	// Ports (needed by the harness facade)
	ProviderResolver usecase.ProviderResolver
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	listNetworks *usecase.ListNetworks,
	checkNetwork *usecase.CheckNetwork,
	manageNode *usecase.ManageNode,
	providerResolver usecase.ProviderResolver,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		ListNetworks:     listNetworks,
		CheckNetwork:     checkNetwork,
		ManageNode:       manageNode,
		ProviderResolver: providerResolver,
	}, nil
}
