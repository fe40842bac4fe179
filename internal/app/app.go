package app

import (
	"log/slog"

	"github.com/trebuchet-org/proxyforge/internal/adapters/server"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	PredictAddress *usecase.PredictAddress
	ListSelectors  *usecase.ListSelectors
	RunScenario    *usecase.RunScenario
	InspectProxy   *usecase.InspectProxy
	ManageProxies  *usecase.ManageProxies
	ShowConfig     *usecase.ShowConfig
	SetConfig      *usecase.SetConfig
	RemoveConfig   *usecase.RemoveConfig

	// HTTP API over ManageProxies
	Server *server.Server
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	predictAddress *usecase.PredictAddress,
	listSelectors *usecase.ListSelectors,
	runScenario *usecase.RunScenario,
	inspectProxy *usecase.InspectProxy,
	manageProxies *usecase.ManageProxies,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	srv *server.Server,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		PredictAddress: predictAddress,
		ListSelectors:  listSelectors,
		RunScenario:    runScenario,
		InspectProxy:   inspectProxy,
		ManageProxies:  manageProxies,
		ShowConfig:     showConfig,
		SetConfig:      setConfig,
		RemoveConfig:   removeConfig,
		Server:         srv,
	}, nil
}
