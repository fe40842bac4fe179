//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/proxyforge/internal/adapters"
	"github.com/trebuchet-org/proxyforge/internal/config"
	"github.com/trebuchet-org/proxyforge/internal/logging"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewPredictAddress,
		usecase.NewListSelectors,
		usecase.NewRunScenario,
		usecase.NewInspectProxy,
		usecase.NewManageProxies,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
