package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/proxyforge/internal/adapters/abi"
	"github.com/trebuchet-org/proxyforge/internal/adapters/blockchain"
	"github.com/trebuchet-org/proxyforge/internal/adapters/fs"
	"github.com/trebuchet-org/proxyforge/internal/adapters/interactive"
	"github.com/trebuchet-org/proxyforge/internal/adapters/scenario"
	"github.com/trebuchet-org/proxyforge/internal/adapters/server"
	"github.com/trebuchet-org/proxyforge/internal/adapters/simulation"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// ProvideProjectPath provides the project path from RuntimeConfig
func ProvideProjectPath(cfg *config.RuntimeConfig) string {
	return cfg.ProjectRoot
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewReportWriterAdapter,
	wire.Bind(new(usecase.ReportWriter), new(*fs.ReportWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	scenario.NewLoaderAdapter,
	wire.Bind(new(usecase.ScenarioLoader), new(*scenario.LoaderAdapter)),
)

// InteractiveSet provides terminal prompts
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ScenarioSelector), new(*interactive.SelectorAdapter)),
)

// ABISet provides calldata, event and revert codecs
var ABISet = wire.NewSet(
	abi.NewEventDecoder,
	abi.NewCallCodec,
	wire.Bind(new(usecase.CallCodec), new(*abi.CallCodec)),
)

// SimulationSet provides the in-process proxy system
var SimulationSet = wire.NewSet(
	simulation.NewBackend,
	wire.Bind(new(usecase.ProxyBackend), new(*simulation.Backend)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewReaderAdapter,
	wire.Bind(new(usecase.ChainReader), new(*blockchain.ReaderAdapter)),
)

// ServerSet provides the HTTP API
var ServerSet = wire.NewSet(
	server.NewHandler,
	server.NewServer,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideProjectPath,

	FSSet,
	InteractiveSet,
	ABISet,
	SimulationSet,
	BlockchainSet,
	ServerSet,
)
