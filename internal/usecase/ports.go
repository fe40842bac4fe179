package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// ProxyBackend executes factory operations against a chain. A reverted
// transaction is a TxResult with Success false, not an error; errors are
// reserved for requests that could not be executed at all.
type ProxyBackend interface {
	Factory() common.Address
	Deployer() common.Address

	// CreateAccount funds the account named name (or derived from a hex
	// private key) with balance wei on top of what it holds.
	CreateAccount(ctx context.Context, name string, balance *big.Int) (common.Address, error)
	// DeployImplementation creates the named sample artifact from the deployer.
	DeployImplementation(ctx context.Context, artifact string) (common.Address, error)

	Deploy(ctx context.Context, req DeployRequest) (*models.TxResult, error)
	Upgrade(ctx context.Context, req UpgradeRequest) (*models.TxResult, error)
	ChangeOwner(ctx context.Context, req ChangeOwnerRequest) (*models.TxResult, error)
	// Transact sends arbitrary calldata.
	Transact(ctx context.Context, from, to common.Address, data []byte, value *big.Int) (*models.TxResult, error)

	Record(ctx context.Context, proxy common.Address) (*models.ProxyRecord, error)
}

// DeployRequest covers deploy, deployAndCall, deployDeterministic and
// deployDeterministicAndCall. Salt nil selects CREATE.
type DeployRequest struct {
	From           common.Address
	Implementation common.Address
	Owner          common.Address
	Salt           *common.Hash
	Data           []byte
	Value          *big.Int
}

// UpgradeRequest covers upgrade and upgradeAndCall.
type UpgradeRequest struct {
	From           common.Address
	Proxy          common.Address
	Implementation common.Address
	Data           []byte
	Value          *big.Int
}

type ChangeOwnerRequest struct {
	From     common.Address
	Proxy    common.Address
	NewOwner common.Address
}

// ChainReader reads a live chain over JSON-RPC
type ChainReader interface {
	Connect(ctx context.Context, rpcURL string, chainID uint64) error
	ChainID() uint64
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
	StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error)
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// ScenarioLoader reads scenario files
type ScenarioLoader interface {
	Load(ctx context.Context, path string) (*domain.Scenario, error)
	// List returns the scenario files kept in the project
	List(ctx context.Context) ([]string, error)
}

// ScenarioSelector picks one scenario when none was named
type ScenarioSelector interface {
	SelectScenario(ctx context.Context, paths []string) (string, error)
}

// CallCodec encodes calldata from signatures and decodes return data
type CallCodec interface {
	EncodeCall(signature string, args []string, resolve func(string) (common.Address, error)) ([]byte, error)
	DecodeReturns(typeNames []string, data []byte) ([]string, error)
	NormalizeValue(typeName, raw string, resolve func(string) (common.Address, error)) (string, error)
}

// LocalConfigStore persists per-checkout defaults
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}

// ReportWriter persists scenario results
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, result *domain.ScenarioResult) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
