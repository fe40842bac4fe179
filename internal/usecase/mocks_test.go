package usecase_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// MockProxyBackend is a mock implementation of ProxyBackend
type MockProxyBackend struct {
	mock.Mock
}

func (m *MockProxyBackend) Factory() common.Address {
	return m.Called().Get(0).(common.Address)
}

func (m *MockProxyBackend) Deployer() common.Address {
	return m.Called().Get(0).(common.Address)
}

func (m *MockProxyBackend) CreateAccount(ctx context.Context, name string, balance *big.Int) (common.Address, error) {
	args := m.Called(ctx, name, balance)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockProxyBackend) DeployImplementation(ctx context.Context, artifact string) (common.Address, error) {
	args := m.Called(ctx, artifact)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockProxyBackend) Deploy(ctx context.Context, req usecase.DeployRequest) (*models.TxResult, error) {
	args := m.Called(ctx, req)
	return txResult(args)
}

func (m *MockProxyBackend) Upgrade(ctx context.Context, req usecase.UpgradeRequest) (*models.TxResult, error) {
	args := m.Called(ctx, req)
	return txResult(args)
}

func (m *MockProxyBackend) ChangeOwner(ctx context.Context, req usecase.ChangeOwnerRequest) (*models.TxResult, error) {
	args := m.Called(ctx, req)
	return txResult(args)
}

func (m *MockProxyBackend) Transact(ctx context.Context, from, to common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	args := m.Called(ctx, from, to, data, value)
	return txResult(args)
}

func (m *MockProxyBackend) Record(ctx context.Context, proxy common.Address) (*models.ProxyRecord, error) {
	args := m.Called(ctx, proxy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProxyRecord), args.Error(1)
}

func txResult(args mock.Arguments) (*models.TxResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TxResult), args.Error(1)
}

// MockScenarioLoader is a mock implementation of ScenarioLoader
type MockScenarioLoader struct {
	mock.Mock
}

func (m *MockScenarioLoader) Load(ctx context.Context, path string) (*domain.Scenario, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scenario), args.Error(1)
}

func (m *MockScenarioLoader) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockScenarioSelector is a mock implementation of ScenarioSelector
type MockScenarioSelector struct {
	mock.Mock
}

func (m *MockScenarioSelector) SelectScenario(ctx context.Context, paths []string) (string, error) {
	args := m.Called(ctx, paths)
	return args.String(0), args.Error(1)
}

// MockReportWriter is a mock implementation of ReportWriter
type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) WriteReport(ctx context.Context, path string, result *domain.ScenarioResult) error {
	return m.Called(ctx, path, result).Error(0)
}

// MockChainReader is a mock implementation of ChainReader
type MockChainReader struct {
	mock.Mock
}

func (m *MockChainReader) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	return m.Called(ctx, rpcURL, chainID).Error(0)
}

func (m *MockChainReader) ChainID() uint64 {
	return m.Called().Get(0).(uint64)
}

func (m *MockChainReader) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainReader) StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	args := m.Called(ctx, addr, slot)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockChainReader) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	args := m.Called(ctx, to, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}
