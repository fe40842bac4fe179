package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/adapters/abi"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

var (
	factoryAddr  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	deployerAddr = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	aliceAddr    = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bobAddr      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	v1Addr       = common.HexToAddress("0x0000000000000000000000000000000000000001")
	proxyAddr    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	adminAddr    = common.HexToAddress("0x00000000000000000000000000000000000000ad")
)

func upgradeScenario(expectValue string) *domain.Scenario {
	return &domain.Scenario{
		Name: "upgrade",
		Accounts: map[string]domain.ScenarioAccount{
			"alice": {Balance: "1000"},
			"bob":   {},
		},
		Implementations: map[string]string{"v1": "MockV1"},
		Steps: []domain.ScenarioStep{
			{
				Name:           "deploy",
				Action:         domain.ActionDeploy,
				From:           "alice",
				Implementation: "v1",
				Call:           &domain.CallSpec{Signature: "initialize(uint256)", Args: []string{"42"}},
				Save:           "proxy",
			},
			{
				Action:         domain.ActionUpgrade,
				From:           "bob",
				Proxy:          "proxy",
				Implementation: "v1",
				ExpectRevert:   "UnauthorizedAccount",
			},
			{
				Action:  domain.ActionCall,
				From:    "alice",
				To:      "proxy",
				Call:    &domain.CallSpec{Signature: "getValue()"},
				Returns: []string{"uint256"},
				Expect:  []string{expectValue},
			},
		},
	}
}

func setupBackend(ctx context.Context) *MockProxyBackend {
	mockV1 := bindings.NewMockV1()
	backend := new(MockProxyBackend)
	backend.On("Factory").Return(factoryAddr)
	backend.On("Deployer").Return(deployerAddr)
	backend.On("CreateAccount", ctx, "alice", mock.MatchedBy(func(b *big.Int) bool { return b.Cmp(big.NewInt(1000)) == 0 })).Return(aliceAddr, nil)
	backend.On("CreateAccount", ctx, "bob", mock.MatchedBy(func(b *big.Int) bool { return b.Sign() == 0 })).Return(bobAddr, nil)
	backend.On("DeployImplementation", ctx, "MockV1").Return(v1Addr, nil)

	backend.On("Deploy", ctx, mock.MatchedBy(func(req usecase.DeployRequest) bool {
		return req.From == aliceAddr && req.Implementation == v1Addr && req.Owner == aliceAddr &&
			req.Salt == nil && bytes.Equal(req.Data, mockV1.PackInitialize(big.NewInt(42)))
	})).Return(&models.TxResult{Success: true, From: aliceAddr, ContractAddress: proxyAddr}, nil)

	backend.On("Upgrade", ctx, mock.MatchedBy(func(req usecase.UpgradeRequest) bool {
		return req.From == bobAddr && req.Proxy == proxyAddr && req.Implementation == v1Addr
	})).Return(&models.TxResult{
		Success: false,
		From:    bobAddr,
		Revert:  &models.Revert{Name: "UnauthorizedAccount", Message: "UnauthorizedAccount(" + bobAddr.Hex() + ")", Data: []byte{1, 2, 3, 4}},
	}, nil)

	ret, _ := mockV1.ABI().Methods["getValue"].Outputs.Pack(big.NewInt(42))
	backend.On("Transact", ctx, aliceAddr, proxyAddr, mockV1.Pack("getValue"), mock.Anything).
		Return(&models.TxResult{Success: true, From: aliceAddr, ReturnData: ret}, nil)

	backend.On("Record", ctx, proxyAddr).Return(&models.ProxyRecord{
		Proxy:              proxyAddr,
		Factory:            factoryAddr,
		HasCode:            true,
		Recorded:           true,
		Admin:              adminAddr,
		Implementation:     v1Addr,
		Owner:              aliceAddr,
		SlotImplementation: v1Addr,
		SlotAdmin:          adminAddr,
		ExpectedAdmin:      adminAddr,
		AdminOwner:         factoryAddr,
	}, nil)
	return backend
}

func newRunScenario(backend usecase.ProxyBackend, loader usecase.ScenarioLoader, reports usecase.ReportWriter, sink usecase.ProgressSink) *usecase.RunScenario {
	return usecase.NewRunScenario(backend, loader, new(MockScenarioSelector), abi.NewCallCodec(), reports, sink, slog.New(slog.DiscardHandler))
}

func TestRunScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("all expectations hold", func(t *testing.T) {
		backend := setupBackend(ctx)
		loader := new(MockScenarioLoader)
		loader.On("Load", ctx, "upgrade.yaml").Return(upgradeScenario("42"), nil)
		reports := new(MockReportWriter)
		reports.On("WriteReport", ctx, "out.json", mock.Anything).Return(nil)
		progress := &MockProgressSink{}

		result, err := newRunScenario(backend, loader, reports, progress).Run(ctx, usecase.RunScenarioParams{
			Path:       "upgrade.yaml",
			ReportPath: "out.json",
		})

		require.NoError(t, err)
		assert.True(t, result.Passed)
		require.Len(t, result.Steps, 3)
		for _, step := range result.Steps {
			assert.True(t, step.Passed, step.Failure)
		}
		assert.Equal(t, []string{"42"}, result.Steps[2].Returned)
		assert.Equal(t, aliceAddr.Hex(), result.Accounts["alice"])
		require.Contains(t, result.Proxies, "proxy")
		assert.True(t, result.Proxies["proxy"].Consistent())

		require.Len(t, progress.events, 4)
		assert.Equal(t, "step", progress.events[0].Stage)
		assert.Equal(t, 3, progress.events[2].Total)
		assert.Equal(t, "complete", progress.events[3].Stage)

		backend.AssertExpectations(t)
		reports.AssertExpectations(t)
	})

	t.Run("failed expectation", func(t *testing.T) {
		backend := setupBackend(ctx)
		loader := new(MockScenarioLoader)
		loader.On("Load", ctx, "upgrade.yaml").Return(upgradeScenario("41"), nil)

		result, err := newRunScenario(backend, loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{Path: "upgrade.yaml"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrScenarioFailed))
		var expectation *domain.ExpectationError
		require.ErrorAs(t, err, &expectation)
		require.Len(t, expectation.Failures, 1)
		assert.Contains(t, expectation.Failures[0], "got 42, want 41")

		require.NotNil(t, result)
		assert.False(t, result.Passed)
		assert.False(t, result.Steps[2].Passed)
	})

	t.Run("unexpected success", func(t *testing.T) {
		scenario := upgradeScenario("42")
		scenario.Steps[0].ExpectRevert = "InvalidSalt"

		backend := setupBackend(ctx)
		loader := new(MockScenarioLoader)
		loader.On("Load", ctx, "upgrade.yaml").Return(scenario, nil)

		result, err := newRunScenario(backend, loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{Path: "upgrade.yaml"})
		require.Error(t, err)
		assert.Contains(t, result.Steps[0].Failure, "expected revert InvalidSalt")
	})

	t.Run("unknown reference", func(t *testing.T) {
		scenario := upgradeScenario("42")
		scenario.Steps[0].Implementation = "v9"

		backend := setupBackend(ctx)
		loader := new(MockScenarioLoader)
		loader.On("Load", ctx, "upgrade.yaml").Return(scenario, nil)

		_, err := newRunScenario(backend, loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{Path: "upgrade.yaml"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownAccount)
		assert.Contains(t, err.Error(), "step 1 (deploy)")
	})

	t.Run("loader error", func(t *testing.T) {
		loader := new(MockScenarioLoader)
		loader.On("Load", ctx, "missing.yaml").Return(nil, domain.ErrNotFound)

		_, err := newRunScenario(new(MockProxyBackend), loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{Path: "missing.yaml"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRunScenario_Salt(t *testing.T) {
	ctx := context.Background()
	scenario := &domain.Scenario{
		Name:            "salted",
		Accounts:        map[string]domain.ScenarioAccount{"alice": {}},
		Implementations: map[string]string{"v1": "MockV1"},
		Steps: []domain.ScenarioStep{{
			Action:         domain.ActionDeploy,
			From:           "alice",
			Implementation: "v1",
			Salt:           "alice:7",
		}},
	}

	var want common.Hash
	copy(want[:20], aliceAddr.Bytes())
	want[31] = 7

	backend := new(MockProxyBackend)
	backend.On("Factory").Return(factoryAddr)
	backend.On("Deployer").Return(deployerAddr)
	backend.On("CreateAccount", ctx, "alice", mock.Anything).Return(aliceAddr, nil)
	backend.On("DeployImplementation", ctx, "MockV1").Return(v1Addr, nil)
	backend.On("Deploy", ctx, mock.MatchedBy(func(req usecase.DeployRequest) bool {
		return req.Salt != nil && *req.Salt == want
	})).Return(&models.TxResult{Success: true, ContractAddress: proxyAddr}, nil)

	loader := new(MockScenarioLoader)
	loader.On("Load", ctx, "salted.yaml").Return(scenario, nil)

	result, err := newRunScenario(backend, loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{Path: "salted.yaml"})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	backend.AssertExpectations(t)
}

func TestRunScenario_PicksProjectScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("selector chooses", func(t *testing.T) {
		paths := []string{"scenarios/a.yaml", "scenarios/upgrade.yaml"}
		loader := new(MockScenarioLoader)
		loader.On("List", ctx).Return(paths, nil)
		loader.On("Load", ctx, "scenarios/upgrade.yaml").Return(upgradeScenario("42"), nil)
		selector := new(MockScenarioSelector)
		selector.On("SelectScenario", ctx, paths).Return("scenarios/upgrade.yaml", nil)

		uc := usecase.NewRunScenario(setupBackend(ctx), loader, selector, abi.NewCallCodec(), new(MockReportWriter), &MockProgressSink{}, slog.New(slog.DiscardHandler))
		result, err := uc.Run(ctx, usecase.RunScenarioParams{})
		require.NoError(t, err)
		assert.Equal(t, "upgrade", result.Name)
		selector.AssertExpectations(t)
	})

	t.Run("none in project", func(t *testing.T) {
		loader := new(MockScenarioLoader)
		loader.On("List", ctx).Return([]string{}, nil)

		_, err := newRunScenario(new(MockProxyBackend), loader, new(MockReportWriter), &MockProgressSink{}).Run(ctx, usecase.RunScenarioParams{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("selection cancelled", func(t *testing.T) {
		cancelled := errors.New("selection cancelled")
		loader := new(MockScenarioLoader)
		loader.On("List", ctx).Return([]string{"a.yaml", "b.yaml"}, nil)
		selector := new(MockScenarioSelector)
		selector.On("SelectScenario", ctx, mock.Anything).Return("", cancelled)

		uc := usecase.NewRunScenario(new(MockProxyBackend), loader, selector, abi.NewCallCodec(), new(MockReportWriter), &MockProgressSink{}, slog.New(slog.DiscardHandler))
		_, err := uc.Run(ctx, usecase.RunScenarioParams{})
		assert.ErrorIs(t, err, cancelled)
	})
}
