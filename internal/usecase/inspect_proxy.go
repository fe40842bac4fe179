package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

// InspectProxyParams contains parameters for inspecting a live proxy
type InspectProxyParams struct {
	Proxy common.Address
	// Factory, when set, is asked for its records of the proxy
	Factory *common.Address
	// RPCURL overrides the configured network
	RPCURL string
}

// InspectProxyResult is what the chain says about one proxy
type InspectProxyResult struct {
	Network    string              `json:"network"`
	ChainID    uint64              `json:"chainId"`
	Record     *models.ProxyRecord `json:"record"`
	Mismatches []string            `json:"mismatches"`
}

// InspectProxy reads a deployed proxy over JSON-RPC
type InspectProxy struct {
	config *config.RuntimeConfig
	reader ChainReader
	sink   ProgressSink
	log    *slog.Logger

	forge *bindings.ProxyForge
	admin *bindings.MinimalAdmin
}

// NewInspectProxy creates a new InspectProxy use case
func NewInspectProxy(cfg *config.RuntimeConfig, reader ChainReader, sink ProgressSink, log *slog.Logger) *InspectProxy {
	return &InspectProxy{
		config: cfg,
		reader: reader,
		sink:   sink,
		log:    log.With("component", "InspectProxy"),
		forge:  bindings.NewProxyForge(),
		admin:  bindings.NewMinimalAdmin(),
	}
}

// Run executes the inspection
func (uc *InspectProxy) Run(ctx context.Context, params InspectProxyParams) (*InspectProxyResult, error) {
	result := &InspectProxyResult{}

	rpcURL := params.RPCURL
	var chainID uint64
	if rpcURL == "" && uc.config.Network != nil {
		rpcURL = uc.config.Network.RPCURL
		chainID = uc.config.Network.ChainID
		result.Network = uc.config.Network.Name
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("no RPC endpoint: pass --rpc or --network")
	}

	factory := params.Factory
	if factory == nil && uc.config.Simulation.Factory != "" {
		if !common.IsHexAddress(uc.config.Simulation.Factory) {
			return nil, fmt.Errorf("profile factory %q: %w", uc.config.Simulation.Factory, domain.ErrInvalidAddress)
		}
		addr := common.HexToAddress(uc.config.Simulation.Factory)
		factory = &addr
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "connecting", Message: "Connecting to RPC", Spinner: true})
	if err := uc.reader.Connect(ctx, rpcURL, chainID); err != nil {
		return nil, err
	}
	result.ChainID = uc.reader.ChainID()

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "reading", Message: "Reading proxy state", Spinner: true})
	record, err := uc.readProxy(ctx, params.Proxy)
	if err != nil {
		return nil, err
	}
	if factory != nil {
		if err := uc.readRecords(ctx, *factory, record); err != nil {
			return nil, err
		}
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Proxy inspected"})

	result.Record = record
	result.Mismatches = record.Mismatches()
	return result, nil
}

func (uc *InspectProxy) readProxy(ctx context.Context, proxy common.Address) (*models.ProxyRecord, error) {
	code, err := uc.reader.CodeAt(ctx, proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%s: %w: no code", proxy.Hex(), domain.ErrNotAProxy)
	}

	implementation, err := uc.reader.StorageAt(ctx, proxy, bindings.ImplementationSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to read implementation slot: %w", err)
	}
	admin, err := uc.reader.StorageAt(ctx, proxy, bindings.AdminSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin slot: %w", err)
	}
	beacon, err := uc.reader.StorageAt(ctx, proxy, bindings.BeaconSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to read beacon slot: %w", err)
	}
	if implementation == (common.Hash{}) && admin == (common.Hash{}) {
		return nil, fmt.Errorf("%s: %w: empty ERC-1967 slots", proxy.Hex(), domain.ErrNotAProxy)
	}

	record := &models.ProxyRecord{
		Proxy:              proxy,
		HasCode:            true,
		SlotImplementation: common.BytesToAddress(implementation.Bytes()),
		SlotAdmin:          common.BytesToAddress(admin.Bytes()),
		SlotBeacon:         common.BytesToAddress(beacon.Bytes()),
		ExpectedAdmin:      address.MustComputeCreateAddress(proxy, contracts.AdminNonce),
	}

	ret, err := uc.reader.CallContract(ctx, record.SlotAdmin, uc.admin.PackOwner())
	if err != nil {
		uc.log.Debug("Admin owner unavailable", "admin", record.SlotAdmin, "error", err)
		return record, nil
	}
	if owner, err := uc.admin.UnpackOwner(ret); err == nil {
		record.AdminOwner = owner
	}
	return record, nil
}

func (uc *InspectProxy) readRecords(ctx context.Context, factory common.Address, record *models.ProxyRecord) error {
	reads := []struct {
		name   string
		data   []byte
		unpack func([]byte) (common.Address, error)
		into   *common.Address
	}{
		{"adminOf", uc.forge.PackAdminOf(record.Proxy), uc.forge.UnpackAdminOf, &record.Admin},
		{"implementationOf", uc.forge.PackImplementationOf(record.Proxy), uc.forge.UnpackImplementationOf, &record.Implementation},
		{"ownerOf", uc.forge.PackOwnerOf(record.Proxy), uc.forge.UnpackOwnerOf, &record.Owner},
	}
	for _, read := range reads {
		ret, err := uc.reader.CallContract(ctx, factory, read.data)
		if err != nil {
			return fmt.Errorf("factory %s: %w", read.name, err)
		}
		addr, err := read.unpack(ret)
		if err != nil {
			return fmt.Errorf("factory %s: %w", read.name, err)
		}
		*read.into = addr
	}
	record.Factory = factory
	record.Recorded = true
	return nil
}
