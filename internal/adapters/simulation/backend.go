package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/proxyforge/internal/adapters/abi"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/contracts/samples"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

// DefaultDeployer names the account that deploys the factory when the
// profile does not set one.
const DefaultDeployer = "deployer"

// Backend runs the proxy system on an in-process host. The factory is
// deployed when the backend is created.
type Backend struct {
	host    *chain.Host
	decoder *abi.EventDecoder
	forge   *bindings.ProxyForge
	admin   *bindings.MinimalAdmin
	log     *slog.Logger

	deployer common.Address
	factory  common.Address
}

// NewBackend creates a host, funds the profile's deployer and deploys the
// factory from it.
func NewBackend(cfg *config.RuntimeConfig, decoder *abi.EventDecoder, log *slog.Logger) (*Backend, error) {
	log = log.With("component", "SimulationBackend")
	host := chain.NewHost(log, contracts.Artifacts()...)
	host.Register(samples.Artifacts()...)

	deployerName := cfg.Simulation.Deployer
	if deployerName == "" {
		deployerName = DefaultDeployer
	}
	deployer, err := AccountAddress(deployerName)
	if err != nil {
		return nil, fmt.Errorf("deployer: %w", err)
	}

	b := &Backend{
		host:     host,
		decoder:  decoder,
		forge:    bindings.NewProxyForge(),
		admin:    bindings.NewMinimalAdmin(),
		log:      log,
		deployer: deployer,
	}
	if cfg.Simulation.Balance != nil {
		if err := b.fund(deployer, cfg.Simulation.Balance); err != nil {
			return nil, err
		}
	}

	r := host.Transact(chain.Message{From: deployer, Data: contracts.ProxyForgeArtifact.MustInitCode()})
	if !r.Succeeded() {
		return nil, fmt.Errorf("failed to deploy factory: %w", r.Err)
	}
	b.factory = r.ContractAddress
	log.Debug("Factory deployed", "address", b.factory, "deployer", deployer)
	return b, nil
}

func (b *Backend) Factory() common.Address {
	return b.factory
}

func (b *Backend) Deployer() common.Address {
	return b.deployer
}

// CreateAccount funds the account described by name
func (b *Backend) CreateAccount(ctx context.Context, name string, balance *big.Int) (common.Address, error) {
	addr, err := AccountAddress(name)
	if err != nil {
		return common.Address{}, err
	}
	if balance != nil {
		if err := b.fund(addr, balance); err != nil {
			return common.Address{}, err
		}
	}
	return addr, nil
}

// DeployImplementation creates a registered artifact that takes no
// constructor arguments
func (b *Backend) DeployImplementation(ctx context.Context, artifact string) (common.Address, error) {
	a, ok := b.host.Artifact(artifact)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", domain.ErrUnknownArtifact, artifact)
	}
	initCode, err := a.InitCode()
	if err != nil {
		return common.Address{}, fmt.Errorf("artifact %s: %w", artifact, err)
	}
	r := b.host.Transact(chain.Message{From: b.deployer, Data: initCode})
	if !r.Succeeded() {
		return common.Address{}, b.revertError(r)
	}
	return r.ContractAddress, nil
}

// Deploy picks deploy, deployAndCall, deployDeterministic or
// deployDeterministicAndCall from the request
func (b *Backend) Deploy(ctx context.Context, req usecase.DeployRequest) (*models.TxResult, error) {
	var data []byte
	switch {
	case req.Salt == nil && len(req.Data) == 0:
		data = b.forge.PackDeploy(req.Implementation, req.Owner)
	case req.Salt == nil:
		data = b.forge.PackDeployAndCall(req.Implementation, req.Owner, req.Data)
	case len(req.Data) == 0:
		data = b.forge.PackDeployDeterministic(req.Implementation, req.Owner, *req.Salt)
	default:
		data = b.forge.PackDeployDeterministicAndCall(req.Implementation, req.Owner, *req.Salt, req.Data)
	}

	tx, err := b.send(req.From, b.factory, data, req.Value)
	if err != nil || !tx.Success {
		return tx, err
	}
	proxy, err := b.forge.UnpackDeploy(tx.ReturnData)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack deployed proxy: %w", err)
	}
	tx.ContractAddress = proxy
	return tx, nil
}

// Upgrade picks upgrade or upgradeAndCall from the request
func (b *Backend) Upgrade(ctx context.Context, req usecase.UpgradeRequest) (*models.TxResult, error) {
	data := b.forge.PackUpgrade(req.Proxy, req.Implementation)
	if len(req.Data) > 0 {
		data = b.forge.PackUpgradeAndCall(req.Proxy, req.Implementation, req.Data)
	}
	return b.send(req.From, b.factory, data, req.Value)
}

func (b *Backend) ChangeOwner(ctx context.Context, req usecase.ChangeOwnerRequest) (*models.TxResult, error) {
	return b.send(req.From, b.factory, b.forge.PackChangeOwner(req.Proxy, req.NewOwner), nil)
}

func (b *Backend) Transact(ctx context.Context, from, to common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	return b.send(from, to, data, value)
}

// Record combines the factory's records with the proxy's slots and the
// admin's owner
func (b *Backend) Record(ctx context.Context, proxy common.Address) (*models.ProxyRecord, error) {
	record := &models.ProxyRecord{
		Proxy:              proxy,
		Factory:            b.factory,
		HasCode:            len(b.host.Code(proxy)) > 0,
		Recorded:           true,
		SlotImplementation: common.BytesToAddress(b.host.StorageAt(proxy, bindings.ImplementationSlot).Bytes()),
		SlotAdmin:          common.BytesToAddress(b.host.StorageAt(proxy, bindings.AdminSlot).Bytes()),
		SlotBeacon:         common.BytesToAddress(b.host.StorageAt(proxy, bindings.BeaconSlot).Bytes()),
		ExpectedAdmin:      address.MustComputeCreateAddress(proxy, contracts.AdminNonce),
	}

	var err error
	if record.Admin, err = b.view(b.forge.PackAdminOf(proxy), b.forge.UnpackAdminOf); err != nil {
		return nil, err
	}
	if record.Implementation, err = b.view(b.forge.PackImplementationOf(proxy), b.forge.UnpackImplementationOf); err != nil {
		return nil, err
	}
	if record.Owner, err = b.view(b.forge.PackOwnerOf(proxy), b.forge.UnpackOwnerOf); err != nil {
		return nil, err
	}

	if len(b.host.Code(record.SlotAdmin)) > 0 {
		ret, err := b.host.Call(chain.Message{To: &record.SlotAdmin, Data: b.admin.PackOwner()})
		if err == nil {
			record.AdminOwner, _ = b.admin.UnpackOwner(ret)
		}
	}
	return record, nil
}

func (b *Backend) view(data []byte, unpack func([]byte) (common.Address, error)) (common.Address, error) {
	ret, err := b.host.Call(chain.Message{To: &b.factory, Data: data})
	if err != nil {
		return common.Address{}, fmt.Errorf("factory view: %w", err)
	}
	return unpack(ret)
}

func (b *Backend) send(from, to common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	v, err := toUint256(value)
	if err != nil {
		return nil, err
	}
	return b.result(b.host.Transact(chain.Message{From: from, To: &to, Data: data, Value: v})), nil
}

func (b *Backend) fund(addr common.Address, amount *big.Int) error {
	v, err := toUint256(amount)
	if err != nil {
		return err
	}
	b.host.Fund(addr, v)
	return nil
}

// result converts a receipt, decoding its logs and revert data
func (b *Backend) result(r *chain.Receipt) *models.TxResult {
	tx := &models.TxResult{
		TxHash:          r.TxHash,
		BlockNumber:     r.BlockNumber,
		From:            r.From,
		To:              r.To,
		Nonce:           r.Nonce,
		Success:         r.Succeeded(),
		ContractAddress: r.ContractAddress,
		Events:          []models.Event{},
	}
	if !tx.Success {
		tx.Revert = b.revert(r)
		return tx
	}
	tx.ReturnData = r.ReturnData
	for _, l := range r.Logs {
		tx.Events = append(tx.Events, b.decoder.DecodeLog(l))
	}
	return tx
}

func (b *Backend) revert(r *chain.Receipt) *models.Revert {
	data := r.RevertData()
	if data == nil {
		data = []byte{}
	}
	revert := b.decoder.DecodeRevert(data)
	if len(data) == 0 && errors.Unwrap(r.Err) != nil {
		revert.Message = r.Err.Error()
	}
	return revert
}

func (b *Backend) revertError(r *chain.Receipt) error {
	revert := b.revert(r)
	return &domain.RevertError{Reason: revert.Message, Data: revert.Data}
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s", v)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("value %s overflows uint256", v)
	}
	return out, nil
}

var _ usecase.ProxyBackend = (*Backend)(nil)
