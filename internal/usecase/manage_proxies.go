package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// ManageProxies serves individual factory operations, one request at a time
type ManageProxies struct {
	backend ProxyBackend
	log     *slog.Logger
}

// NewManageProxies creates a new ManageProxies use case
func NewManageProxies(backend ProxyBackend, log *slog.Logger) *ManageProxies {
	return &ManageProxies{
		backend: backend,
		log:     log.With("component", "ManageProxies"),
	}
}

// Factory is the address of the factory requests go to
func (uc *ManageProxies) Factory() common.Address {
	return uc.backend.Factory()
}

// CreateAccount funds a named account
func (uc *ManageProxies) CreateAccount(ctx context.Context, name string, balance *big.Int) (common.Address, error) {
	if balance == nil {
		balance = new(big.Int)
	}
	return uc.backend.CreateAccount(ctx, name, balance)
}

// DeployImplementation deploys a sample implementation by artifact name
func (uc *ManageProxies) DeployImplementation(ctx context.Context, artifact string) (common.Address, error) {
	addr, err := uc.backend.DeployImplementation(ctx, artifact)
	if err != nil {
		return common.Address{}, err
	}
	uc.log.Info("Implementation deployed", "artifact", artifact, "address", addr)
	return addr, nil
}

// Deploy deploys a proxy through the factory
func (uc *ManageProxies) Deploy(ctx context.Context, req DeployRequest) (*models.TxResult, error) {
	tx, err := uc.backend.Deploy(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.logResult("deploy", tx)
	return tx, nil
}

// Upgrade points a proxy at a new implementation
func (uc *ManageProxies) Upgrade(ctx context.Context, req UpgradeRequest) (*models.TxResult, error) {
	tx, err := uc.backend.Upgrade(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.logResult("upgrade", tx)
	return tx, nil
}

// ChangeOwner hands a proxy to a new owner
func (uc *ManageProxies) ChangeOwner(ctx context.Context, req ChangeOwnerRequest) (*models.TxResult, error) {
	tx, err := uc.backend.ChangeOwner(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.logResult("changeOwner", tx)
	return tx, nil
}

// Get returns the records of a proxy
func (uc *ManageProxies) Get(ctx context.Context, proxy common.Address) (*models.ProxyRecord, error) {
	record, err := uc.backend.Record(ctx, proxy)
	if err != nil {
		return nil, err
	}
	if !record.HasCode || record.Admin == (common.Address{}) {
		return nil, fmt.Errorf("proxy %s: %w", proxy.Hex(), domain.ErrNotFound)
	}
	return record, nil
}

func (uc *ManageProxies) logResult(op string, tx *models.TxResult) {
	if tx.Success {
		uc.log.Info("Factory operation succeeded", "op", op, "from", tx.From, "tx", tx.TxHash)
		return
	}
	reason := ""
	if tx.Revert != nil {
		reason = tx.Revert.Message
	}
	uc.log.Info("Factory operation reverted", "op", op, "from", tx.From, "reason", reason)
}
