package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// ReaderAdapter implements the ChainReader interface using ethclient
type ReaderAdapter struct {
	client  *ethclient.Client
	chainID uint64
}

// NewReaderAdapter creates a new chain reader adapter
func NewReaderAdapter() *ReaderAdapter {
	return &ReaderAdapter{}
}

// Connect establishes connection to the blockchain
func (r *ReaderAdapter) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID accepts whatever the node reports
	if chainID != 0 && networkChainID.Uint64() != chainID {
		client.Close()
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	}

	if r.client != nil {
		r.client.Close()
	}
	r.client = client
	r.chainID = networkChainID.Uint64()
	return nil
}

// ChainID returns the chain ID of the connected node
func (r *ReaderAdapter) ChainID() uint64 {
	return r.chainID
}

// CodeAt returns the runtime code at addr on the latest block
func (r *ReaderAdapter) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	if r.client == nil {
		return nil, fmt.Errorf("not connected to blockchain")
	}
	code, err := r.client.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get code at %s: %w", addr.Hex(), err)
	}
	return code, nil
}

// StorageAt reads one storage word
func (r *ReaderAdapter) StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	if r.client == nil {
		return common.Hash{}, fmt.Errorf("not connected to blockchain")
	}
	value, err := r.client.StorageAt(ctx, addr, slot, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to read slot %s of %s: %w", slot.Hex(), addr.Hex(), err)
	}
	return common.BytesToHash(value), nil
}

// CallContract runs a read-only call against the latest block
func (r *ReaderAdapter) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if r.client == nil {
		return nil, fmt.Errorf("not connected to blockchain")
	}
	ret, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", to.Hex(), err)
	}
	return ret, nil
}

// Close releases the RPC connection
func (r *ReaderAdapter) Close() {
	if r.client != nil {
		r.client.Close()
		r.client = nil
	}
}

// Ensure the adapter implements the interface
var _ usecase.ChainReader = (*ReaderAdapter)(nil)
