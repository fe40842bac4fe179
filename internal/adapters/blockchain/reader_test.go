package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newRPCServer answers JSON-RPC methods from a fixed table.
func newRPCServer(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found: " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestReaderAdapter(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	server := newRPCServer(t, map[string]any{
		"eth_chainId":      "0x7a69",
		"eth_getCode":      "0x6001",
		"eth_getStorageAt": "0x0000000000000000000000002222222222222222222222222222222222222222",
		"eth_call":         "0x000000000000000000000000000000000000000000000000000000000000002a",
	})
	ctx := context.Background()

	t.Run("not connected", func(t *testing.T) {
		reader := NewReaderAdapter()
		_, err := reader.CodeAt(ctx, addr)
		assert.Error(t, err)
	})

	t.Run("chain ID mismatch", func(t *testing.T) {
		reader := NewReaderAdapter()
		err := reader.Connect(ctx, server.URL, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chain ID mismatch")
	})

	reader := NewReaderAdapter()
	defer reader.Close()
	require.NoError(t, reader.Connect(ctx, server.URL, 0))
	assert.Equal(t, uint64(31337), reader.ChainID())

	code, err := reader.CodeAt(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01}, code)

	word, err := reader.StorageAt(ctx, addr, common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), common.BytesToAddress(word.Bytes()))

	ret, err := reader.CallContract(ctx, addr, []byte{0x20, 0x96, 0x52, 0x55})
	require.NoError(t, err)
	assert.Len(t, ret, 32)
	assert.Equal(t, byte(42), ret[31])
}

func TestReaderAdapter_RPCError(t *testing.T) {
	server := newRPCServer(t, map[string]any{"eth_chainId": "0x1"})
	reader := NewReaderAdapter()
	defer reader.Close()
	require.NoError(t, reader.Connect(context.Background(), server.URL, 1))

	_, err := reader.CodeAt(context.Background(), common.Address{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}
