package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/adapters/abi"
	"github.com/trebuchet-org/proxyforge/internal/adapters/simulation"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	cfg := &config.RuntimeConfig{Simulation: config.SimulationConfig{Balance: big.NewInt(1e18)}}
	backend, err := simulation.NewBackend(cfg, abi.NewEventDecoder(log), log)
	require.NoError(t, err)
	handler := NewHandler(usecase.NewManageProxies(backend, log), usecase.NewPredictAddress(), log)
	return NewEngine(handler)
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHandler_ProxyLifecycle(t *testing.T) {
	r := newTestEngine(t)

	w, body := do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])

	w, body = do(t, r, http.MethodPost, "/v1/accounts", gin.H{"name": "alice", "balance": "1000000000000000000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	alice := body["address"].(string)

	w, body = do(t, r, http.MethodPost, "/v1/accounts", gin.H{"name": "bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bob := body["address"].(string)

	w, body = do(t, r, http.MethodPost, "/v1/implementations", gin.H{"artifact": "MockV1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v1 := body["address"].(string)

	initData := bindings.NewMockV1().Pack("initialize", big.NewInt(7))
	w, body = do(t, r, http.MethodPost, "/v1/proxies", gin.H{
		"from":           alice,
		"implementation": v1,
		"data":           hexutil.Encode(initData),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])
	proxy := common.HexToAddress(body["contractAddress"].(string))
	require.NotEqual(t, common.Address{}, proxy)

	w, body = do(t, r, http.MethodGet, "/v1/proxies/"+proxy.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["consistent"])
	assert.Equal(t, common.HexToAddress(alice), common.HexToAddress(body["owner"].(string)))
	assert.Equal(t, common.HexToAddress(v1), common.HexToAddress(body["implementation"].(string)))

	t.Run("upgrade by non-owner is unprocessable", func(t *testing.T) {
		w, body := do(t, r, http.MethodPost, "/v1/proxies/"+proxy.Hex()+"/upgrade", gin.H{"from": bob, "implementation": v1})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		assert.Equal(t, false, body["success"])
		revert := body["revert"].(map[string]any)
		assert.Equal(t, "UnauthorizedAccount", revert["name"])
	})

	t.Run("change owner", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/v1/proxies/"+proxy.Hex()+"/owner", gin.H{"from": alice, "newOwner": bob})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, body := do(t, r, http.MethodGet, "/v1/proxies/"+proxy.Hex(), nil)
		assert.Equal(t, common.HexToAddress(bob), common.HexToAddress(body["owner"].(string)))
	})

	t.Run("zero sender cannot claim an unknown address", func(t *testing.T) {
		unknown := "0x0000000000000000000000000000000000000042"
		w, body := do(t, r, http.MethodPost, "/v1/proxies/"+unknown+"/owner", gin.H{
			"from":     common.Address{}.Hex(),
			"newOwner": alice,
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		assert.Equal(t, false, body["success"])
		revert := body["revert"].(map[string]any)
		assert.Equal(t, "sender is the zero address", revert["message"])

		w, _ = do(t, r, http.MethodGet, "/v1/proxies/"+unknown, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Errors(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown artifact", http.MethodPost, "/v1/implementations", gin.H{"artifact": "Nope"}, http.StatusBadRequest},
		{"missing artifact", http.MethodPost, "/v1/implementations", gin.H{}, http.StatusBadRequest},
		{"bad path address", http.MethodGet, "/v1/proxies/0x1234", nil, http.StatusBadRequest},
		{"unknown proxy", http.MethodGet, "/v1/proxies/0x000000000000000000000000000000000000dEaD", nil, http.StatusNotFound},
		{"bad salt", http.MethodPost, "/v1/proxies", gin.H{
			"from":           "0x000000000000000000000000000000000000a11c",
			"implementation": "0x000000000000000000000000000000000000dEaD",
			"salt":           "0x01",
		}, http.StatusBadRequest},
		{"negative balance", http.MethodPost, "/v1/accounts", gin.H{"name": "carol", "balance": "-1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandler_Predict(t *testing.T) {
	r := newTestEngine(t)
	deployer := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")

	w, body := do(t, r, http.MethodGet, "/v1/predict/create?deployer="+deployer.Hex()+"&nonce=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, crypto.CreateAddress(deployer, 1), common.HexToAddress(body["address"].(string)))

	salt := common.Hash{0x01}
	codeHash := crypto.Keccak256Hash([]byte{0x00})
	w, body = do(t, r, http.MethodGet, "/v1/predict/create2?deployer="+deployer.Hex()+"&salt="+salt.Hex()+"&initCodeHash="+codeHash.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, crypto.CreateAddress2(deployer, salt, codeHash.Bytes()), common.HexToAddress(body["address"].(string)))

	w, _ = do(t, r, http.MethodGet, "/v1/predict/create2?deployer="+deployer.Hex()+"&salt=0x01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
