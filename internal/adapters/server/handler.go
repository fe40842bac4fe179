package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// Handler serves the factory operations of one simulation over HTTP.
type Handler struct {
	proxies *usecase.ManageProxies
	predict *usecase.PredictAddress
	log     *slog.Logger
}

func NewHandler(proxies *usecase.ManageProxies, predict *usecase.PredictAddress, log *slog.Logger) *Handler {
	return &Handler{proxies: proxies, predict: predict, log: log.With("component", "HTTPHandler")}
}

// Register mounts the API routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/factory", h.handleFactory)
	rg.POST("/accounts", h.handleCreateAccount)
	rg.POST("/implementations", h.handleDeployImplementation)

	rg.POST("/proxies", h.handleDeploy)
	rg.GET("/proxies/:address", h.handleGetProxy)
	rg.POST("/proxies/:address/upgrade", h.handleUpgrade)
	rg.POST("/proxies/:address/owner", h.handleChangeOwner)

	rg.GET("/predict/create", h.handlePredictCreate)
	rg.GET("/predict/create2", h.handlePredictCreate2)
}

type createAccountRequest struct {
	Name    string `json:"name" binding:"required"`
	Balance string `json:"balance"`
}

type deployImplementationRequest struct {
	Artifact string `json:"artifact" binding:"required"`
}

type deployRequest struct {
	From           string `json:"from" binding:"required"`
	Implementation string `json:"implementation" binding:"required"`
	Owner          string `json:"owner"`
	Salt           string `json:"salt"`
	Data           string `json:"data"`
	Value          string `json:"value"`
}

type upgradeRequest struct {
	From           string `json:"from" binding:"required"`
	Implementation string `json:"implementation" binding:"required"`
	Data           string `json:"data"`
	Value          string `json:"value"`
}

type changeOwnerRequest struct {
	From     string `json:"from" binding:"required"`
	NewOwner string `json:"newOwner" binding:"required"`
}

type recordResponse struct {
	*models.ProxyRecord
	Consistent bool     `json:"consistent"`
	Mismatches []string `json:"mismatches,omitempty"`
}

func (h *Handler) handleFactory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"factory": h.proxies.Factory().Hex()})
}

func (h *Handler) handleCreateAccount(c *gin.Context) {
	var req createAccountRequest
	if !bind(c, &req) {
		return
	}
	balance, err := parseWei(req.Balance)
	if err != nil {
		badRequest(c, err)
		return
	}
	addr, err := h.proxies.CreateAccount(c.Request.Context(), req.Name, balance)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name, "address": addr.Hex()})
}

func (h *Handler) handleDeployImplementation(c *gin.Context) {
	var req deployImplementationRequest
	if !bind(c, &req) {
		return
	}
	addr, err := h.proxies.DeployImplementation(c.Request.Context(), req.Artifact)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"artifact": req.Artifact, "address": addr.Hex()})
}

func (h *Handler) handleDeploy(c *gin.Context) {
	var req deployRequest
	if !bind(c, &req) {
		return
	}

	var (
		deploy usecase.DeployRequest
		err    error
	)
	if deploy.From, err = parseAddress(req.From); err != nil {
		badRequest(c, err)
		return
	}
	if deploy.Implementation, err = parseAddress(req.Implementation); err != nil {
		badRequest(c, err)
		return
	}
	deploy.Owner = deploy.From
	if req.Owner != "" {
		if deploy.Owner, err = parseAddress(req.Owner); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.Salt != "" {
		raw, err := hexutil.Decode(req.Salt)
		if err != nil || len(raw) != common.HashLength {
			badRequest(c, errors.New("salt must be 32 hex-encoded bytes"))
			return
		}
		salt := common.BytesToHash(raw)
		deploy.Salt = &salt
	}
	if deploy.Data, err = parseData(req.Data); err != nil {
		badRequest(c, err)
		return
	}
	if deploy.Value, err = parseWei(req.Value); err != nil {
		badRequest(c, err)
		return
	}

	tx, err := h.proxies.Deploy(c.Request.Context(), deploy)
	h.respondTx(c, http.StatusCreated, tx, err)
}

func (h *Handler) handleUpgrade(c *gin.Context) {
	proxy, ok := pathAddress(c)
	if !ok {
		return
	}
	var req upgradeRequest
	if !bind(c, &req) {
		return
	}

	upgrade := usecase.UpgradeRequest{Proxy: proxy}
	var err error
	if upgrade.From, err = parseAddress(req.From); err != nil {
		badRequest(c, err)
		return
	}
	if upgrade.Implementation, err = parseAddress(req.Implementation); err != nil {
		badRequest(c, err)
		return
	}
	if upgrade.Data, err = parseData(req.Data); err != nil {
		badRequest(c, err)
		return
	}
	if upgrade.Value, err = parseWei(req.Value); err != nil {
		badRequest(c, err)
		return
	}

	tx, err := h.proxies.Upgrade(c.Request.Context(), upgrade)
	h.respondTx(c, http.StatusOK, tx, err)
}

func (h *Handler) handleChangeOwner(c *gin.Context) {
	proxy, ok := pathAddress(c)
	if !ok {
		return
	}
	var req changeOwnerRequest
	if !bind(c, &req) {
		return
	}

	change := usecase.ChangeOwnerRequest{Proxy: proxy}
	var err error
	if change.From, err = parseAddress(req.From); err != nil {
		badRequest(c, err)
		return
	}
	if change.NewOwner, err = parseAddress(req.NewOwner); err != nil {
		badRequest(c, err)
		return
	}

	tx, err := h.proxies.ChangeOwner(c.Request.Context(), change)
	h.respondTx(c, http.StatusOK, tx, err)
}

func (h *Handler) handleGetProxy(c *gin.Context) {
	proxy, ok := pathAddress(c)
	if !ok {
		return
	}
	record, err := h.proxies.Get(c.Request.Context(), proxy)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recordResponse{
		ProxyRecord: record,
		Consistent:  record.Consistent(),
		Mismatches:  record.Mismatches(),
	})
}

func (h *Handler) handlePredictCreate(c *gin.Context) {
	deployer, err := parseAddress(c.Query("deployer"))
	if err != nil {
		badRequest(c, err)
		return
	}
	nonce, ok := new(big.Int).SetString(c.DefaultQuery("nonce", "0"), 0)
	if !ok {
		badRequest(c, errors.New("invalid nonce"))
		return
	}
	h.respondPrediction(c, usecase.PredictAddressParams{
		Mode:     models.PredictCreate,
		Deployer: deployer,
		Nonce:    nonce,
	})
}

func (h *Handler) handlePredictCreate2(c *gin.Context) {
	deployer, err := parseAddress(c.Query("deployer"))
	if err != nil {
		badRequest(c, err)
		return
	}
	salt, err := hexutil.Decode(c.Query("salt"))
	if err != nil || len(salt) != common.HashLength {
		badRequest(c, errors.New("salt must be 32 hex-encoded bytes"))
		return
	}
	params := usecase.PredictAddressParams{
		Mode:     models.PredictCreate2,
		Deployer: deployer,
		Salt:     common.BytesToHash(salt),
	}
	if raw := c.Query("initCodeHash"); raw != "" {
		hash, err := hexutil.Decode(raw)
		if err != nil || len(hash) != common.HashLength {
			badRequest(c, errors.New("initCodeHash must be 32 hex-encoded bytes"))
			return
		}
		codeHash := common.BytesToHash(hash)
		params.InitCodeHash = &codeHash
	} else if params.InitCode, err = parseData(c.Query("initCode")); err != nil {
		badRequest(c, err)
		return
	}
	h.respondPrediction(c, params)
}

func (h *Handler) respondPrediction(c *gin.Context, params usecase.PredictAddressParams) {
	prediction, err := h.predict.Run(c.Request.Context(), params)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// respondTx maps a reverted transaction to 422 with its decoded revert.
func (h *Handler) respondTx(c *gin.Context, status int, tx *models.TxResult, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if !tx.Success {
		c.JSON(http.StatusUnprocessableEntity, tx)
		return
	}
	c.JSON(status, tx)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var revert *domain.RevertError
	switch {
	case errors.As(err, &revert):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "data": hexutil.Encode(revert.Data)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrUnknownArtifact),
		errors.Is(err, domain.ErrUnknownAccount):
		badRequest(c, err)
	default:
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathAddress(c *gin.Context) (common.Address, bool) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		badRequest(c, err)
		return common.Address{}, false
	}
	return addr, true
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}

func parseData(raw string) ([]byte, error) {
	if raw == "" || raw == "0x" {
		return nil, nil
	}
	return hexutil.Decode(raw)
}

// parseWei accepts decimal or 0x-prefixed amounts. Empty is nil.
func parseWei(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(raw, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}
