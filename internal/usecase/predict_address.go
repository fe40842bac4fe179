package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

// PredictAddressParams contains parameters for an address prediction.
// Which fields are read depends on Mode.
type PredictAddressParams struct {
	Mode     models.PredictionMode
	Deployer common.Address

	// create
	Nonce *big.Int

	// create2 and proxy
	Salt common.Hash

	// create2: InitCodeHash wins over InitCode when both are set
	InitCode     []byte
	InitCodeHash *common.Hash

	// proxy: Deployer is the factory
	Implementation common.Address
	Data           []byte
	Caller         *common.Address
}

// PredictAddress derives deployment addresses without touching a chain
type PredictAddress struct{}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress() *PredictAddress {
	return &PredictAddress{}
}

// Run executes the prediction
func (uc *PredictAddress) Run(ctx context.Context, params PredictAddressParams) (*models.Prediction, error) {
	switch params.Mode {
	case models.PredictCreate:
		return uc.create(params)
	case models.PredictCreate2:
		hash, err := initCodeHash(params)
		if err != nil {
			return nil, err
		}
		return uc.create2(params, hash), nil
	case models.PredictProxy:
		initCode := contracts.ProxyInitCode(params.Implementation, params.Deployer, params.Data)
		prediction := uc.create2(params, crypto.Keccak256Hash(initCode))
		prediction.Mode = models.PredictProxy
		if params.Caller != nil {
			permitted := address.SaltPermitted(params.Salt, *params.Caller)
			prediction.SaltPermitted = &permitted
		}
		return prediction, nil
	}
	return nil, fmt.Errorf("unknown prediction mode %q", params.Mode)
}

func (uc *PredictAddress) create(params PredictAddressParams) (*models.Prediction, error) {
	if params.Nonce == nil {
		return nil, fmt.Errorf("nonce is required")
	}
	if !params.Nonce.IsUint64() || params.Nonce.Uint64() > address.MaxNonce {
		return nil, fmt.Errorf("nonce %s: %w", params.Nonce, address.ErrNonceTooHigh)
	}
	nonce := params.Nonce.Uint64()

	addr, err := address.ComputeCreateAddress(params.Deployer, nonce)
	if err != nil {
		return nil, err
	}
	preimage, err := address.CreatePreimage(params.Deployer, nonce)
	if err != nil {
		return nil, err
	}
	return &models.Prediction{
		Mode:     models.PredictCreate,
		Deployer: params.Deployer,
		Address:  addr,
		Preimage: preimage,
		Nonce:    &nonce,
	}, nil
}

func (uc *PredictAddress) create2(params PredictAddressParams, hash common.Hash) *models.Prediction {
	salt := params.Salt
	return &models.Prediction{
		Mode:         models.PredictCreate2,
		Deployer:     params.Deployer,
		Address:      address.ComputeCreate2Address(params.Deployer, salt, hash),
		Preimage:     address.Create2Preimage(params.Deployer, salt, hash),
		Salt:         &salt,
		InitCodeHash: &hash,
	}
}

func initCodeHash(params PredictAddressParams) (common.Hash, error) {
	if params.InitCodeHash != nil {
		return *params.InitCodeHash, nil
	}
	if params.InitCode == nil {
		return common.Hash{}, fmt.Errorf("init code or init code hash is required")
	}
	return address.InitCodeHash(params.InitCode), nil
}
