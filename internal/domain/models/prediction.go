package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PredictionMode selects the address derivation.
type PredictionMode string

const (
	PredictCreate  PredictionMode = "create"
	PredictCreate2 PredictionMode = "create2"
	// PredictProxy is CREATE2 of a factory deploy: the init code is built
	// from the implementation, the factory and the initializer data.
	PredictProxy PredictionMode = "proxy"
)

// Prediction is a derived deployment address and the inputs it came from.
type Prediction struct {
	Mode     PredictionMode `json:"mode"`
	Deployer common.Address `json:"deployer"`
	Address  common.Address `json:"address"`
	Preimage hexutil.Bytes  `json:"preimage"`

	Nonce        *uint64      `json:"nonce,omitempty"`
	Salt         *common.Hash `json:"salt,omitempty"`
	InitCodeHash *common.Hash `json:"initCodeHash,omitempty"`
	// SaltPermitted is set when a caller was given for a proxy prediction.
	SaltPermitted *bool `json:"saltPermitted,omitempty"`
}

// Selector is one function, event or error of a contract interface.
type Selector struct {
	Contract  string `json:"contract"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
	ID        string `json:"id"`
}
