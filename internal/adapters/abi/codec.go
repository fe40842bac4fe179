package abi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// CallCodec adapts the signature encoder to the use case port
type CallCodec struct{}

// NewCallCodec creates a new call codec
func NewCallCodec() *CallCodec {
	return &CallCodec{}
}

func (CallCodec) EncodeCall(signature string, args []string, resolve func(string) (common.Address, error)) ([]byte, error) {
	return EncodeCall(signature, args, resolve)
}

func (CallCodec) DecodeReturns(typeNames []string, data []byte) ([]string, error) {
	return DecodeReturns(typeNames, data)
}

func (CallCodec) NormalizeValue(typeName, raw string, resolve func(string) (common.Address, error)) (string, error) {
	return NormalizeValue(typeName, raw, resolve)
}

var _ usecase.CallCodec = (*CallCodec)(nil)
