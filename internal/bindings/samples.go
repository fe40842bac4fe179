package bindings

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
)

// MockV1MetaData contains all meta data concerning the MockV1 sample implementation.
var MockV1MetaData = bind.MetaData{
	ABI: `[
	{"type":"function","name":"initialize","inputs":[{"name":"value","type":"uint256"}],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"getValue","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"setValue","inputs":[{"name":"value","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"version","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"},
	{"type":"function","name":"whoami","inputs":[],"outputs":[{"name":"sender","type":"address"},{"name":"self","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"fail","inputs":[],"outputs":[],"stateMutability":"pure"},
	{"type":"function","name":"failCustom","inputs":[{"name":"code","type":"uint256"}],"outputs":[],"stateMutability":"pure"},
	{"type":"event","name":"ValueChanged","inputs":[{"name":"value","type":"uint256","indexed":false}],"anonymous":false},
	{"type":"error","name":"MockFailure","inputs":[{"name":"code","type":"uint256"}]}
]`,
	ID: "MockV1",
}

// MockV2MetaData contains all meta data concerning the MockV2 sample implementation.
var MockV2MetaData = bind.MetaData{
	ABI: `[
	{"type":"function","name":"initialize","inputs":[{"name":"data","type":"string"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"getValue","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getData","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"version","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"}
]`,
	ID: "MockV2",
}

// ReentrantUpgraderMetaData contains all meta data concerning the ReentrantUpgrader sample implementation.
var ReentrantUpgraderMetaData = bind.MetaData{
	ABI: `[
	{"type":"constructor","inputs":[{"name":"factory","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"initialize","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"observedImplementation","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"reentrySucceeded","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"reentryRevert","inputs":[],"outputs":[{"name":"","type":"bytes4"}],"stateMutability":"view"},
	{"type":"function","name":"version","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"}
]`,
	ID: "ReentrantUpgrader",
}

// Sample is a binding over one of the sample implementations. The samples
// share getters closely enough that one generic binding serves all three.
type Sample struct {
	abi abi.ABI
}

func newSample(meta *bind.MetaData) *Sample {
	parsed, err := meta.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &Sample{abi: *parsed}
}

func NewMockV1() *Sample            { return newSample(&MockV1MetaData) }
func NewMockV2() *Sample            { return newSample(&MockV2MetaData) }
func NewReentrantUpgrader() *Sample { return newSample(&ReentrantUpgraderMetaData) }

func (s *Sample) ABI() abi.ABI {
	return s.abi
}

// Pack packs a call to any method of the sample.
func (s *Sample) Pack(method string, args ...interface{}) []byte {
	enc, err := s.abi.Pack(method, args...)
	if err != nil {
		panic(err)
	}
	return enc
}

func (s *Sample) PackInitialize(args ...interface{}) []byte {
	return s.Pack("initialize", args...)
}

func (s *Sample) UnpackUint(method string, data []byte) (*big.Int, error) {
	out, err := s.abi.Unpack(method, data)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (s *Sample) UnpackString(method string, data []byte) (string, error) {
	out, err := s.abi.Unpack(method, data)
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (s *Sample) UnpackAddress(method string, data []byte) (common.Address, error) {
	out, err := s.abi.Unpack(method, data)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (s *Sample) UnpackBool(method string, data []byte) (bool, error) {
	out, err := s.abi.Unpack(method, data)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
