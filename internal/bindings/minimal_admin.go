package bindings

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MinimalAdminMetaData contains all meta data concerning the MinimalAdmin contract.
var MinimalAdminMetaData = bind.MetaData{
	ABI: `[
	{"type":"constructor","inputs":[{"name":"initialOwner","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"UPGRADE_INTERFACE_VERSION","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"transferOwnership","inputs":[{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"upgradeAndCall","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"payable"},
	{"type":"event","name":"OwnershipTransferred","inputs":[{"name":"previousOwner","type":"address","indexed":true},{"name":"newOwner","type":"address","indexed":true}],"anonymous":false},
	{"type":"error","name":"UnauthorizedAccount","inputs":[{"name":"account","type":"address"}]},
	{"type":"error","name":"InvalidNewOwner","inputs":[{"name":"owner","type":"address"}]},
	{"type":"error","name":"InvalidCalldataLength","inputs":[]},
	{"type":"error","name":"InvalidSelector","inputs":[]}
]`,
	ID: "MinimalAdmin",
}

// MinimalAdmin is a Go binding around the per-proxy admin contract.
type MinimalAdmin struct {
	abi abi.ABI
}

// NewMinimalAdmin creates a new instance of MinimalAdmin.
func NewMinimalAdmin() *MinimalAdmin {
	parsed, err := MinimalAdminMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &MinimalAdmin{abi: *parsed}
}

func (minimalAdmin *MinimalAdmin) ABI() abi.ABI {
	return minimalAdmin.abi
}

// Solidity: function owner() view returns(address)
func (minimalAdmin *MinimalAdmin) PackOwner() []byte {
	enc, err := minimalAdmin.abi.Pack("owner")
	if err != nil {
		panic(err)
	}
	return enc
}

func (minimalAdmin *MinimalAdmin) UnpackOwner(data []byte) (common.Address, error) {
	out, err := minimalAdmin.abi.Unpack("owner", data)
	if err != nil {
		return *new(common.Address), err
	}
	out0 := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return out0, nil
}

// Solidity: function UPGRADE_INTERFACE_VERSION() view returns(string)
func (minimalAdmin *MinimalAdmin) PackUPGRADEINTERFACEVERSION() []byte {
	enc, err := minimalAdmin.abi.Pack("UPGRADE_INTERFACE_VERSION")
	if err != nil {
		panic(err)
	}
	return enc
}

func (minimalAdmin *MinimalAdmin) UnpackUPGRADEINTERFACEVERSION(data []byte) (string, error) {
	out, err := minimalAdmin.abi.Unpack("UPGRADE_INTERFACE_VERSION", data)
	if err != nil {
		return *new(string), err
	}
	out0 := *abi.ConvertType(out[0], new(string)).(*string)
	return out0, nil
}

// Solidity: function transferOwnership(address newOwner) returns()
func (minimalAdmin *MinimalAdmin) PackTransferOwnership(newOwner common.Address) []byte {
	enc, err := minimalAdmin.abi.Pack("transferOwnership", newOwner)
	if err != nil {
		panic(err)
	}
	return enc
}

// Solidity: function upgradeAndCall(address proxy, address implementation, bytes data) payable returns()
func (minimalAdmin *MinimalAdmin) PackUpgradeAndCall(proxy common.Address, implementation common.Address, data []byte) []byte {
	enc, err := minimalAdmin.abi.Pack("upgradeAndCall", proxy, implementation, data)
	if err != nil {
		panic(err)
	}
	return enc
}

// MinimalAdminOwnershipTransferred represents an OwnershipTransferred event raised by the MinimalAdmin contract.
type MinimalAdminOwnershipTransferred struct {
	PreviousOwner common.Address
	NewOwner      common.Address
	Raw           *types.Log
}

const MinimalAdminOwnershipTransferredEventName = "OwnershipTransferred"

func (MinimalAdminOwnershipTransferred) ContractEventName() string {
	return MinimalAdminOwnershipTransferredEventName
}

// Solidity: event OwnershipTransferred(address indexed previousOwner, address indexed newOwner)
func (minimalAdmin *MinimalAdmin) UnpackOwnershipTransferredEvent(log *types.Log) (*MinimalAdminOwnershipTransferred, error) {
	out := new(MinimalAdminOwnershipTransferred)
	if err := unpackEvent(minimalAdmin.abi, MinimalAdminOwnershipTransferredEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// UnpackError attempts to decode the provided error data using user-defined
// error definitions.
func (minimalAdmin *MinimalAdmin) UnpackError(raw []byte) (any, error) {
	if len(raw) < 4 {
		return nil, errors.New("Unknown error")
	}
	for _, name := range []string{"UnauthorizedAccount", "InvalidNewOwner", "InvalidCalldataLength", "InvalidSelector"} {
		e := minimalAdmin.abi.Errors[name]
		if bytes.Equal(raw[:4], e.ID.Bytes()[:4]) {
			return e.Unpack(raw)
		}
	}
	return nil, errors.New("Unknown error")
}
