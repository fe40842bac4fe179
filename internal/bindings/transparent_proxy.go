package bindings

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC-1967 storage slots.
var (
	// ImplementationSlot is bytes32(uint256(keccak256("eip1967.proxy.implementation")) - 1).
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	// AdminSlot is bytes32(uint256(keccak256("eip1967.proxy.admin")) - 1).
	AdminSlot = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
	// BeaconSlot is bytes32(uint256(keccak256("eip1967.proxy.beacon")) - 1).
	BeaconSlot = common.HexToHash("0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50")
)

// TransparentProxyMetaData contains all meta data concerning the TransparentProxy contract.
var TransparentProxyMetaData = bind.MetaData{
	ABI: `[
	{"type":"constructor","inputs":[{"name":"implementation","type":"address"},{"name":"initialOwner","type":"address"},{"name":"data","type":"bytes"}],"stateMutability":"payable"},
	{"type":"function","name":"upgradeToAndCall","inputs":[{"name":"newImplementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"payable"},
	{"type":"event","name":"Upgraded","inputs":[{"name":"implementation","type":"address","indexed":true}],"anonymous":false},
	{"type":"event","name":"AdminChanged","inputs":[{"name":"previousAdmin","type":"address","indexed":false},{"name":"newAdmin","type":"address","indexed":false}],"anonymous":false},
	{"type":"error","name":"InvalidImplementation","inputs":[{"name":"implementation","type":"address"}]},
	{"type":"error","name":"NonPayable","inputs":[]},
	{"type":"error","name":"ProxyDeniedAdminAccess","inputs":[]}
]`,
	ID: "TransparentProxy",
}

// TransparentProxy is a Go binding around the transparent upgradeable proxy.
type TransparentProxy struct {
	abi abi.ABI
}

// NewTransparentProxy creates a new instance of TransparentProxy.
func NewTransparentProxy() *TransparentProxy {
	parsed, err := TransparentProxyMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &TransparentProxy{abi: *parsed}
}

func (transparentProxy *TransparentProxy) ABI() abi.ABI {
	return transparentProxy.abi
}

// PackConstructor packs the constructor arguments appended to the creation code.
func (transparentProxy *TransparentProxy) PackConstructor(implementation common.Address, initialOwner common.Address, data []byte) []byte {
	enc, err := transparentProxy.abi.Pack("", implementation, initialOwner, data)
	if err != nil {
		panic(err)
	}
	return enc
}

// Solidity: function upgradeToAndCall(address newImplementation, bytes data) payable returns()
func (transparentProxy *TransparentProxy) PackUpgradeToAndCall(newImplementation common.Address, data []byte) []byte {
	enc, err := transparentProxy.abi.Pack("upgradeToAndCall", newImplementation, data)
	if err != nil {
		panic(err)
	}
	return enc
}

// UpgradeToAndCallSelector is the only selector the admin may call.
func (transparentProxy *TransparentProxy) UpgradeToAndCallSelector() []byte {
	return transparentProxy.abi.Methods["upgradeToAndCall"].ID
}

// UnpackUpgradeToAndCallInput decodes the arguments of an upgradeToAndCall call without its selector.
func (transparentProxy *TransparentProxy) UnpackUpgradeToAndCallInput(data []byte) (common.Address, []byte, error) {
	out, err := transparentProxy.abi.Methods["upgradeToAndCall"].Inputs.Unpack(data)
	if err != nil {
		return common.Address{}, nil, err
	}
	impl := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	payload := *abi.ConvertType(out[1], new([]byte)).(*[]byte)
	return impl, payload, nil
}

// TransparentProxyUpgraded represents an Upgraded event raised by the TransparentProxy contract.
type TransparentProxyUpgraded struct {
	Implementation common.Address
	Raw            *types.Log
}

const TransparentProxyUpgradedEventName = "Upgraded"

func (TransparentProxyUpgraded) ContractEventName() string {
	return TransparentProxyUpgradedEventName
}

// TransparentProxyAdminChanged represents an AdminChanged event raised by the TransparentProxy contract.
type TransparentProxyAdminChanged struct {
	PreviousAdmin common.Address
	NewAdmin      common.Address
	Raw           *types.Log
}

const TransparentProxyAdminChangedEventName = "AdminChanged"

func (TransparentProxyAdminChanged) ContractEventName() string {
	return TransparentProxyAdminChangedEventName
}

// Solidity: event Upgraded(address indexed implementation)
func (transparentProxy *TransparentProxy) UnpackUpgradedEvent(log *types.Log) (*TransparentProxyUpgraded, error) {
	out := new(TransparentProxyUpgraded)
	if err := unpackEvent(transparentProxy.abi, TransparentProxyUpgradedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// Solidity: event AdminChanged(address previousAdmin, address newAdmin)
func (transparentProxy *TransparentProxy) UnpackAdminChangedEvent(log *types.Log) (*TransparentProxyAdminChanged, error) {
	out := new(TransparentProxyAdminChanged)
	if err := unpackEvent(transparentProxy.abi, TransparentProxyAdminChangedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// UnpackError attempts to decode the provided error data using user-defined
// error definitions.
func (transparentProxy *TransparentProxy) UnpackError(raw []byte) (any, error) {
	if len(raw) < 4 {
		return nil, errors.New("Unknown error")
	}
	for _, name := range []string{"InvalidImplementation", "NonPayable", "ProxyDeniedAdminAccess"} {
		e := transparentProxy.abi.Errors[name]
		if bytes.Equal(raw[:4], e.ID.Bytes()[:4]) {
			return e.Unpack(raw)
		}
	}
	return nil, errors.New("Unknown error")
}
