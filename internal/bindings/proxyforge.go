package bindings

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ProxyForgeMetaData contains all meta data concerning the ProxyForge contract.
var ProxyForgeMetaData = bind.MetaData{
	ABI: `[
	{"type":"function","name":"deploy","inputs":[{"name":"implementation","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"proxy","type":"address"}],"stateMutability":"payable"},
	{"type":"function","name":"deployAndCall","inputs":[{"name":"implementation","type":"address"},{"name":"owner","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"proxy","type":"address"}],"stateMutability":"payable"},
	{"type":"function","name":"deployDeterministic","inputs":[{"name":"implementation","type":"address"},{"name":"owner","type":"address"},{"name":"salt","type":"bytes32"}],"outputs":[{"name":"proxy","type":"address"}],"stateMutability":"payable"},
	{"type":"function","name":"deployDeterministicAndCall","inputs":[{"name":"implementation","type":"address"},{"name":"owner","type":"address"},{"name":"salt","type":"bytes32"},{"name":"data","type":"bytes"}],"outputs":[{"name":"proxy","type":"address"}],"stateMutability":"payable"},
	{"type":"function","name":"upgrade","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"}],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"upgradeAndCall","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"changeOwner","inputs":[{"name":"proxy","type":"address"},{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"setProxyOwner","inputs":[{"name":"proxy","type":"address"},{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"adminOf","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getProxyAdmin","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"implementationOf","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getProxyImplementation","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"ownerOf","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getProxyOwner","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"computeProxyAddress","inputs":[{"name":"nonce","type":"uint256"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"computeProxyAddress","inputs":[{"name":"implementation","type":"address"},{"name":"salt","type":"bytes32"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"event","name":"ProxyImplementationChanged","inputs":[{"name":"proxy","type":"address","indexed":true},{"name":"implementation","type":"address","indexed":true}],"anonymous":false},
	{"type":"event","name":"ProxyAdminChanged","inputs":[{"name":"proxy","type":"address","indexed":true},{"name":"admin","type":"address","indexed":true}],"anonymous":false},
	{"type":"event","name":"ProxyOwnerChanged","inputs":[{"name":"proxy","type":"address","indexed":true},{"name":"owner","type":"address","indexed":true}],"anonymous":false},
	{"type":"error","name":"InvalidProxyImplementation","inputs":[{"name":"implementation","type":"address"}]},
	{"type":"error","name":"InvalidProxyOwner","inputs":[{"name":"owner","type":"address"}]},
	{"type":"error","name":"InvalidSalt","inputs":[{"name":"salt","type":"bytes32"}]},
	{"type":"error","name":"InvalidNonce","inputs":[{"name":"nonce","type":"uint256"}]},
	{"type":"error","name":"UnauthorizedAccount","inputs":[{"name":"account","type":"address"}]},
	{"type":"error","name":"DeploymentFailed","inputs":[]},
	{"type":"error","name":"UpgradeFailed","inputs":[]}
]`,
	ID: "ProxyForge",
}

// ProxyForge is a Go binding around the ProxyForge factory.
type ProxyForge struct {
	abi abi.ABI
}

// NewProxyForge creates a new instance of ProxyForge.
func NewProxyForge() *ProxyForge {
	parsed, err := ProxyForgeMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &ProxyForge{abi: *parsed}
}

// ABI returns the parsed contract ABI.
func (proxyForge *ProxyForge) ABI() abi.ABI {
	return proxyForge.abi
}

func (proxyForge *ProxyForge) pack(method string, args ...interface{}) []byte {
	enc, err := proxyForge.abi.Pack(method, args...)
	if err != nil {
		panic(err)
	}
	return enc
}

func (proxyForge *ProxyForge) unpackAddress(method string, data []byte) (common.Address, error) {
	out, err := proxyForge.abi.Unpack(method, data)
	if err != nil {
		return *new(common.Address), err
	}
	out0 := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return out0, nil
}

// Solidity: function deploy(address implementation, address owner) payable returns(address proxy)
func (proxyForge *ProxyForge) PackDeploy(implementation common.Address, owner common.Address) []byte {
	return proxyForge.pack("deploy", implementation, owner)
}

func (proxyForge *ProxyForge) UnpackDeploy(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("deploy", data)
}

// Solidity: function deployAndCall(address implementation, address owner, bytes data) payable returns(address proxy)
func (proxyForge *ProxyForge) PackDeployAndCall(implementation common.Address, owner common.Address, data []byte) []byte {
	return proxyForge.pack("deployAndCall", implementation, owner, data)
}

func (proxyForge *ProxyForge) UnpackDeployAndCall(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("deployAndCall", data)
}

// Solidity: function deployDeterministic(address implementation, address owner, bytes32 salt) payable returns(address proxy)
func (proxyForge *ProxyForge) PackDeployDeterministic(implementation common.Address, owner common.Address, salt [32]byte) []byte {
	return proxyForge.pack("deployDeterministic", implementation, owner, salt)
}

func (proxyForge *ProxyForge) UnpackDeployDeterministic(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("deployDeterministic", data)
}

// Solidity: function deployDeterministicAndCall(address implementation, address owner, bytes32 salt, bytes data) payable returns(address proxy)
func (proxyForge *ProxyForge) PackDeployDeterministicAndCall(implementation common.Address, owner common.Address, salt [32]byte, data []byte) []byte {
	return proxyForge.pack("deployDeterministicAndCall", implementation, owner, salt, data)
}

func (proxyForge *ProxyForge) UnpackDeployDeterministicAndCall(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("deployDeterministicAndCall", data)
}

// Solidity: function upgrade(address proxy, address implementation) payable returns()
func (proxyForge *ProxyForge) PackUpgrade(proxy common.Address, implementation common.Address) []byte {
	return proxyForge.pack("upgrade", proxy, implementation)
}

// Solidity: function upgradeAndCall(address proxy, address implementation, bytes data) payable returns()
func (proxyForge *ProxyForge) PackUpgradeAndCall(proxy common.Address, implementation common.Address, data []byte) []byte {
	return proxyForge.pack("upgradeAndCall", proxy, implementation, data)
}

// Solidity: function changeOwner(address proxy, address newOwner) returns()
func (proxyForge *ProxyForge) PackChangeOwner(proxy common.Address, newOwner common.Address) []byte {
	return proxyForge.pack("changeOwner", proxy, newOwner)
}

// Solidity: function setProxyOwner(address proxy, address newOwner) returns()
func (proxyForge *ProxyForge) PackSetProxyOwner(proxy common.Address, newOwner common.Address) []byte {
	return proxyForge.pack("setProxyOwner", proxy, newOwner)
}

// Solidity: function adminOf(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackAdminOf(proxy common.Address) []byte {
	return proxyForge.pack("adminOf", proxy)
}

func (proxyForge *ProxyForge) UnpackAdminOf(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("adminOf", data)
}

// Solidity: function getProxyAdmin(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackGetProxyAdmin(proxy common.Address) []byte {
	return proxyForge.pack("getProxyAdmin", proxy)
}

// Solidity: function implementationOf(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackImplementationOf(proxy common.Address) []byte {
	return proxyForge.pack("implementationOf", proxy)
}

func (proxyForge *ProxyForge) UnpackImplementationOf(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("implementationOf", data)
}

// Solidity: function getProxyImplementation(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackGetProxyImplementation(proxy common.Address) []byte {
	return proxyForge.pack("getProxyImplementation", proxy)
}

// Solidity: function ownerOf(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackOwnerOf(proxy common.Address) []byte {
	return proxyForge.pack("ownerOf", proxy)
}

func (proxyForge *ProxyForge) UnpackOwnerOf(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("ownerOf", data)
}

// Solidity: function getProxyOwner(address proxy) view returns(address)
func (proxyForge *ProxyForge) PackGetProxyOwner(proxy common.Address) []byte {
	return proxyForge.pack("getProxyOwner", proxy)
}

// PackComputeProxyAddress packs the CREATE form.
//
// Solidity: function computeProxyAddress(uint256 nonce) view returns(address)
func (proxyForge *ProxyForge) PackComputeProxyAddress(nonce *big.Int) []byte {
	return proxyForge.pack("computeProxyAddress", nonce)
}

func (proxyForge *ProxyForge) UnpackComputeProxyAddress(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("computeProxyAddress", data)
}

// PackComputeProxyAddress0 packs the CREATE2 form.
//
// Solidity: function computeProxyAddress(address implementation, bytes32 salt, bytes data) view returns(address)
func (proxyForge *ProxyForge) PackComputeProxyAddress0(implementation common.Address, salt [32]byte, data []byte) []byte {
	return proxyForge.pack("computeProxyAddress0", implementation, salt, data)
}

func (proxyForge *ProxyForge) UnpackComputeProxyAddress0(data []byte) (common.Address, error) {
	return proxyForge.unpackAddress("computeProxyAddress0", data)
}

// ProxyForgeProxyImplementationChanged represents a ProxyImplementationChanged event raised by the ProxyForge contract.
type ProxyForgeProxyImplementationChanged struct {
	Proxy          common.Address
	Implementation common.Address
	Raw            *types.Log
}

const ProxyForgeProxyImplementationChangedEventName = "ProxyImplementationChanged"

func (ProxyForgeProxyImplementationChanged) ContractEventName() string {
	return ProxyForgeProxyImplementationChangedEventName
}

// ProxyForgeProxyAdminChanged represents a ProxyAdminChanged event raised by the ProxyForge contract.
type ProxyForgeProxyAdminChanged struct {
	Proxy common.Address
	Admin common.Address
	Raw   *types.Log
}

const ProxyForgeProxyAdminChangedEventName = "ProxyAdminChanged"

func (ProxyForgeProxyAdminChanged) ContractEventName() string {
	return ProxyForgeProxyAdminChangedEventName
}

// ProxyForgeProxyOwnerChanged represents a ProxyOwnerChanged event raised by the ProxyForge contract.
type ProxyForgeProxyOwnerChanged struct {
	Proxy common.Address
	Owner common.Address
	Raw   *types.Log
}

const ProxyForgeProxyOwnerChangedEventName = "ProxyOwnerChanged"

func (ProxyForgeProxyOwnerChanged) ContractEventName() string {
	return ProxyForgeProxyOwnerChangedEventName
}

// Solidity: event ProxyImplementationChanged(address indexed proxy, address indexed implementation)
func (proxyForge *ProxyForge) UnpackProxyImplementationChangedEvent(log *types.Log) (*ProxyForgeProxyImplementationChanged, error) {
	out := new(ProxyForgeProxyImplementationChanged)
	if err := unpackEvent(proxyForge.abi, ProxyForgeProxyImplementationChangedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// Solidity: event ProxyAdminChanged(address indexed proxy, address indexed admin)
func (proxyForge *ProxyForge) UnpackProxyAdminChangedEvent(log *types.Log) (*ProxyForgeProxyAdminChanged, error) {
	out := new(ProxyForgeProxyAdminChanged)
	if err := unpackEvent(proxyForge.abi, ProxyForgeProxyAdminChangedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// Solidity: event ProxyOwnerChanged(address indexed proxy, address indexed owner)
func (proxyForge *ProxyForge) UnpackProxyOwnerChangedEvent(log *types.Log) (*ProxyForgeProxyOwnerChanged, error) {
	out := new(ProxyForgeProxyOwnerChanged)
	if err := unpackEvent(proxyForge.abi, ProxyForgeProxyOwnerChangedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// UnpackError attempts to decode the provided error data using user-defined
// error definitions.
func (proxyForge *ProxyForge) UnpackError(raw []byte) (any, error) {
	if len(raw) < 4 {
		return nil, errors.New("Unknown error")
	}
	for _, name := range []string{"InvalidProxyImplementation", "InvalidProxyOwner", "InvalidSalt", "InvalidNonce", "UnauthorizedAccount", "DeploymentFailed", "UpgradeFailed"} {
		e := proxyForge.abi.Errors[name]
		if bytes.Equal(raw[:4], e.ID.Bytes()[:4]) {
			return e.Unpack(raw)
		}
	}
	return nil, errors.New("Unknown error")
}
