package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/pkg/address"
	"github.com/trebuchet-org/proxyforge/pkg/slotstore"
)

// Attribute seeds of the factory's per-proxy records.
const (
	AdminSeed          slotstore.Seed = 0x2d1e4a61
	ImplementationSeed slotstore.Seed = 0x6b7d9c04
	OwnerSeed          slotstore.Seed = 0x51f0e3a8
)

// AdminNonce is the proxy nonce its MinimalAdmin is created at.
const AdminNonce = 1

var (
	forgeBinding = bindings.NewProxyForge()
	forgeABI     = forgeBinding.ABI()
)

// ProxyForgeArtifact deploys the factory. It takes no constructor arguments.
var ProxyForgeArtifact = chain.NewArtifact("ProxyForge", forgeABI, func(*chain.Env, []interface{}) (chain.Contract, error) {
	return &ProxyForge{}, nil
})

var forgeRouter = NewRouter(forgeABI).
	Handle("deploy(address,address)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		return deployProxy(env, args[0].(common.Address), args[1].(common.Address), nil, nil)
	}).
	Handle("deployAndCall(address,address,bytes)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		return deployProxy(env, args[0].(common.Address), args[1].(common.Address), nil, args[2].([]byte))
	}).
	Handle("deployDeterministic(address,address,bytes32)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		salt := args[2].([32]byte)
		return deployProxy(env, args[0].(common.Address), args[1].(common.Address), &salt, nil)
	}).
	Handle("deployDeterministicAndCall(address,address,bytes32,bytes)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		salt := args[2].([32]byte)
		return deployProxy(env, args[0].(common.Address), args[1].(common.Address), &salt, args[3].([]byte))
	}).
	Handle("upgrade(address,address)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		return nil, upgradeProxy(env, args[0].(common.Address), args[1].(common.Address), nil)
	}).
	Handle("upgradeAndCall(address,address,bytes)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		return nil, upgradeProxy(env, args[0].(common.Address), args[1].(common.Address), args[2].([]byte))
	}).
	Handle("changeOwner(address,address)", changeProxyOwner).
	Handle("setProxyOwner(address,address)", changeProxyOwner).
	Handle("adminOf(address)", recordGetter(AdminSeed)).
	Handle("getProxyAdmin(address)", recordGetter(AdminSeed)).
	Handle("implementationOf(address)", recordGetter(ImplementationSeed)).
	Handle("getProxyImplementation(address)", recordGetter(ImplementationSeed)).
	Handle("ownerOf(address)", recordGetter(OwnerSeed)).
	Handle("getProxyOwner(address)", recordGetter(OwnerSeed)).
	Handle("computeProxyAddress(uint256)", computeCreateProxyAddress).
	Handle("computeProxyAddress(address,bytes32,bytes)", computeCreate2ProxyAddress)

// ProxyForge deploys transparent proxies, owns each proxy's admin and
// mediates upgrades and ownership changes for the recorded owner.
type ProxyForge struct{}

func (f *ProxyForge) Run(env *chain.Env, input []byte) ([]byte, error) {
	ret, matched, err := forgeRouter.Dispatch(env, input)
	if !matched {
		return nil, chain.NewRevert(nil)
	}
	return ret, err
}

// ProxyInitCode is the creation code the factory deploys for a proxy.
func ProxyInitCode(implementation, factory common.Address, data []byte) []byte {
	if data == nil {
		data = []byte{}
	}
	return append(TransparentProxyArtifact.Bytecode(), proxyBinding.PackConstructor(implementation, factory, data)...)
}

// AdminAddress is where proxy creates its MinimalAdmin.
func AdminAddress(proxy common.Address) common.Address {
	return address.MustComputeCreateAddress(proxy, AdminNonce)
}

func records(env *chain.Env) *slotstore.Store {
	return slotstore.New(env)
}

func deployProxy(env *chain.Env, implementation, owner common.Address, salt *[32]byte, data []byte) ([]interface{}, error) {
	if env.CodeSize(implementation) == 0 {
		return nil, Revert(forgeABI, "InvalidProxyImplementation", implementation)
	}
	if owner == (common.Address{}) {
		return nil, Revert(forgeABI, "InvalidProxyOwner", owner)
	}
	if salt != nil && !address.SaltPermitted(*salt, env.Caller) {
		return nil, Revert(forgeABI, "InvalidSalt", *salt)
	}

	initCode := ProxyInitCode(implementation, env.Address, data)
	var (
		proxy common.Address
		err   error
	)
	if salt == nil {
		proxy, err = env.Create(initCode, env.Value)
	} else {
		proxy, err = env.Create2(initCode, *salt, env.Value)
	}
	if err != nil {
		if payload := chain.RevertData(err); len(payload) > 0 {
			return nil, chain.NewRevert(payload)
		}
		return nil, Revert(forgeABI, "DeploymentFailed")
	}

	admin := AdminAddress(proxy)
	store := records(env)
	store.SetAddress(proxy, AdminSeed, admin)
	store.SetAddress(proxy, ImplementationSeed, implementation)
	store.SetAddress(proxy, OwnerSeed, owner)

	Emit(env, forgeABI, "ProxyImplementationChanged", proxy, implementation)
	Emit(env, forgeABI, "ProxyAdminChanged", proxy, admin)
	Emit(env, forgeABI, "ProxyOwnerChanged", proxy, owner)

	return []interface{}{proxy}, nil
}

// upgradeProxy calls out to the admin before recording the new
// implementation; a reentrant initializer still sees the old record.
func upgradeProxy(env *chain.Env, proxy, implementation common.Address, data []byte) error {
	store := records(env)
	if !isRecordedOwner(store, proxy, env.Caller) {
		return Revert(forgeABI, "UnauthorizedAccount", env.Caller)
	}
	if env.CodeSize(implementation) == 0 || implementation == store.GetAddress(proxy, ImplementationSeed) {
		return Revert(forgeABI, "InvalidProxyImplementation", implementation)
	}
	if data == nil {
		data = []byte{}
	}

	admin := store.GetAddress(proxy, AdminSeed)
	if _, err := env.Call(admin, adminBinding.PackUpgradeAndCall(proxy, implementation, data), env.Value); err != nil {
		if payload := chain.RevertData(err); len(payload) > 0 {
			return chain.NewRevert(payload)
		}
		return Revert(forgeABI, "UpgradeFailed")
	}

	store.SetAddress(proxy, ImplementationSeed, implementation)
	Emit(env, forgeABI, "ProxyImplementationChanged", proxy, implementation)
	return nil
}

func changeProxyOwner(env *chain.Env, args []interface{}) ([]interface{}, error) {
	proxy := args[0].(common.Address)
	newOwner := args[1].(common.Address)

	store := records(env)
	if !isRecordedOwner(store, proxy, env.Caller) {
		return nil, Revert(forgeABI, "UnauthorizedAccount", env.Caller)
	}
	if newOwner == (common.Address{}) {
		return nil, Revert(forgeABI, "InvalidProxyOwner", newOwner)
	}
	store.SetAddress(proxy, OwnerSeed, newOwner)
	Emit(env, forgeABI, "ProxyOwnerChanged", proxy, newOwner)
	return nil, nil
}

// isRecordedOwner reports whether caller owns proxy. Addresses the factory
// never deployed have no owner, so nobody passes for them.
func isRecordedOwner(store *slotstore.Store, proxy, caller common.Address) bool {
	owner := store.GetAddress(proxy, OwnerSeed)
	return owner != (common.Address{}) && owner == caller
}

func recordGetter(seed slotstore.Seed) Handler {
	return func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		return []interface{}{records(env).GetAddress(args[0].(common.Address), seed)}, nil
	}
}

func computeCreateProxyAddress(env *chain.Env, args []interface{}) ([]interface{}, error) {
	nonce := args[0].(*big.Int)
	if !nonce.IsUint64() || nonce.Uint64() > address.MaxNonce {
		return nil, Revert(forgeABI, "InvalidNonce", nonce)
	}
	proxy, err := address.ComputeCreateAddress(env.Address, nonce.Uint64())
	if err != nil {
		return nil, Revert(forgeABI, "InvalidNonce", nonce)
	}
	return []interface{}{proxy}, nil
}

func computeCreate2ProxyAddress(env *chain.Env, args []interface{}) ([]interface{}, error) {
	implementation := args[0].(common.Address)
	salt := args[1].([32]byte)
	data := args[2].([]byte)
	initCode := ProxyInitCode(implementation, env.Address, data)
	return []interface{}{address.ComputeCreate2AddressFromCode(env.Address, salt, initCode)}, nil
}

// Artifacts returns the factory, proxy and admin artifacts.
func Artifacts() []*chain.Artifact {
	return []*chain.Artifact{ProxyForgeArtifact, TransparentProxyArtifact, MinimalAdminArtifact}
}
