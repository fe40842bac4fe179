package contracts

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

// UpgradeInterfaceVersion is reported by UPGRADE_INTERFACE_VERSION() for
// tooling that probes the upgrade interface.
const UpgradeInterfaceVersion = "5.0.0"

var (
	adminBinding = bindings.NewMinimalAdmin()
	adminABI     = adminBinding.ABI()

	// ownerSlot is storage slot 0.
	ownerSlot = common.Hash{}
)

// MinimalAdminArtifact deploys a MinimalAdmin(initialOwner).
var MinimalAdminArtifact = chain.NewArtifact("MinimalAdmin", adminABI, newMinimalAdmin)

var adminRouter = NewRouter(adminABI).
	Handle("owner()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
		return []interface{}{adminOwner(env)}, nil
	}).
	Handle("UPGRADE_INTERFACE_VERSION()", func(*chain.Env, []interface{}) ([]interface{}, error) {
		return []interface{}{UpgradeInterfaceVersion}, nil
	}).
	Handle("transferOwnership(address)", adminTransferOwnership).
	Handle("upgradeAndCall(address,address,bytes)", adminUpgradeAndCall)

// MinimalAdmin is the per-proxy access controller. Its only state is the
// owner; the owner may hand over ownership or ask the proxy to upgrade.
type MinimalAdmin struct{}

func newMinimalAdmin(env *chain.Env, args []interface{}) (chain.Contract, error) {
	initialOwner := args[0].(common.Address)
	if initialOwner == (common.Address{}) {
		return nil, Revert(adminABI, "InvalidNewOwner", initialOwner)
	}
	setAdminOwner(env, initialOwner)
	return &MinimalAdmin{}, nil
}

func (a *MinimalAdmin) Run(env *chain.Env, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, Revert(adminABI, "InvalidCalldataLength")
	}
	ret, matched, err := adminRouter.Dispatch(env, input)
	if !matched {
		return nil, Revert(adminABI, "InvalidSelector")
	}
	return ret, err
}

func adminOwner(env *chain.Env) common.Address {
	return wordAddress(env.GetState(ownerSlot))
}

func setAdminOwner(env *chain.Env, newOwner common.Address) {
	previous := adminOwner(env)
	env.SetState(ownerSlot, addressWord(newOwner))
	Emit(env, adminABI, "OwnershipTransferred", previous, newOwner)
}

func adminTransferOwnership(env *chain.Env, args []interface{}) ([]interface{}, error) {
	newOwner := args[0].(common.Address)
	if env.Caller != adminOwner(env) {
		return nil, Revert(adminABI, "UnauthorizedAccount", env.Caller)
	}
	if newOwner == (common.Address{}) {
		return nil, Revert(adminABI, "InvalidNewOwner", newOwner)
	}
	setAdminOwner(env, newOwner)
	return nil, nil
}

// adminUpgradeAndCall relays to the proxy's upgradeToAndCall with the
// attached value. The proxy's revert data is returned untouched.
func adminUpgradeAndCall(env *chain.Env, args []interface{}) ([]interface{}, error) {
	proxy := args[0].(common.Address)
	implementation := args[1].(common.Address)
	data := args[2].([]byte)

	if env.Caller != adminOwner(env) {
		return nil, Revert(adminABI, "UnauthorizedAccount", env.Caller)
	}
	if _, err := env.Call(proxy, proxyBinding.PackUpgradeToAndCall(implementation, data), env.Value); err != nil {
		return nil, err
	}
	return nil, nil
}
