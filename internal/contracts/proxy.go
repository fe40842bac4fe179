package contracts

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

var (
	proxyBinding = bindings.NewTransparentProxy()
	proxyABI     = proxyBinding.ABI()
)

// TransparentProxyArtifact deploys a TransparentProxy(implementation, initialOwner, data).
var TransparentProxyArtifact = chain.NewArtifact("TransparentProxy", proxyABI, newTransparentProxy)

// TransparentProxy forwards every call to its implementation, except calls
// from its admin, which may only upgrade it.
type TransparentProxy struct {
	admin common.Address
}

// Admin is the MinimalAdmin created by the proxy's constructor.
func (p *TransparentProxy) Admin() common.Address {
	return p.admin
}

// newTransparentProxy sets the implementation, runs the optional
// initializer, then creates the admin as the proxy's first creation.
func newTransparentProxy(env *chain.Env, args []interface{}) (chain.Contract, error) {
	implementation := args[0].(common.Address)
	initialOwner := args[1].(common.Address)
	data := args[2].([]byte)

	if err := upgradeToAndCall(env, implementation, data); err != nil {
		return nil, err
	}

	initCode, err := MinimalAdminArtifact.InitCode(initialOwner)
	if err != nil {
		return nil, chain.Fail(err)
	}
	admin, err := env.Create(initCode, nil)
	if err != nil {
		return nil, err
	}
	env.SetState(bindings.AdminSlot, addressWord(admin))
	Emit(env, proxyABI, "AdminChanged", common.Address{}, admin)

	return &TransparentProxy{admin: admin}, nil
}

// Request is one inbound call, classified once by caller identity.
type Request interface {
	serve(env *chain.Env) ([]byte, error)
}

// AdminRequest is a call made by the proxy's admin.
type AdminRequest struct {
	Input []byte
}

// UserRequest is a call made by anyone else.
type UserRequest struct {
	Implementation common.Address
	Input          []byte
}

// Route classifies a call.
func (p *TransparentProxy) Route(env *chain.Env, input []byte) Request {
	if env.Caller == p.admin {
		return AdminRequest{Input: input}
	}
	return UserRequest{Implementation: ProxyImplementation(env), Input: input}
}

func (p *TransparentProxy) Run(env *chain.Env, input []byte) ([]byte, error) {
	return p.Route(env, input).serve(env)
}

func (r AdminRequest) serve(env *chain.Env) ([]byte, error) {
	if len(r.Input) < 4 || !bytes.Equal(r.Input[:4], proxyBinding.UpgradeToAndCallSelector()) {
		return nil, Revert(proxyABI, "ProxyDeniedAdminAccess")
	}
	implementation, data, err := proxyBinding.UnpackUpgradeToAndCallInput(r.Input[4:])
	if err != nil {
		return nil, chain.NewRevert(nil)
	}
	return nil, upgradeToAndCall(env, implementation, data)
}

func (r UserRequest) serve(env *chain.Env) ([]byte, error) {
	return env.DelegateCall(r.Implementation, r.Input)
}

// ProxyImplementation reads the ERC-1967 implementation slot of the current account.
func ProxyImplementation(env *chain.Env) common.Address {
	return wordAddress(env.GetState(bindings.ImplementationSlot))
}

func upgradeToAndCall(env *chain.Env, implementation common.Address, data []byte) error {
	if env.CodeSize(implementation) == 0 {
		return Revert(proxyABI, "InvalidImplementation", implementation)
	}
	env.SetState(bindings.ImplementationSlot, addressWord(implementation))
	Emit(env, proxyABI, "Upgraded", implementation)

	if len(data) > 0 {
		_, err := env.DelegateCall(implementation, data)
		return err
	}
	if !env.Value.IsZero() {
		return Revert(proxyABI, "NonPayable")
	}
	return nil
}
