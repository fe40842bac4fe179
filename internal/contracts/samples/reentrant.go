package samples

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
)

var (
	reentrantABI = bindings.NewReentrantUpgrader().ABI()
	forge        = bindings.NewProxyForge()

	observedSlot = common.BigToHash(big.NewInt(10))
	succeedSlot  = common.BigToHash(big.NewInt(11))
	revertSlot   = common.BigToHash(big.NewInt(12))
)

// ReentrantUpgraderArtifact deploys a ReentrantUpgrader(factory).
var ReentrantUpgraderArtifact = chain.NewArtifact("ReentrantUpgrader", reentrantABI, func(_ *chain.Env, args []interface{}) (chain.Contract, error) {
	return &ReentrantUpgrader{factory: args[0].(common.Address)}, nil
})

// ReentrantUpgrader is an implementation whose initializer, running inside
// the proxy during an upgrade, reads the factory's record for the proxy and
// tries to upgrade the proxy again. Both observations are kept in storage.
type ReentrantUpgrader struct {
	factory common.Address
}

func (r *ReentrantUpgrader) Run(env *chain.Env, input []byte) ([]byte, error) {
	ret, matched, err := r.router().Dispatch(env, input)
	if !matched {
		return nil, chain.NewRevert(nil)
	}
	return ret, err
}

func (r *ReentrantUpgrader) router() *contracts.Router {
	return contracts.NewRouter(reentrantABI).
		Handle("initialize()", r.initialize).
		Handle("observedImplementation()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
			return []interface{}{common.BytesToAddress(env.GetState(observedSlot).Bytes())}, nil
		}).
		Handle("reentrySucceeded()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
			return []interface{}{env.GetState(succeedSlot) != (common.Hash{})}, nil
		}).
		Handle("reentryRevert()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
			var sel [4]byte
			copy(sel[:], env.GetState(revertSlot).Bytes())
			return []interface{}{sel}, nil
		}).
		Handle("version()", constant(big.NewInt(3)))
}

func (r *ReentrantUpgrader) initialize(env *chain.Env, _ []interface{}) ([]interface{}, error) {
	proxy := env.Address

	ret, err := env.StaticCall(r.factory, forge.PackImplementationOf(proxy))
	if err != nil {
		return nil, err
	}
	observed, err := forge.UnpackImplementationOf(ret)
	if err != nil {
		return nil, chain.Fail(err)
	}
	env.SetState(observedSlot, common.BytesToHash(observed.Bytes()))

	// Try to take over the upgrade; the factory sees the proxy as caller.
	if _, err := env.Call(r.factory, forge.PackUpgrade(proxy, env.CodeAddress), nil); err != nil {
		var word common.Hash
		copy(word[:], chain.RevertData(err))
		env.SetState(revertSlot, word)
		return nil, nil
	}
	env.SetState(succeedSlot, common.BigToHash(big.NewInt(1)))
	return nil, nil
}
