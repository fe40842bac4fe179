package samples

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
)

// FailureMessage is the reason string of MockV1.fail().
const FailureMessage = "MockV1: failure"

var (
	mockV1ABI = bindings.NewMockV1().ABI()
	mockV2ABI = bindings.NewMockV2().ABI()
)

// MockV1Artifact is the first version of the value store.
var MockV1Artifact = chain.NewArtifact("MockV1", mockV1ABI, func(*chain.Env, []interface{}) (chain.Contract, error) {
	return routed{mockV1Router}, nil
})

// MockV2Artifact adds a string to the value store, keeping slot 0.
var MockV2Artifact = chain.NewArtifact("MockV2", mockV2ABI, func(*chain.Env, []interface{}) (chain.Contract, error) {
	return routed{mockV2Router}, nil
})

var mockV1Router = contracts.NewRouter(mockV1ABI).
	Handle("initialize(uint256)", setValue).
	Handle("setValue(uint256)", setValue).
	Handle("getValue()", getValue).
	Handle("version()", constant(big.NewInt(1))).
	Handle("whoami()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
		return []interface{}{env.Caller, env.Address}, nil
	}).
	Handle("fail()", func(*chain.Env, []interface{}) ([]interface{}, error) {
		return nil, chain.NewRevert(errorString(FailureMessage))
	}).
	Handle("failCustom(uint256)", func(_ *chain.Env, args []interface{}) ([]interface{}, error) {
		return nil, contracts.Revert(mockV1ABI, "MockFailure", args[0].(*big.Int))
	})

var mockV2Router = contracts.NewRouter(mockV2ABI).
	Handle("initialize(string)", func(env *chain.Env, args []interface{}) ([]interface{}, error) {
		storeString(env, dataSlot, args[0].(string))
		return nil, nil
	}).
	Handle("getValue()", getValue).
	Handle("getData()", func(env *chain.Env, _ []interface{}) ([]interface{}, error) {
		return []interface{}{loadString(env, dataSlot)}, nil
	}).
	Handle("version()", constant(big.NewInt(2)))

// routed serves calls through a router and reverts without data on unknown
// selectors.
type routed struct {
	router *contracts.Router
}

func (r routed) Run(env *chain.Env, input []byte) ([]byte, error) {
	ret, matched, err := r.router.Dispatch(env, input)
	if !matched {
		return nil, chain.NewRevert(nil)
	}
	return ret, err
}

func setValue(env *chain.Env, args []interface{}) ([]interface{}, error) {
	v := args[0].(*big.Int)
	storeUint(env, valueSlot, v)
	contracts.Emit(env, mockV1ABI, "ValueChanged", v)
	return nil, nil
}

func getValue(env *chain.Env, _ []interface{}) ([]interface{}, error) {
	return []interface{}{loadUint(env, valueSlot)}, nil
}

func constant(v *big.Int) contracts.Handler {
	return func(*chain.Env, []interface{}) ([]interface{}, error) {
		return []interface{}{v}, nil
	}
}

// errorString encodes Error(string).
func errorString(msg string) []byte {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	enc, err := abi.Arguments{{Type: stringType}}.Pack(msg)
	if err != nil {
		panic(err)
	}
	return append([]byte{0x08, 0xc3, 0x79, 0xa0}, enc...)
}
