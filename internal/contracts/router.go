package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

// Handler serves one ABI method. Args are the decoded inputs, the returned
// values are packed with the method's outputs.
type Handler func(env *chain.Env, args []interface{}) ([]interface{}, error)

type route struct {
	method abi.Method
	fn     Handler
}

// Router dispatches calldata to handlers by selector, enforcing payability
// and input decoding the way compiled contracts do.
type Router struct {
	abi    abi.ABI
	routes map[[4]byte]route
}

// NewRouter returns a router over contractABI with no routes.
func NewRouter(contractABI abi.ABI) *Router {
	return &Router{abi: contractABI, routes: make(map[[4]byte]route)}
}

// Handle routes the method with canonical signature sig to fn.
func (r *Router) Handle(sig string, fn Handler) *Router {
	for _, m := range r.abi.Methods {
		if m.Sig == sig {
			r.routes[[4]byte(m.ID)] = route{method: m, fn: fn}
			return r
		}
	}
	panic(fmt.Sprintf("router: no method %s in ABI", sig))
}

// Dispatch runs the handler selected by input. matched is false when input
// has no selector or an unknown one, leaving the fallback to the caller.
func (r *Router) Dispatch(env *chain.Env, input []byte) (ret []byte, matched bool, err error) {
	if len(input) < 4 {
		return nil, false, nil
	}
	rt, ok := r.routes[[4]byte(input[:4])]
	if !ok {
		return nil, false, nil
	}
	if !rt.method.IsPayable() && !env.Value.IsZero() {
		return nil, true, chain.NewRevert(nil)
	}
	args, err := rt.method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, true, chain.NewRevert(nil)
	}
	out, err := rt.fn(env, args)
	if err != nil {
		return nil, true, err
	}
	ret, err = rt.method.Outputs.Pack(out...)
	if err != nil {
		return nil, true, chain.Fail(fmt.Errorf("failed to pack %s outputs: %w", rt.method.Name, err))
	}
	return ret, true, nil
}

// Revert builds a custom-error revert from contractABI.
func Revert(contractABI abi.ABI, name string, args ...interface{}) error {
	data, err := bindings.PackError(contractABI, name, args...)
	if err != nil {
		panic(err)
	}
	return chain.NewRevert(data)
}

// Emit logs an event of contractABI from the current account.
func Emit(env *chain.Env, contractABI abi.ABI, name string, args ...interface{}) {
	topics, data, err := bindings.EventTopics(contractABI, name, args...)
	if err != nil {
		panic(err)
	}
	env.Log(topics, data)
}

func addressWord(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func wordAddress(word common.Hash) common.Address {
	return common.BytesToAddress(word.Bytes())
}
