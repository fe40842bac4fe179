package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// MaxCallDepth is the deepest frame the host will open.
const MaxCallDepth = 1024

// Env is the execution context of one call frame.
type Env struct {
	// Caller is msg.sender of the frame.
	Caller common.Address
	// Address is the account whose storage and balance the frame acts on.
	Address common.Address
	// CodeAddress is the account whose code runs. It differs from Address
	// under DELEGATECALL.
	CodeAddress common.Address
	// Value is msg.value of the frame.
	Value *uint256.Int

	host   *Host
	depth  int
	static bool
	fault  error
}

// GetState reads a storage word of the current account.
func (e *Env) GetState(key common.Hash) common.Hash {
	return e.host.state.getState(e.Address, key)
}

// SetState writes a storage word of the current account. Writes inside a
// static frame fail the frame once the contract returns.
func (e *Env) SetState(key, value common.Hash) {
	if e.static {
		e.fault = ErrWriteProtection
		return
	}
	e.host.state.setState(e.Address, key, value)
}

// Log emits an event from the current account.
func (e *Env) Log(topics []common.Hash, data []byte) {
	if e.static {
		e.fault = ErrWriteProtection
		return
	}
	e.host.state.addLog(&types.Log{
		Address: e.Address,
		Topics:  topics,
		Data:    common.CopyBytes(data),
	})
}

// CodeSize returns the length of the code stored at addr.
func (e *Env) CodeSize(addr common.Address) int {
	return len(e.host.state.code(addr))
}

func (e *Env) Balance(addr common.Address) *uint256.Int {
	return e.host.state.balance(addr)
}

func (e *Env) Nonce(addr common.Address) uint64 {
	return e.host.state.nonce(addr)
}

// Call runs to's code against to's storage, transferring value from the
// current account.
func (e *Env) Call(to common.Address, input []byte, value *uint256.Int) ([]byte, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	if e.static && !value.IsZero() {
		return nil, Fail(ErrWriteProtection)
	}
	child := &Env{
		Caller:      e.Address,
		Address:     to,
		CodeAddress: to,
		Value:       value,
		host:        e.host,
		depth:       e.depth + 1,
		static:      e.static,
	}
	return e.host.call(child, input, true)
}

// StaticCall is Call without value in a frame that may not modify state.
func (e *Env) StaticCall(to common.Address, input []byte) ([]byte, error) {
	child := &Env{
		Caller:      e.Address,
		Address:     to,
		CodeAddress: to,
		Value:       new(uint256.Int),
		host:        e.host,
		depth:       e.depth + 1,
		static:      true,
	}
	return e.host.call(child, input, true)
}

// DelegateCall runs to's code against the current account, keeping the
// caller and value of the current frame.
func (e *Env) DelegateCall(to common.Address, input []byte) ([]byte, error) {
	child := &Env{
		Caller:      e.Caller,
		Address:     e.Address,
		CodeAddress: to,
		Value:       e.Value,
		host:        e.host,
		depth:       e.depth + 1,
		static:      e.static,
	}
	return e.host.call(child, input, false)
}

// Create deploys initCode at CREATE(current account, nonce).
func (e *Env) Create(initCode []byte, value *uint256.Int) (common.Address, error) {
	nonce := e.host.state.nonce(e.Address)
	return e.host.create(e, initCode, value, crypto.CreateAddress(e.Address, nonce))
}

// Create2 deploys initCode at CREATE2(current account, salt, keccak(initCode)).
func (e *Env) Create2(initCode []byte, salt [32]byte, value *uint256.Int) (common.Address, error) {
	return e.host.create(e, initCode, value, crypto.CreateAddress2(e.Address, salt, crypto.Keccak256(initCode)))
}
