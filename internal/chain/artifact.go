package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Contract is the runtime of a deployed account. Run executes one call frame.
// Implementations keep only immutable values on the instance; everything
// mutable lives in storage reached through env.
type Contract interface {
	Run(env *Env, input []byte) ([]byte, error)
}

// ConstructFunc runs a constructor with decoded arguments and returns the
// runtime that will serve calls to the new account.
type ConstructFunc func(env *Env, args []interface{}) (Contract, error)

// Artifact is a deployable contract type: creation code is a fixed
// 32-byte tag followed by ABI-encoded constructor arguments.
type Artifact struct {
	Name      string
	ABI       abi.ABI
	Construct ConstructFunc

	bytecode         common.Hash
	deployedBytecode common.Hash
}

// NewArtifact derives the creation and runtime tags from name.
func NewArtifact(name string, contractABI abi.ABI, construct ConstructFunc) *Artifact {
	return &Artifact{
		Name:             name,
		ABI:              contractABI,
		Construct:        construct,
		bytecode:         crypto.Keccak256Hash([]byte("proxyforge.creation." + name)),
		deployedBytecode: crypto.Keccak256Hash([]byte("proxyforge.runtime." + name)),
	}
}

// Bytecode is the creation code prefix.
func (a *Artifact) Bytecode() []byte {
	return a.bytecode.Bytes()
}

// DeployedBytecode is the code stored at deployed instances.
func (a *Artifact) DeployedBytecode() []byte {
	return a.deployedBytecode.Bytes()
}

// InitCode returns the creation code for the given constructor arguments.
func (a *Artifact) InitCode(args ...interface{}) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s constructor: %w", a.Name, err)
	}
	return append(a.Bytecode(), packed...), nil
}

// MustInitCode is InitCode for arguments known to match the constructor.
func (a *Artifact) MustInitCode(args ...interface{}) []byte {
	code, err := a.InitCode(args...)
	if err != nil {
		panic(err)
	}
	return code
}

func (a *Artifact) decodeArgs(initCode []byte) ([]interface{}, error) {
	args, err := a.ABI.Constructor.Inputs.Unpack(initCode[common.HashLength:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConstructorArgs, a.Name, err)
	}
	return args, nil
}

// ContractFunc adapts a plain function to Contract.
type ContractFunc func(env *Env, input []byte) ([]byte, error)

func (f ContractFunc) Run(env *Env, input []byte) ([]byte, error) {
	return f(env, input)
}
