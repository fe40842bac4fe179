// Package address derives contract addresses exactly the way the EVM
// assigns them for CREATE and CREATE2.
package address

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// MaxNonce is the highest account nonce that can still perform a CREATE (EIP-2681).
const MaxNonce uint64 = math.MaxUint64 - 1

// ErrNonceTooHigh is returned for nonces at or above 2^64-1.
var ErrNonceTooHigh = errors.New("nonce too high")

// create2Prefix is the domain separator byte of the CREATE2 preimage.
const create2Prefix = 0xff

// CreatePreimage returns rlp([deployer, nonce]), the bytes hashed by CREATE.
//
// A zero nonce is the empty string (0x80), nonces below 0x80 are a single
// byte and anything larger is a length-prefixed big-endian string.
func CreatePreimage(deployer common.Address, nonce uint64) ([]byte, error) {
	if nonce > MaxNonce {
		return nil, fmt.Errorf("%w: %d", ErrNonceTooHigh, nonce)
	}
	enc, err := rlp.EncodeToBytes([]interface{}{deployer, nonce})
	if err != nil {
		return nil, fmt.Errorf("failed to rlp encode create preimage: %w", err)
	}
	return enc, nil
}

// ComputeCreateAddress returns the address a CREATE from deployer at nonce produces.
func ComputeCreateAddress(deployer common.Address, nonce uint64) (common.Address, error) {
	preimage, err := CreatePreimage(deployer, nonce)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(crypto.Keccak256(preimage)[12:]), nil
}

// MustComputeCreateAddress is ComputeCreateAddress for nonces known to be valid.
func MustComputeCreateAddress(deployer common.Address, nonce uint64) common.Address {
	addr, err := ComputeCreateAddress(deployer, nonce)
	if err != nil {
		panic(err)
	}
	return addr
}

// Create2Preimage returns 0xff ‖ deployer ‖ salt ‖ initCodeHash.
func Create2Preimage(deployer common.Address, salt [32]byte, initCodeHash common.Hash) []byte {
	buf := make([]byte, 0, 1+common.AddressLength+2*common.HashLength)
	buf = append(buf, create2Prefix)
	buf = append(buf, deployer.Bytes()...)
	buf = append(buf, salt[:]...)
	buf = append(buf, initCodeHash.Bytes()...)
	return buf
}

// ComputeCreate2Address returns the address a CREATE2 from deployer produces.
// Every salt and hash is valid.
func ComputeCreate2Address(deployer common.Address, salt [32]byte, initCodeHash common.Hash) common.Address {
	return common.BytesToAddress(crypto.Keccak256(Create2Preimage(deployer, salt, initCodeHash))[12:])
}

// InitCodeHash hashes creation code for CREATE2.
func InitCodeHash(initCode []byte) common.Hash {
	return crypto.Keccak256Hash(initCode)
}

// ComputeCreate2AddressFromCode hashes initCode and derives the CREATE2 address.
func ComputeCreate2AddressFromCode(deployer common.Address, salt [32]byte, initCode []byte) common.Address {
	return ComputeCreate2Address(deployer, salt, InitCodeHash(initCode))
}

// SaltOwner returns the address held in the leading 20 bytes of salt.
func SaltOwner(salt [32]byte) common.Address {
	return common.BytesToAddress(salt[:common.AddressLength])
}

// SaltPermitted reports whether caller may deploy with salt: the leading
// 20 bytes must be zero or equal to caller.
func SaltPermitted(salt [32]byte, caller common.Address) bool {
	owner := SaltOwner(salt)
	return owner == (common.Address{}) || owner == caller
}

// ErrSaltSuffix is returned when a salt suffix does not fit in 96 bits.
var ErrSaltSuffix = errors.New("salt suffix must be an integer below 2^96")

// ComposeSalt puts owner in the leading 20 bytes and n in the trailing 12.
// Only owner (or anyone, for the zero address) may deploy with the result.
func ComposeSalt(owner common.Address, n *big.Int) (common.Hash, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > 96 {
		return common.Hash{}, ErrSaltSuffix
	}
	var salt common.Hash
	copy(salt[:common.AddressLength], owner.Bytes())
	n.FillBytes(salt[common.AddressLength:])
	return salt, nil
}
