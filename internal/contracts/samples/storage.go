package samples

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

// Storage layout shared by the mock versions.
var (
	valueSlot = common.BigToHash(big.NewInt(0))
	dataSlot  = common.BigToHash(big.NewInt(1))
)

func loadUint(env *chain.Env, slot common.Hash) *big.Int {
	return env.GetState(slot).Big()
}

func storeUint(env *chain.Env, slot common.Hash, v *big.Int) {
	env.SetState(slot, common.BigToHash(v))
}

// storeString writes s with the compiler's layout: strings under 32 bytes
// live in the slot with length*2 in the last byte; longer ones store
// length*2+1 in the slot and the bytes from keccak256(slot) on.
func storeString(env *chain.Env, slot common.Hash, s string) {
	clearString(env, slot)
	b := []byte(s)
	if len(b) < 32 {
		var word common.Hash
		copy(word[:], b)
		word[31] = byte(len(b) * 2)
		env.SetState(slot, word)
		return
	}
	env.SetState(slot, common.BigToHash(big.NewInt(int64(len(b)*2+1))))
	base := crypto.Keccak256Hash(slot.Bytes()).Big()
	for i := 0; i*32 < len(b); i++ {
		var word common.Hash
		copy(word[:], b[i*32:])
		env.SetState(common.BigToHash(new(big.Int).Add(base, big.NewInt(int64(i)))), word)
	}
}

func loadString(env *chain.Env, slot common.Hash) string {
	word := env.GetState(slot)
	if word[31]&1 == 0 {
		n := int(word[31]) / 2
		return string(word[:n])
	}
	n := int((word.Big().Int64() - 1) / 2)
	base := crypto.Keccak256Hash(slot.Bytes()).Big()
	out := make([]byte, 0, n)
	for i := 0; len(out) < n; i++ {
		chunk := env.GetState(common.BigToHash(new(big.Int).Add(base, big.NewInt(int64(i)))))
		out = append(out, chunk[:min(32, n-len(out))]...)
	}
	return string(out)
}

func clearString(env *chain.Env, slot common.Hash) {
	word := env.GetState(slot)
	if word[31]&1 == 1 {
		n := int((word.Big().Int64() - 1) / 2)
		base := crypto.Keccak256Hash(slot.Bytes()).Big()
		for i := 0; i*32 < n; i++ {
			env.SetState(common.BigToHash(new(big.Int).Add(base, big.NewInt(int64(i)))), common.Hash{})
		}
	}
	env.SetState(slot, common.Hash{})
}
