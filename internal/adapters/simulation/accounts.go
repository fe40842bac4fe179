package simulation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/proxyforge/internal/domain"
)

var privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// AccountAddress resolves an account description to an address: a hex
// address is used as is, a hex private key gives its signer address, and
// any other name derives a stable address from the name.
func AccountAddress(name string) (common.Address, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return common.Address{}, fmt.Errorf("%w: empty name", domain.ErrUnknownAccount)
	case common.IsHexAddress(name):
		return common.HexToAddress(name), nil
	case privateKeyPattern.MatchString(name):
		key, err := crypto.HexToECDSA(strings.TrimPrefix(name, "0x"))
		if err != nil {
			return common.Address{}, fmt.Errorf("invalid private key: %w", err)
		}
		return crypto.PubkeyToAddress(key.PublicKey), nil
	}
	return common.BytesToAddress(crypto.Keccak256([]byte("proxyforge.account." + name))[12:]), nil
}
