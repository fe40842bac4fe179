package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

func parseAddress(flag, raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("--%s: %w: %q", flag, domain.ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}

// parseSalt accepts a hex word of up to 32 bytes or "<address>:<n>", which
// puts the address in the upper 20 bytes and n below it
func parseSalt(raw string) (common.Hash, error) {
	if prefix, suffix, ok := strings.Cut(raw, ":"); ok {
		owner, err := parseAddress("salt", prefix)
		if err != nil {
			return common.Hash{}, err
		}
		n, ok := new(big.Int).SetString(suffix, 0)
		if !ok {
			return common.Hash{}, fmt.Errorf("--salt: invalid suffix %q", suffix)
		}
		salt, err := address.ComposeSalt(owner, n)
		if err != nil {
			return common.Hash{}, fmt.Errorf("--salt: %w", err)
		}
		return salt, nil
	}

	b, err := hexutil.Decode(raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("--salt: %w", err)
	}
	if len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("--salt: %d bytes is longer than a word", len(b))
	}
	return common.BytesToHash(b), nil
}

func parseHexData(flag, raw string) ([]byte, error) {
	if raw == "" || raw == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return b, nil
}

func parseUint(flag, raw string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("--%s: want a non-negative integer, got %q", flag, raw)
	}
	return n, nil
}
