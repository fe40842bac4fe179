package contracts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

// DecodedRevert is revert data matched against the known error definitions.
type DecodedRevert struct {
	// Name is the error name, "Error" for require messages, "Panic" for
	// assertion codes, or empty when nothing matched.
	Name string
	Args []interface{}
	Raw  []byte
}

func (d DecodedRevert) String() string {
	switch {
	case len(d.Raw) == 0:
		return "reverted without data"
	case d.Name == "":
		return "unknown revert " + hexutil.Encode(d.Raw)
	}
	parts := make([]string, len(d.Args))
	for i, arg := range d.Args {
		parts[i] = formatArg(arg)
	}
	return fmt.Sprintf("%s(%s)", d.Name, strings.Join(parts, ", "))
}

// KnownABIs lists every ABI whose custom errors DecodeRevert recognizes.
func KnownABIs() []abi.ABI {
	return []abi.ABI{
		forgeABI,
		proxyABI,
		adminABI,
		bindings.NewMockV1().ABI(),
		bindings.NewMockV2().ABI(),
		bindings.NewReentrantUpgrader().ABI(),
	}
}

var (
	errorStringSelector = []byte{0x08, 0xc3, 0x79, 0xa0}
	panicSelector       = []byte{0x4e, 0x48, 0x7b, 0x71}
)

// DecodeRevert names revert data using the known custom errors plus
// Error(string) and Panic(uint256).
func DecodeRevert(data []byte) DecodedRevert {
	d := DecodedRevert{Raw: data}
	if len(data) < 4 {
		return d
	}
	if bytes.Equal(data[:4], errorStringSelector) || bytes.Equal(data[:4], panicSelector) {
		if msg, err := abi.UnpackRevert(data); err == nil {
			if bytes.Equal(data[:4], errorStringSelector) {
				d.Name, d.Args = "Error", []interface{}{msg}
			} else {
				d.Name, d.Args = "Panic", []interface{}{msg}
			}
		}
		return d
	}
	for _, contractABI := range KnownABIs() {
		for name, e := range contractABI.Errors {
			if !bytes.Equal(data[:4], e.ID[:4]) {
				continue
			}
			args, err := e.Inputs.Unpack(data[4:])
			if err != nil {
				continue
			}
			d.Name, d.Args = name, args
			return d
		}
	}
	return d
}

// IsError reports whether err is a revert carrying the custom error name.
func IsError(err error, name string) bool {
	var r *chain.Revert
	if !errors.As(err, &r) {
		return false
	}
	return DecodeRevert(r.Data).Name == name
}

func formatArg(arg interface{}) string {
	switch v := arg.(type) {
	case []byte:
		return hexutil.Encode(v)
	case [32]byte:
		return hexutil.Encode(v[:])
	case [4]byte:
		return hexutil.Encode(v[:])
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
