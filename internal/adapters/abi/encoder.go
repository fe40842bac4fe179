package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressResolver turns a reference (account name, saved proxy, hex
// address) into an address.
type AddressResolver func(ref string) (common.Address, error)

// ParseSignature parses "name(type,...)" into a method with those inputs.
// Tuples are not supported.
func ParseSignature(signature string) (ethabi.Method, error) {
	signature = strings.TrimSpace(signature)
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return ethabi.Method{}, fmt.Errorf("invalid signature %q: want name(type,...)", signature)
	}
	name := signature[:open]
	inner := strings.TrimSpace(signature[open+1 : len(signature)-1])

	inputs, err := ParseTypes(splitTypes(inner))
	if err != nil {
		return ethabi.Method{}, fmt.Errorf("invalid signature %q: %w", signature, err)
	}
	return ethabi.NewMethod(name, name, ethabi.Function, "payable", false, true, inputs, nil), nil
}

// ParseTypes builds unnamed arguments from type names.
func ParseTypes(typeNames []string) (ethabi.Arguments, error) {
	args := make(ethabi.Arguments, 0, len(typeNames))
	for _, typeName := range typeNames {
		typ, err := ethabi.NewType(strings.TrimSpace(typeName), "", nil)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", typeName, err)
		}
		args = append(args, ethabi.Argument{Type: typ})
	}
	return args, nil
}

func splitTypes(inner string) []string {
	if inner == "" {
		return nil
	}
	return strings.Split(inner, ",")
}

// EncodeCall packs calldata for a signature from string arguments.
func EncodeCall(signature string, rawArgs []string, resolve AddressResolver) ([]byte, error) {
	method, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(rawArgs) != len(method.Inputs) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", method.Sig, len(method.Inputs), len(rawArgs))
	}

	values := make([]interface{}, len(rawArgs))
	for i, raw := range rawArgs {
		values[i], err = ParseValue(method.Inputs[i].Type, raw, resolve)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", method.Sig, i, err)
		}
	}
	packed, err := method.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method.Sig, err)
	}
	return append(method.ID, packed...), nil
}

// DecodeReturns unpacks return data into formatted values.
func DecodeReturns(typeNames []string, data []byte) ([]string, error) {
	args, err := ParseTypes(typeNames)
	if err != nil {
		return nil, err
	}
	values, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack return data: %w", err)
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = FormatValue(v)
	}
	return out, nil
}

// NormalizeValue parses raw as typeName and formats it the way
// DecodeReturns formats the same value.
func NormalizeValue(typeName, raw string, resolve AddressResolver) (string, error) {
	typ, err := ethabi.NewType(typeName, "", nil)
	if err != nil {
		return "", err
	}
	v, err := ParseValue(typ, raw, resolve)
	if err != nil {
		return "", err
	}
	return FormatValue(v), nil
}

// ParseValue converts a string into the Go value go-ethereum packs for typ.
func ParseValue(typ ethabi.Type, raw string, resolve AddressResolver) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch typ.T {
	case ethabi.AddressTy:
		if common.IsHexAddress(raw) {
			return common.HexToAddress(raw), nil
		}
		if resolve == nil {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return resolve(raw)

	case ethabi.BoolTy:
		return strconv.ParseBool(raw)

	case ethabi.StringTy:
		return raw, nil

	case ethabi.BytesTy:
		return hexutil.Decode(raw)

	case ethabi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("%d bytes do not fit %s", len(b), typ)
		}
		out := reflect.New(typ.GetType()).Elem()
		reflect.Copy(out, reflect.ValueOf(b))
		return out.Interface(), nil

	case ethabi.UintTy, ethabi.IntTy:
		return parseInteger(typ, raw)
	}
	return nil, fmt.Errorf("unsupported type %s", typ)
}

func parseInteger(typ ethabi.Type, raw string) (interface{}, error) {
	v, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if typ.T == ethabi.UintTy && (v.Sign() < 0 || v.BitLen() > typ.Size) {
		return nil, fmt.Errorf("%s out of range for %s", raw, typ)
	}
	if typ.T == ethabi.IntTy && new(big.Int).Abs(v).BitLen() >= typ.Size && !isMinInt(v, typ.Size) {
		return nil, fmt.Errorf("%s out of range for %s", raw, typ)
	}

	goType := typ.GetType()
	switch goType.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(v.Uint64()).Convert(goType).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(v.Int64()).Convert(goType).Interface(), nil
	}
	return v, nil
}

func isMinInt(v *big.Int, size int) bool {
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(size-1)))
	return v.Cmp(min) == 0
}
