package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FormatValue formats a decoded value for display and comparison.
// Addresses are checksummed, integers decimal, byte strings 0x-hex.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		return hexutil.Encode(v)
	case string:
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case common.Hash:
		return v.Hex()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", value)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(buf), rv)
			return hexutil.Encode(buf)
		}
	}

	if jsonBytes, err := json.Marshal(value); err == nil {
		return string(jsonBytes)
	}
	return fmt.Sprintf("%v", value)
}
