// Package bindings holds the ABIs of the proxy system and typed helpers to
// pack calls, unpack results, decode events and build custom-error payloads.
package bindings

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrEventSignatureMismatch is returned when a log's topic0 is not the expected event.
var ErrEventSignatureMismatch = errors.New("event signature mismatch")

func unpackEvent(contractABI abi.ABI, event string, log *types.Log, out interface{}) error {
	ev, ok := contractABI.Events[event]
	if !ok {
		return fmt.Errorf("unknown event %s", event)
	}
	if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
		return ErrEventSignatureMismatch
	}
	if len(log.Data) > 0 {
		if err := contractABI.UnpackIntoInterface(out, event, log.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}

// PackError encodes a custom error as selector followed by its ABI-encoded arguments.
func PackError(contractABI abi.ABI, name string, args ...interface{}) ([]byte, error) {
	e, ok := contractABI.Errors[name]
	if !ok {
		return nil, fmt.Errorf("unknown error %s", name)
	}
	enc, err := e.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack error %s: %w", name, err)
	}
	return append(common.CopyBytes(e.ID[:4]), enc...), nil
}

// EventTopics builds the topic list of an event from its indexed arguments,
// in declaration order. Non-indexed arguments are packed into the returned data.
func EventTopics(contractABI abi.ABI, name string, args ...interface{}) ([]common.Hash, []byte, error) {
	ev, ok := contractABI.Events[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown event %s", name)
	}
	if len(args) != len(ev.Inputs) {
		return nil, nil, fmt.Errorf("event %s: have %d arguments, want %d", name, len(args), len(ev.Inputs))
	}

	topics := []common.Hash{ev.ID}
	var (
		nonIndexed abi.Arguments
		values     []interface{}
	)
	for i, arg := range ev.Inputs {
		if !arg.Indexed {
			nonIndexed = append(nonIndexed, arg)
			values = append(values, args[i])
			continue
		}
		rules, err := abi.MakeTopics([]interface{}{args[i]})
		if err != nil {
			return nil, nil, fmt.Errorf("event %s: %w", name, err)
		}
		topics = append(topics, rules[0][0])
	}
	data, err := nonIndexed.Pack(values...)
	if err != nil {
		return nil, nil, fmt.Errorf("event %s: %w", name, err)
	}
	return topics, data, nil
}
