package abi

import (
	"log/slog"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

type namedABI struct {
	name string
	abi  ethabi.ABI
}

// EventDecoder decodes logs and revert data of the proxy system and the
// sample implementations.
type EventDecoder struct {
	abis []namedABI
	log  *slog.Logger
}

// NewEventDecoder creates a decoder over every known contract interface
func NewEventDecoder(log *slog.Logger) *EventDecoder {
	return &EventDecoder{
		abis: []namedABI{
			{"ProxyForge", bindings.NewProxyForge().ABI()},
			{"TransparentProxy", bindings.NewTransparentProxy().ABI()},
			{"MinimalAdmin", bindings.NewMinimalAdmin().ABI()},
			{"MockV1", bindings.NewMockV1().ABI()},
			{"MockV2", bindings.NewMockV2().ABI()},
			{"ReentrantUpgrader", bindings.NewReentrantUpgrader().ABI()},
		},
		log: log.With("component", "EventDecoder"),
	}
}

// DecodeLog names a log and its arguments. Logs no known event matches keep
// an empty name and carry their raw topics and data.
func (e *EventDecoder) DecodeLog(log *types.Log) models.Event {
	event := models.Event{
		Address: log.Address,
		Topics:  log.Topics,
		Data:    log.Data,
	}
	if len(log.Topics) == 0 {
		return event
	}

	for _, candidate := range e.abis {
		abiEvent, err := candidate.abi.EventByID(log.Topics[0])
		if err != nil {
			continue
		}
		args, err := decodeEventArgs(abiEvent, log)
		if err != nil {
			e.log.Debug("Failed to decode event", "event", abiEvent.Name, "error", err)
			continue
		}
		event.Contract = candidate.name
		event.Name = abiEvent.RawName
		event.Args = args
		return event
	}
	return event
}

func decodeEventArgs(event *ethabi.Event, log *types.Log) ([]models.EventArg, error) {
	decoded := make(map[string]interface{})

	var indexed ethabi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(indexed) > 0 {
		if err := ethabi.ParseTopicsIntoMap(decoded, indexed, log.Topics[1:]); err != nil {
			return nil, err
		}
	}

	nonIndexed := event.Inputs.NonIndexed()
	if len(nonIndexed) > 0 {
		if err := nonIndexed.UnpackIntoMap(decoded, log.Data); err != nil {
			return nil, err
		}
	}

	args := make([]models.EventArg, 0, len(event.Inputs))
	for _, input := range event.Inputs {
		if val, ok := decoded[input.Name]; ok {
			args = append(args, models.EventArg{Name: input.Name, Value: FormatValue(val)})
		}
	}
	return args, nil
}

// DecodeRevert names revert data. It returns nil for nil data.
func (e *EventDecoder) DecodeRevert(data []byte) *models.Revert {
	if data == nil {
		return nil
	}
	decoded := contracts.DecodeRevert(data)
	out := &models.Revert{
		Name:    decoded.Name,
		Data:    data,
		Message: decoded.String(),
	}
	for _, arg := range decoded.Args {
		out.Args = append(out.Args, FormatValue(arg))
	}
	return out
}
