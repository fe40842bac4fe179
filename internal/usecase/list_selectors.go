package usecase

import (
	"context"
	"sort"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// ListSelectorsParams filters the selector table
type ListSelectorsParams struct {
	// Contract limits the table to one contract; empty lists all three
	Contract string
}

// ListSelectors lists the functions, events and errors of the proxy system
type ListSelectors struct {
	contracts map[string]ethabi.ABI
}

// NewListSelectors creates a new ListSelectors use case
func NewListSelectors() *ListSelectors {
	return &ListSelectors{
		contracts: map[string]ethabi.ABI{
			"ProxyForge":       bindings.NewProxyForge().ABI(),
			"TransparentProxy": bindings.NewTransparentProxy().ABI(),
			"MinimalAdmin":     bindings.NewMinimalAdmin().ABI(),
		},
	}
}

// Run executes the listing
func (uc *ListSelectors) Run(ctx context.Context, params ListSelectorsParams) ([]models.Selector, error) {
	names := lo.Keys(uc.contracts)
	if params.Contract != "" {
		if _, ok := uc.contracts[params.Contract]; !ok {
			return nil, &UnknownContractError{Name: params.Contract, Known: names}
		}
		names = []string{params.Contract}
	}
	sort.Strings(names)

	var out []models.Selector
	for _, name := range names {
		out = append(out, selectorsOf(name, uc.contracts[name])...)
	}
	return out, nil
}

func selectorsOf(contract string, contractABI ethabi.ABI) []models.Selector {
	var out []models.Selector
	out = append(out, lo.MapToSlice(contractABI.Methods, func(_ string, m ethabi.Method) models.Selector {
		return models.Selector{Contract: contract, Kind: "function", Signature: m.Sig, ID: hexutil.Encode(m.ID)}
	})...)
	out = append(out, lo.MapToSlice(contractABI.Events, func(_ string, e ethabi.Event) models.Selector {
		return models.Selector{Contract: contract, Kind: "event", Signature: e.Sig, ID: e.ID.Hex()}
	})...)
	out = append(out, lo.MapToSlice(contractABI.Errors, func(_ string, e ethabi.Error) models.Selector {
		return models.Selector{Contract: contract, Kind: "error", Signature: e.Sig, ID: hexutil.Encode(e.ID.Bytes()[:4])}
	})...)

	kindOrder := map[string]int{"function": 0, "event": 1, "error": 2}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return kindOrder[out[i].Kind] < kindOrder[out[j].Kind]
		}
		return out[i].Signature < out[j].Signature
	})
	return out
}

// UnknownContractError is returned for a contract outside the selector table
type UnknownContractError struct {
	Name  string
	Known []string
}

func (e *UnknownContractError) Error() string {
	sort.Strings(e.Known)
	return "unknown contract " + e.Name + " (known: " + strings.Join(e.Known, ", ") + ")"
}
