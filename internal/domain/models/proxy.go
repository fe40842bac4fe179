package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ProxyRecord is everything known about one proxy: the factory's records
// next to what the proxy and its admin hold themselves.
type ProxyRecord struct {
	Proxy   common.Address `json:"proxy"`
	Factory common.Address `json:"factory,omitempty"`
	HasCode bool           `json:"hasCode"`

	// Factory records. Recorded is false when no factory was consulted.
	Recorded       bool           `json:"recorded"`
	Admin          common.Address `json:"admin"`
	Implementation common.Address `json:"implementation"`
	Owner          common.Address `json:"owner"`

	// ERC-1967 slots of the proxy
	SlotImplementation common.Address `json:"slotImplementation"`
	SlotAdmin          common.Address `json:"slotAdmin"`
	// SlotBeacon is set only on beacon proxies.
	SlotBeacon common.Address `json:"slotBeacon"`

	// ExpectedAdmin is CREATE(proxy, 1).
	ExpectedAdmin common.Address `json:"expectedAdmin"`
	AdminOwner    common.Address `json:"adminOwner"`
}

// Mismatches lists every disagreement between the records and the chain.
func (r *ProxyRecord) Mismatches() []string {
	var out []string
	check := func(what string, got, want common.Address) {
		if got != want {
			out = append(out, fmt.Sprintf("%s: %s != %s", what, got.Hex(), want.Hex()))
		}
	}

	check("admin slot vs CREATE(proxy, 1)", r.SlotAdmin, r.ExpectedAdmin)
	check("beacon slot vs empty", r.SlotBeacon, common.Address{})
	if r.Recorded {
		check("recorded admin vs admin slot", r.Admin, r.SlotAdmin)
		check("recorded implementation vs implementation slot", r.Implementation, r.SlotImplementation)
		check("admin owner vs factory", r.AdminOwner, r.Factory)
	}
	return out
}

// Consistent reports whether Mismatches is empty.
func (r *ProxyRecord) Consistent() bool {
	return len(r.Mismatches()) == 0
}
