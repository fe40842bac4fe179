package config

import (
	"math/big"
)

// ProjectConfig represents proxyforge.toml
type ProjectConfig struct {
	Profile      map[string]ProfileConfig `toml:"profile"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
}

// ProfileConfig is one [profile.<name>] table
type ProfileConfig struct {
	// Deployer is an account name, address or hex private key
	Deployer string `toml:"deployer,omitempty"`
	// Balance in wei funded to the deployer
	Balance string `toml:"balance,omitempty"`
	// ChainID is checked against live networks when set
	ChainID uint64 `toml:"chain_id,omitempty"`
	// Factory is the default factory for live inspection
	Factory string `toml:"factory,omitempty"`
}

// SimulationConfig is the resolved profile used by the simulated host
type SimulationConfig struct {
	Deployer string
	Balance  *big.Int
	Factory  string
}
