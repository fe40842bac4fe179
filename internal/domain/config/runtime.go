package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Profile string   // [profile.<name>] in proxyforge.toml
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	JSON           bool // Output in JSON format
	NonInteractive bool // Never prompt
	Timeout        time.Duration

	ServerAddr string

	// Resolved configurations
	ProjectConfig *ProjectConfig
	Simulation    SimulationConfig
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}
