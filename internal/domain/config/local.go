package config

import "strings"

// LocalConfig holds per-checkout defaults stored in
// .proxyforge/config.local.json. Empty fields fall back to flags,
// environment and proxyforge.toml.
type LocalConfig struct {
	Profile string `json:"profile,omitempty"`
	Network string `json:"network,omitempty"`
	Factory string `json:"factory,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyProfile ConfigKey = "profile"
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyFactory ConfigKey = "factory"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{ConfigKeyProfile, ConfigKeyNetwork, ConfigKeyFactory}
}

// ParseConfigKey normalizes key and reports whether it is valid
func ParseConfigKey(key string) (ConfigKey, bool) {
	k := ConfigKey(strings.ToLower(strings.TrimSpace(key)))
	for _, valid := range ValidConfigKeys() {
		if k == valid {
			return k, true
		}
	}
	return "", false
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyProfile:
		return c.Profile
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyFactory:
		return c.Factory
	}
	return ""
}

// Set stores value under key. An empty value clears it.
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyProfile:
		c.Profile = value
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyFactory:
		c.Factory = value
	}
}
