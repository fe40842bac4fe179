package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// ResolveNetwork looks a network up in [rpc_endpoints] and expands
// environment references in its URL. A name that is itself a URL is used
// as is.
func ResolveNetwork(cfg *config.ProjectConfig, name string) (*config.Network, error) {
	if isURL(name) {
		return &config.Network{Name: name, RPCURL: name}, nil
	}

	raw, ok := cfg.RpcEndpoints[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in %s [rpc_endpoints]", name, ProjectFile)
	}
	if envVar, ok := DetectEnvVar(raw); ok {
		if _, set := os.LookupEnv(envVar); !set {
			return nil, fmt.Errorf("network '%s' uses ${%s}, which is not set", name, envVar)
		}
	}

	url := os.ExpandEnv(raw)
	if url == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL", name)
	}
	return &config.Network{Name: name, RPCURL: url}, nil
}

func isURL(s string) bool {
	for _, scheme := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}
