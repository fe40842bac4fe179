package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

// LoadProjectConfig loads .env files and parses proxyforge.toml. A missing
// project file gives an empty config.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	for _, envFile := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, envFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	if cfg.Profile == nil {
		cfg.Profile = make(map[string]config.ProfileConfig)
	}
	if cfg.RpcEndpoints == nil {
		cfg.RpcEndpoints = make(map[string]string)
	}
	return cfg, nil
}
