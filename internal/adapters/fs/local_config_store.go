package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// LocalConfigStoreAdapter keeps the local config in DataDir/config.local.json,
// the same file SetupViper reads.
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, "config.local.json"),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Load reads the config. A missing file is an empty config.
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if os.IsNotExist(err) {
		return &config.LocalConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var local config.LocalConfig
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.configPath, err)
	}
	return &local, nil
}

// Save writes the config, creating the data directory
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, local *config.LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
