package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

// ConfigResult is the local config after a show, set or remove
type ConfigResult struct {
	Config     *config.LocalConfig `json:"config"`
	ConfigPath string              `json:"configPath"`
	Exists     bool                `json:"exists"`

	// Set by set and remove
	Key      config.ConfigKey `json:"key,omitempty"`
	Value    string           `json:"value,omitempty"`
	Previous string           `json:"previous,omitempty"`
}

// ShowConfig reads the local config
type ShowConfig struct {
	store LocalConfigStore
}

func NewShowConfig(store LocalConfigStore) *ShowConfig {
	return &ShowConfig{store: store}
}

func (uc *ShowConfig) Run(ctx context.Context) (*ConfigResult, error) {
	exists := uc.store.Exists()
	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ConfigResult{Config: cfg, ConfigPath: uc.store.GetPath(), Exists: exists}, nil
}

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfig stores one local config value
type SetConfig struct {
	store LocalConfigStore
}

func NewSetConfig(store LocalConfigStore) *SetConfig {
	return &SetConfig{store: store}
}

func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*ConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	value := strings.TrimSpace(params.Value)
	if value == "" {
		return nil, fmt.Errorf("empty value for %s; use remove to clear it", key)
	}
	if key == config.ConfigKeyFactory {
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("factory %q: %w", value, domain.ErrInvalidAddress)
		}
		value = common.HexToAddress(value).Hex()
	}

	return update(ctx, uc.store, key, value)
}

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfig clears one local config value
type RemoveConfig struct {
	store LocalConfigStore
}

func NewRemoveConfig(store LocalConfigStore) *RemoveConfig {
	return &RemoveConfig{store: store}
}

func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*ConfigResult, error) {
	if !uc.store.Exists() {
		return nil, fmt.Errorf("no config file found at %s: %w", uc.store.GetPath(), domain.ErrNotFound)
	}
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	return update(ctx, uc.store, key, "")
}

func update(ctx context.Context, store LocalConfigStore, key config.ConfigKey, value string) (*ConfigResult, error) {
	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	previous := cfg.Get(key)
	cfg.Set(key, value)

	if err := store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &ConfigResult{
		Config:     cfg,
		ConfigPath: store.GetPath(),
		Exists:     true,
		Key:        key,
		Value:      value,
		Previous:   previous,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key, ok := config.ParseConfigKey(raw)
	if !ok {
		valid := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(valid, ", "))
	}
	return key, nil
}
