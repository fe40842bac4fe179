package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// memoryConfigStore keeps the local config in memory
type memoryConfigStore struct {
	cfg *config.LocalConfig
}

func (s *memoryConfigStore) Exists() bool { return s.cfg != nil }

func (s *memoryConfigStore) Load(context.Context) (*config.LocalConfig, error) {
	if s.cfg == nil {
		return &config.LocalConfig{}, nil
	}
	c := *s.cfg
	return &c, nil
}

func (s *memoryConfigStore) Save(_ context.Context, cfg *config.LocalConfig) error {
	c := *cfg
	s.cfg = &c
	return nil
}

func (s *memoryConfigStore) GetPath() string { return ".proxyforge/config.local.json" }

func TestManageConfig(t *testing.T) {
	ctx := context.Background()
	store := &memoryConfigStore{}

	shown, err := usecase.NewShowConfig(store).Run(ctx)
	require.NoError(t, err)
	assert.False(t, shown.Exists)

	_, err = usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	set := usecase.NewSetConfig(store)
	result, err := set.Run(ctx, usecase.SetConfigParams{Key: "Network", Value: "sepolia"})
	require.NoError(t, err)
	assert.Equal(t, config.ConfigKeyNetwork, result.Key)
	assert.Equal(t, "sepolia", store.cfg.Network)

	result, err = set.Run(ctx, usecase.SetConfigParams{Key: "factory", Value: "0x5fbdb2315678afecb367f032d93f642f64180aa3"})
	require.NoError(t, err)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.Value)

	_, err = set.Run(ctx, usecase.SetConfigParams{Key: "factory", Value: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, err = set.Run(ctx, usecase.SetConfigParams{Key: "namespace", Value: "x"})
	assert.ErrorContains(t, err, "Available keys: profile, network, factory")

	_, err = set.Run(ctx, usecase.SetConfigParams{Key: "profile", Value: " "})
	assert.Error(t, err)

	result, err = usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
	require.NoError(t, err)
	assert.Equal(t, "sepolia", result.Previous)
	assert.Empty(t, store.cfg.Network)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", store.cfg.Factory)
}
