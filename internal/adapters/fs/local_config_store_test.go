package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: filepath.Join(dir, ".proxyforge")})
	ctx := context.Background()

	assert.False(t, store.Exists())
	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &config.LocalConfig{}, empty)

	require.NoError(t, store.Save(ctx, &config.LocalConfig{Profile: "live", Network: "sepolia"}))
	assert.True(t, store.Exists())
	assert.Equal(t, filepath.Join(dir, ".proxyforge", "config.local.json"), store.GetPath())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "live", loaded.Profile)
	assert.Equal(t, "sepolia", loaded.Network)
	assert.Empty(t, loaded.Factory)

	require.NoError(t, os.WriteFile(store.GetPath(), []byte("{"), 0644))
	_, err = store.Load(ctx)
	assert.Error(t, err)
}
