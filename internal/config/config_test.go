package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SARABAN_JWT_SECRET", "secret")
	t.Setenv("SARABAN_DATABASE_URL", "postgres://localhost/saraban")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	require.Equal(t, "local", cfg.StorageDefaultBackend)
	require.Equal(t, "saraban/documents", cfg.CloudinaryUploadFolder)
	require.False(t, cfg.CloudinaryEnabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SARABAN_JWT_SECRET", "")
	t.Setenv("SARABAN_DATABASE_URL", "postgres://localhost/saraban")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("SARABAN_JWT_SECRET", "secret")
	t.Setenv("SARABAN_DATABASE_URL", "postgres://localhost/saraban")
	t.Setenv("SARABAN_JWT_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}

func TestHTTPAddressKeepsColonPrefix(t *testing.T) {
	cfg := Config{AppPort: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddress())
}
