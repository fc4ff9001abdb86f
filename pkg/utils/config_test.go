package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_DefaultsAndFlags(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "45s")

	config, err := LoadConfigFrom("", []string{"--migrate", "--consumer"})
	require.NoError(t, err)

	assert.Equal(t, "9090", config.App.Port)
	assert.Equal(t, "secret", config.JWT.Secret)
	assert.Equal(t, 45*time.Second, config.Redis.CacheTTL)
	assert.True(t, config.Run.Migrate)
	assert.False(t, config.Run.Seed)
	assert.True(t, config.Run.Consumer)
}

func TestLoadConfigFrom_DotenvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=from-file\nRATE_LIMIT_REQUESTS=3\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Cleanup(func() { os.Unsetenv("RATE_LIMIT_REQUESTS") })

	config, err := LoadConfigFrom(envFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.JWT.Secret)
	assert.Equal(t, 3, config.RateLimit.Requests)
}

func TestLoadConfigFrom_MissingDotenvIsFine(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"), nil)
	assert.NoError(t, err)
}

func TestLoadConfigFrom_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", " ")

	_, err := LoadConfigFrom("", nil)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfigFrom_UnknownFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfigFrom("", []string{"--frobnicate"})
	assert.Error(t, err)
}
