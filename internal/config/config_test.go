package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, "./data", cfg.Storage.DataPath)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("READCIRCLE_ENV", "production")
	t.Setenv("READCIRCLE_PORT", "9090")
	t.Setenv("READCIRCLE_ACCESS_TOKEN_DURATION", "30m")
	t.Setenv("READCIRCLE_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigInvalidEnvironment(t *testing.T) {
	t.Setenv("READCIRCLE_ENV", "staging")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigBadDurationFallsBack(t *testing.T) {
	t.Setenv("READCIRCLE_READ_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\nREADCIRCLE_TEST_KEY=from-dotenv\nREADCIRCLE_TEST_QUOTED=\"quoted value\"\nnot a pair\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("READCIRCLE_TEST_KEY")
		_ = os.Unsetenv("READCIRCLE_TEST_QUOTED")
	})

	require.NoError(t, loadDotEnv(envFile))

	assert.Equal(t, "from-dotenv", os.Getenv("READCIRCLE_TEST_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("READCIRCLE_TEST_QUOTED"))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("READCIRCLE_TEST_PRESET=file\n"), 0o600))

	t.Setenv("READCIRCLE_TEST_PRESET", "env")

	require.NoError(t, loadDotEnv(envFile))
	assert.Equal(t, "env", os.Getenv("READCIRCLE_TEST_PRESET"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
