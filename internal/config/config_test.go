package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/reeltrack-test"},
		Server: ServerConfig{Port: "8080"},
		Auth: AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 720 * time.Hour,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_BadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "testing"
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("REELTRACK_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "REELTRACK_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "REELTRACK_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "REELTRACK_TEST_MISSING", "fallback"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/reeltrack", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reeltrack"), expanded)

	expanded, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		"# comment\n"+
			"TMDB_API_KEY_TESTFILE=abc123\n"+
			"QUOTED_TESTFILE=\"quoted value\"\n",
	), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("TMDB_API_KEY_TESTFILE")
		os.Unsetenv("QUOTED_TESTFILE")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "abc123", os.Getenv("TMDB_API_KEY_TESTFILE"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED_TESTFILE"))
}

func TestLoadEnvFile_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRESET_TESTFILE=from-file\n"), 0o600))

	t.Setenv("PRESET_TESTFILE", "from-env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-env", os.Getenv("PRESET_TESTFILE"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("no equals sign here\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}
