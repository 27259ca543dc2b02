package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigRequiresToken(t *testing.T) {
	t.Setenv("WHM_BOT_TOKEN", "")
	t.Setenv("WHM_APP_ID", "")
	t.Setenv("WHM_LOG_DIR", t.TempDir())
	_, err := NewConfig()
	require.Error(t, err)

	t.Setenv("WHM_BOT_TOKEN", "test_token")
	t.Setenv("WHM_APP_ID", "12345")
	cfg, err := NewConfig()
	require.NoError(t, err)

	require.Equal(t, "test_token", cfg.GetBotToken())
	require.Equal(t, "12345", cfg.GetAppID())
}

func TestDefaults(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{})

	require.Equal(t, "!", cfg.GetDefaultPrefix())
	require.Equal(t, "--", cfg.GetFlagPrefix())
	require.True(t, cfg.IsDev())
	require.Equal(t, "./whitehatmod_dev.db", cfg.GetDatabasePath())
}

func TestEnvSelectsDatabase(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{
		"database_path":     "prod.db",
		"database_path_dev": "dev.db",
	})

	require.Equal(t, "dev.db", cfg.GetDatabasePath())

	cfg.SetEnv("prod")
	require.False(t, cfg.IsDev())
	require.Equal(t, "prod.db", cfg.GetDatabasePath())
}
