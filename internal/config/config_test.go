package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "taskboard", cfg.Database.Name)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASKBOARD_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("TASKBOARD_DATABASE_URI", "mongodb://db.internal:27017")
	t.Setenv("TASKBOARD_DATABASE_NAME", "taskboard_test")
	t.Setenv("TASKBOARD_DATABASE_TIMEOUT", "500ms")
	t.Setenv("TASKBOARD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Database.URI)
	assert.Equal(t, "taskboard_test", cfg.Database.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}
