package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convstore/logging"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.KeepAliveConversations)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
keep_alive_conversations: 0
session:
  idle_timeout: 90s
logging:
  level: debug
  backend: zerolog
`))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.KeepAliveConversations)
	assert.Equal(t, 90*time.Second, cfg.Session.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.CleanupInterval, "untouched keys keep defaults")
	assert.Equal(t, "CONVSTORE_SESSION", cfg.Session.CookieName)
	assert.Equal(t, "debug", cfg.Logging.Level)

	_, ok := cfg.NewLogger().(*logging.ZerologAdapter)
	assert.True(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`
keep_alive_conversations: -1
session:
  cookie_name: ""
logging:
  level: loud
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keep_alive_conversations")
	assert.Contains(t, err.Error(), "cookie_name")
	assert.Contains(t, err.Error(), "logging.level")

	_, err = Parse([]byte("keep_alive_conversations: [1"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep_alive_conversations: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.KeepAliveConversations)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
