package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9090
secret: cookie
auth:
  secret: jwt
chat:
  typing_timeout: 3s
  echo_to_sender: true
  backpressure: kick
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "jwt", cfg.Auth.Secret)
	assert.Equal(t, "projectchat", cfg.Auth.Issuer)
	assert.Equal(t, 3*time.Second, cfg.Chat.TypingTimeout)
	assert.True(t, cfg.Chat.EchoToSender)
	assert.Equal(t, "kick", cfg.Chat.Backpressure)
	assert.Equal(t, 4000, cfg.Chat.MaxTextLen)
	assert.Equal(t, 64, cfg.Chat.SendBuffer)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "secret: cookie\nauth:\n  secret: jwt\n")
	t.Setenv("CHAT_AUTH_SECRET", "from-env")
	t.Setenv("CHAT_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoadFile_MissingSecrets(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "auth.secret is required")
	assert.Contains(t, err.Error(), "secret is required")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:       8080,
		PingPeriod: time.Second,
		Secret:     "s",
		Auth:       AuthConfig{Secret: "a"},
		Chat:       ChatConfig{SendBuffer: 1, Backpressure: "drop"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Port = 0 }, "port 0 out of range"},
		{"ping", func(c *Config) { c.PingPeriod = 0 }, "ping_period"},
		{"buffer", func(c *Config) { c.Chat.SendBuffer = 0 }, "send_buffer"},
		{"policy", func(c *Config) { c.Chat.Backpressure = "block" }, `"block"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
