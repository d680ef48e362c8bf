package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":            "0.0.0.0:8000",
		"base_url":                      "https://tasks.example",
		"database_driver":               "pgx",
		"database_dsn":                  "postgres://db/tasks",
		"secret_key":                    "my_secret_key",
		"session_validity_duration":     "24h",
		"reset_token_validity_duration": "10m",
		"reset_token_retention":         int64(time.Hour),
		"revoke_sibling_reset_tokens":   true,
		"bcrypt_cost":                   12,
		"log_level":                     "debug",
		"secure_cookies":                true,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "0.0.0.0:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "https://tasks.example", cfg.BaseURL)
		assert.Equal(t, "pgx", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://db/tasks", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, 10*time.Minute, cfg.ResetTokenValidityDuration)
		assert.Equal(t, time.Hour, cfg.ResetTokenRetention)
		assert.True(t, cfg.RevokeSiblingResetTokens)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.SecureCookies)
	})

	t.Run("partial file keeps other fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"secret_key":                  "rotated",
			"revoke_sibling_reset_tokens": false,
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		cfg.RevokeSiblingResetTokens = true
		parseJson(cfg)

		assert.Equal(t, "rotated", cfg.SecretKey)
		assert.False(t, cfg.RevokeSiblingResetTokens, "explicit false applies")
		assert.Equal(t, "127.0.0.1:5000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 15*time.Minute, cfg.ResetTokenValidityDuration)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		parseJson(cfg)

		assert.Equal(t, want, *cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
