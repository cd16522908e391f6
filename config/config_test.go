package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogjoy/miniapp/internal/storage"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 10*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, storage.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "session.yaml", filepath.Base(cfg.Store.Path))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "miniapp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.dogjoy.example/
  timeout: 3s
store:
  driver: sqlite
  path: /tmp/miniapp.db
catalog:
  cache_ttl: 1m
`), 0o600))

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MINIAPP_AUTH_LOGIN_TIMEOUT", "2s")
	t.Setenv("TG_INIT_DATA", "query_id=1&hash=x")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.dogjoy.example", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Second, cfg.LoginTimeout)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "query_id=1&hash=x", cfg.InitData)
	assert.Equal(t, storage.DriverSQLite, cfg.Store.Driver)
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			APIBaseURL: "http://localhost:3000",
			APITimeout: time.Second,
			Store:      storage.Config{Driver: storage.DriverMemory},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"relative url", func(c *Config) { c.APIBaseURL = "/api" }, false},
		{"ftp url", func(c *Config) { c.APIBaseURL = "ftp://host" }, false},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, false},
		{"negative rate", func(c *Config) { c.APIRateLimit = -1 }, false},
		{"file without path", func(c *Config) { c.Store.Driver = storage.DriverFile }, false},
		{"redis without addr", func(c *Config) { c.Store.Driver = storage.DriverRedis }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "etcd" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	cfg := base()
	assert.Error(t, cfg.ValidateBot())
}
