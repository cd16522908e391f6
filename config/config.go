// Package config loads settings from an optional .env file, an optional YAML
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dogjoy/miniapp/internal/storage"
)

const envPrefix = "MINIAPP"

type Config struct {
	BotToken   string
	APIBaseURL string
	// URL for the Telegram Mini App frontend
	WebAppURL string
	LogLevel  string

	APITimeout      time.Duration
	APIRateLimit    float64
	APIRateBurst    int
	LoginTimeout    time.Duration
	CatalogCacheTTL time.Duration

	// InitData is the raw launch payload handed over by the embedding shell.
	InitData string

	Store storage.Config

	BotDebug       bool
	BotInitTimeout time.Duration
	MetricsAddr    string
}

// Load reads the configuration. path names a config file; when empty,
// miniapp.yaml is looked up in the working and user config directories and
// may be absent.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("miniapp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "miniapp"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		BotToken:        v.GetString("telegram.bot_token"),
		APIBaseURL:      strings.TrimRight(v.GetString("api.base_url"), "/"),
		WebAppURL:       v.GetString("webapp.url"),
		LogLevel:        v.GetString("log.level"),
		APITimeout:      v.GetDuration("api.timeout"),
		APIRateLimit:    v.GetFloat64("api.rate_limit"),
		APIRateBurst:    v.GetInt("api.rate_burst"),
		LoginTimeout:    v.GetDuration("auth.login_timeout"),
		CatalogCacheTTL: v.GetDuration("catalog.cache_ttl"),
		InitData:        v.GetString("host.init_data"),
		Store: storage.Config{
			Driver:        v.GetString("store.driver"),
			Path:          v.GetString("store.path"),
			RedisAddr:     v.GetString("store.redis_addr"),
			RedisPassword: v.GetString("store.redis_password"),
			RedisDB:       v.GetInt("store.redis_db"),
			RedisPrefix:   v.GetString("store.redis_prefix"),
		},
		BotDebug:       v.GetBool("bot.debug"),
		BotInitTimeout: v.GetDuration("bot.init_timeout"),
		MetricsAddr:    v.GetString("bot.metrics_addr"),
	}
	return cfg, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.APIBaseURL))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.APIRateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit must not be negative"))
	}
	if c.LoginTimeout < 0 {
		errs = append(errs, errors.New("auth.login_timeout must not be negative"))
	}

	switch strings.ToLower(c.Store.Driver) {
	case storage.DriverMemory:
	case storage.DriverFile, storage.DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the %s driver", c.Store.Driver))
		}
	case storage.DriverRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.Store.Driver))
	}
	return errors.Join(errs...)
}

// ValidateBot also requires what only the bot needs.
func (c *Config) ValidateBot() error {
	err := c.Validate()
	if c.BotToken == "" {
		err = errors.Join(err, errors.New("TELEGRAM_BOT_TOKEN is not set"))
	}
	return err
}

// --- Private ---

// legacyEnv keeps the unprefixed variable names working.
var legacyEnv = map[string][]string{
	"telegram.bot_token": {"MINIAPP_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"api.base_url":       {"MINIAPP_API_BASE_URL", "API_BASE_URL"},
	"webapp.url":         {"MINIAPP_WEBAPP_URL", "WEBAPP_URL"},
	"log.level":          {"MINIAPP_LOG_LEVEL", "LOG_LEVEL"},
	"host.init_data":     {"MINIAPP_HOST_INIT_DATA", "TG_INIT_DATA"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 5)
	v.SetDefault("auth.login_timeout", 10*time.Second)
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")

	v.SetDefault("store.driver", storage.DriverFile)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.redis_prefix", "miniapp:")

	v.SetDefault("bot.init_timeout", 5*time.Second)
	v.SetDefault("bot.metrics_addr", "")
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.yaml"
	}
	return filepath.Join(dir, "miniapp", "session.yaml")
}
