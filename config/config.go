// Package config loads the service configuration with viper. Sources are
// applied in order: defaults, the optional loan-payoff.yaml file,
// PAYOFF_-prefixed environment variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = "loan-payoff"
	envPrefix  = "payoff"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Store     StoreConfig     `mapstructure:"store"`
	Log       LogConfig       `mapstructure:"log"`
	AI        AIConfig        `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Refill   time.Duration `mapstructure:"refill"`
}

// CacheConfig selects the projection cache: "memory" or "redis".
type CacheConfig struct {
	Driver    string        `mapstructure:"driver"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// StoreConfig selects the liability store: "memory" or "mysql".
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// AIConfig points the explanation service at an OpenAI-compatible chat API.
// An empty APIKey disables it.
type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	URL    string `mapstructure:"url"`
	Model  string `mapstructure:"model"`
}

func Defaults() map[string]any {
	return map[string]any{
		"server.addr":          ":8080",
		"server.read_timeout":  15 * time.Second,
		"server.write_timeout": 15 * time.Second,
		"server.idle_timeout":  60 * time.Second,
		"server.cors_origins":  []string{"*"},
		"ratelimit.capacity":   5,
		"ratelimit.refill":     time.Minute,
		"cache.driver":         "memory",
		"cache.redis_addr":     "localhost:6379",
		"cache.ttl":            10 * time.Minute,
		"store.driver":         "memory",
		"store.dsn":            "",
		"log.level":            "info",
		"log.pretty":           false,
		"ai.api_key":           "",
		"ai.url":               "",
		"ai.model":             "",
	}
}

// flagKeys maps command-line flag names to the config keys they override.
var flagKeys = map[string]string{
	"addr":       "server.addr",
	"cache":      "cache.driver",
	"redis-addr": "cache.redis_addr",
	"store":      "store.driver",
	"dsn":        "store.dsn",
	"log-level":  "log.level",
	"log-pretty": "log.pretty",
}

// Load builds the configuration for cmd. A non-empty path must point to a
// readable config file; otherwise loan-payoff.yaml is looked up in the
// current directory and the user config directory, and its absence is fine.
func Load(cmd *cobra.Command, path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, configName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			if flag := cmd.Flags().Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}

	return c, c.validate()
}

func (c Config) validate() error {
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver)
	}

	switch c.Store.Driver {
	case "memory":
	case "mysql":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required when store.driver is mysql")
		}
	default:
		return fmt.Errorf("store.driver must be memory or mysql, got %q", c.Store.Driver)
	}

	if c.RateLimit.Capacity < 1 || c.RateLimit.Refill <= 0 {
		return errors.New("ratelimit.capacity and ratelimit.refill must be positive")
	}
	return nil
}
