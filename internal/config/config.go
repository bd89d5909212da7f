// Package config wraps Viper with nil-safe accessors and the EcoTrace
// defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ECOTRACE_SERVER_PORT.
const EnvPrefix = "ECOTRACE"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config is a read-only view over a Viper instance.
type Config struct {
	v *viper.Viper
	// env is the environment prefix for this view; empty disables overrides.
	env string
}

// New wraps v. A nil Viper yields an empty Config that returns zero values.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// Load reads the optional YAML file at path, applies defaults, and binds
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %q: %w", path, err)
			}
		}
	}

	cfg := New(v)
	cfg.env = EnvPrefix
	return cfg, nil
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.rate_limit.rps", 20.0)
	v.SetDefault("server.rate_limit.burst", 40)

	// In-memory by default: tracker entries live only as long as the process.
	v.SetDefault("store.path", ":memory:")

	v.SetDefault("plugins.catalog.enabled", true)
	v.SetDefault("plugins.catalog.featured_count", 4)
	v.SetDefault("plugins.compare.enabled", true)
	v.SetDefault("plugins.compare.max_selection", 4)
	v.SetDefault("plugins.impact.enabled", true)
}

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *Config) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree at key. A missing subtree yields an empty Config,
// never nil. Environment overrides keep their full-path names, so
// ECOTRACE_PLUGINS_CATALOG_FEATURED_COUNT reaches Sub("plugins.catalog").
func (c *Config) Sub(key string) *Config {
	sub := New(c.v.Sub(key))
	if c.env != "" {
		sub.env = c.env + "_" + envKeyReplacer.Replace(strings.ToUpper(key))
		sub.v.SetEnvPrefix(sub.env)
		sub.v.SetEnvKeyReplacer(envKeyReplacer)
		sub.v.AutomaticEnv()
	}
	return sub
}

// Unmarshal decodes the whole configuration into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Viper exposes the underlying instance.
func (c *Config) Viper() *viper.Viper {
	return c.v
}
