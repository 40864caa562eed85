package config

import (
	"github.com/BurntSushi/toml"
)

// SettingsConfig is the host configuration read at process start. The
// registry holds a reference to it and live-reads the default engine names,
// prefix and language on every access, so a reconfiguration between two
// accesses is observable.
type SettingsConfig struct {
	ServerAddr string `toml:"server_addr"`
	HandleCORS bool   `toml:"handle_cors"`

	// DefaultProvider is the persistence engine used when a domain is
	// registered without an explicit provider option.
	DefaultProvider string `toml:"default_provider"`
	// DefaultCache is the cache engine used when a domain is registered
	// without an explicit cache option.
	DefaultCache string `toml:"default_cache"`

	// Prefix is either a single string or a list of strings. Its shape
	// decides whether the built-in tenant domain declares prefix as an
	// array setting.
	Prefix   any    `toml:"prefix"`
	Language string `toml:"language"`

	// CacheTTLSeconds bounds how long cache providers hold an entry;
	// zero means entries do not expire.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`

	JsonFile JsonFileConfig `toml:"jsonfile"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
}

type JsonFileConfig struct {
	Dir      string `toml:"dir"`
	Compress bool   `toml:"compress"`
}

type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

type RedisConfig struct {
	Addr string `toml:"addr"`
	DB   int    `toml:"db"`
}

var cfg *SettingsConfig = DefaultConfig()

func DefaultConfig() *SettingsConfig {
	return &SettingsConfig{
		ServerAddr:      ":8192",
		DefaultProvider: "jsonfile",
		DefaultCache:    "memcache",
		Prefix:          "!",
		Language:        "en-US",
		JsonFile: JsonFileConfig{
			Dir: "data",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

func LoadConfig(path string) error {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return err
	}
	cfg = c
	return nil
}

func Config() *SettingsConfig {
	return cfg
}

// TestInit replaces the process configuration; intended for tests.
func TestInit(c *SettingsConfig) {
	if c == nil {
		c = DefaultConfig()
	}
	cfg = c
}

// PrefixIsList reports whether the configured prefix is a sequence. TOML
// decodes a list into []any, a scalar into string.
func (c *SettingsConfig) PrefixIsList() bool {
	switch c.Prefix.(type) {
	case []any, []string:
		return true
	}
	return false
}

// PrefixValues returns the configured prefix values as a slice regardless
// of shape.
func (c *SettingsConfig) PrefixValues() []string {
	switch p := c.Prefix.(type) {
	case string:
		return []string{p}
	case []string:
		return p
	case []any:
		out := make([]string, 0, len(p))
		for _, v := range p {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
