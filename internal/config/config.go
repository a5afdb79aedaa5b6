// Package config loads jsongraph settings from a TOML file and the
// environment.
//
// Settings are resolved in order: built-in defaults, the config file
// (--config, or $XDG_CONFIG_HOME/jsongraph/config.toml when present), then
// JSONGRAPH_* environment variables. Command-line flags override all three
// and are applied by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

const appName = "jsongraph"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete set of settings.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Edit   EditConfig   `toml:"edit"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// StoreConfig selects where the document lives.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	Name          string `toml:"name"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// EditConfig controls which nodes are editable.
type EditConfig struct {
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	CORSOrigin string `toml:"cors_origin"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Duration is a time.Duration written as "90s" or "24h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:       BackendFile,
			Name:          "default",
			RedisURL:      "redis://localhost:6379/0",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Edit:   EditConfig{Collection: "fruits"},
		Server: ServerConfig{Addr: ":8080", CORSOrigin: "*"},
		Cache: CacheConfig{
			Backend:  CacheFile,
			RedisURL: "redis://localhost:6379/1",
			TTL:      Duration{24 * time.Hour},
		},
	}
}

// Load resolves settings from defaults, the file at path and the
// environment. An empty path loads [DefaultPath] if it exists; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, &cfg); err != nil {
				return Config{}, err
			}
		} else if explicit {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	applyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides settings from JSONGRAPH_* variables. Empty values are
// ignored.
func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Store.Backend, "JSONGRAPH_STORE")
	set(&cfg.Store.Path, "JSONGRAPH_DOCUMENT")
	set(&cfg.Store.Name, "JSONGRAPH_NAME")
	set(&cfg.Store.RedisURL, "JSONGRAPH_REDIS_URL")
	set(&cfg.Store.MongoURI, "JSONGRAPH_MONGO_URI")
	set(&cfg.Store.MongoDatabase, "JSONGRAPH_MONGO_DATABASE")
	set(&cfg.Edit.Collection, "JSONGRAPH_COLLECTION")
	set(&cfg.Server.Addr, "JSONGRAPH_ADDR")
	set(&cfg.Server.CORSOrigin, "JSONGRAPH_CORS_ORIGIN")
	set(&cfg.Cache.Backend, "JSONGRAPH_CACHE")
	set(&cfg.Cache.Dir, "JSONGRAPH_CACHE_DIR")
	set(&cfg.Cache.RedisURL, "JSONGRAPH_CACHE_REDIS_URL")
	if v := getenv("JSONGRAPH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = Duration{d}
		}
	}
}

// Validate checks backend names and required fields.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis, BackendMongo:
		if err := errs.ValidateDocumentName(c.Store.Name); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	if c.Edit.Collection == "" {
		return errs.New(errs.ErrCodeInvalidInput, "edit.collection cannot be empty")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/jsongraph/config.toml, falling back
// to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the configured cache directory, or the XDG cache
// location (~/.cache/jsongraph) when none is set.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
