package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "redis"
name = "groceries"
redis_url = "redis://cache:6379/2"

[edit]
collection = "vegetables"

[server]
addr = ":9000"

[cache]
backend = "none"
ttl = "90m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.Name != "groceries" || cfg.Store.RedisURL != "redis://cache:6379/2" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Edit.Collection != "vegetables" {
		t.Errorf("Collection = %q", cfg.Edit.Collection)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.CORSOrigin != "*" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	// Unset values keep their defaults.
	if cfg.Store.MongoDatabase != "jsongraph" {
		t.Errorf("MongoDatabase = %q, want default", cfg.Store.MongoDatabase)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[store\nbackend = 1"},
		{"unknown key", "[store]\nbakend = \"file\""},
		{"unknown backend", "[store]\nbackend = \"sqlite\""},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"empty collection", "[edit]\ncollection = \"\""},
		{"bad redis name", "[store]\nbackend = \"redis\"\nname = \"has space\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPathOptional(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("Backend = %q, want default", cfg.Store.Backend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("JSONGRAPH_STORE", "memory")
	t.Setenv("JSONGRAPH_COLLECTION", "berries")
	t.Setenv("JSONGRAPH_CACHE_TTL", "5m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Edit.Collection != "berries" || cfg.Cache.TTL.Duration != 5*time.Minute {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestApplyEnvIgnoresEmptyAndInvalid(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"JSONGRAPH_ADDR":      "",
		"JSONGRAPH_CACHE_TTL": "later",
		"JSONGRAPH_NAME":      "fruits",
	}
	applyEnv(&cfg, func(k string) string { return env[k] })

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("TTL = %v, want default", cfg.Cache.TTL)
	}
	if cfg.Store.Name != "fruits" {
		t.Errorf("Name = %q", cfg.Store.Name)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := DefaultPath(), filepath.Join("/tmp/xdg", "jsongraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	cfg := Default()

	dir, err := cfg.CacheDir()
	if err != nil || dir != filepath.Join("/tmp/cache", "jsongraph") {
		t.Errorf("CacheDir() = %q, %v", dir, err)
	}

	cfg.Cache.Dir = "/var/cache/jg"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/jg" {
		t.Errorf("CacheDir() with explicit dir = %q", dir)
	}
}
