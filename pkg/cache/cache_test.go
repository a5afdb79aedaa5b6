package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exercise runs the same contract against every backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) hit = %v, err = %v", hit, err)
	}

	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(svg) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	exercise(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit = %v, err = %v", hit, err)
	}
}

func TestRedisCache(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	exercise(t, c)

	if err := c.Set(context.Background(), "ttl", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if ttl := s.TTL("ttl"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisCache should reject an invalid URL")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if gk := k.GraphKey(`{"a":1}`); !strings.HasPrefix(gk, "graph:") {
		t.Errorf("GraphKey() = %q, want graph: prefix", gk)
	}
	if k.GraphKey(`{"a":1}`) == k.GraphKey(`{"a":2}`) {
		t.Error("different documents should produce different graph keys")
	}

	svg := k.ArtifactKey("digraph G {}", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("digraph G {}", ArtifactKeyOpts{Format: "png", Scale: 2})
	if svg == png {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if svg != k.ArtifactKey("digraph G {}", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("ArtifactKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "doc:fruits:")

	key := scoped.ArtifactKey("digraph G {}", ArtifactKeyOpts{Format: "svg"})
	want := "doc:fruits:" + NewDefaultKeyer().ArtifactKey("digraph G {}", ArtifactKeyOpts{Format: "svg"})
	if key != want {
		t.Errorf("ScopedKeyer ArtifactKey = %q, want %q", key, want)
	}
	if !strings.HasPrefix(scoped.GraphKey("{}"), "doc:fruits:graph:") {
		t.Errorf("ScopedKeyer GraphKey should be prefixed: %s", scoped.GraphKey("{}"))
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 500 * time.Millisecond })
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantErr   bool
		wantCalls int
	}{
		{"success", 0, true, false, 1},
		{"non-retryable", 5, false, true, 1},
		{"recovers", 1, true, false, 2},
		{"exhausted", 5, true, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrUnavailable
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
