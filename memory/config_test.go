package memory_test

import (
	"testing"

	"github.com/tailored-agentic-units/audioqa/memory"
)

func TestDefaultConfig(t *testing.T) {
	cfg := memory.DefaultConfig()

	if cfg.Path != "" {
		t.Errorf("got Path %q, want empty string", cfg.Path)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("got CacheSize %d, want 256", cfg.CacheSize)
	}
	if cfg.Enabled() {
		t.Error("default config should be disabled")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := memory.DefaultConfig()

	cfg.Merge(&memory.Config{Path: "/var/cache/audioqa", CacheSize: 32})

	if cfg.Path != "/var/cache/audioqa" {
		t.Errorf("got Path %q, want %q", cfg.Path, "/var/cache/audioqa")
	}
	if cfg.CacheSize != 32 {
		t.Errorf("got CacheSize %d, want 32", cfg.CacheSize)
	}
}

func TestConfig_Merge_EmptyPreservesDefault(t *testing.T) {
	cfg := memory.Config{Path: "/original", CacheSize: 10}

	cfg.Merge(&memory.Config{})

	if cfg.Path != "/original" {
		t.Errorf("got Path %q, want %q (preserved)", cfg.Path, "/original")
	}
	if cfg.CacheSize != 10 {
		t.Errorf("got CacheSize %d, want 10 (preserved)", cfg.CacheSize)
	}
}

func TestNewStore_EmptyPath(t *testing.T) {
	store, err := memory.NewStore(&memory.Config{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store != nil {
		t.Error("expected nil store for empty path")
	}
}

func TestOpen(t *testing.T) {
	cache, err := memory.Open(&memory.Config{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if cache != nil {
		t.Error("expected nil cache for empty path")
	}

	cache, err = memory.Open(&memory.Config{Path: t.TempDir(), CacheSize: 4})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if cache == nil {
		t.Fatal("expected cache for valid path")
	}
}
