package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.DefaultRadius != 15 || cfg.Editor.DefaultModel != "collimated" {
		t.Errorf("defaults not applied: %+v", cfg.Editor)
	}
	if cfg.Cache.Backend != "file" || cfg.Store.Backend != "file" {
		t.Errorf("backend defaults not applied: %+v %+v", cfg.Cache, cfg.Store)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[editor]
default_radius = 30.0
default_model = "divergent"

[cache]
backend = "redis"
redis_addr = "cache:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.DefaultRadius != 30 || cfg.Editor.DefaultModel != "divergent" {
		t.Errorf("editor overrides lost: %+v", cfg.Editor)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache overrides lost: %+v", cfg.Cache)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Listen != ":8080" {
		t.Errorf("server default lost: %+v", cfg.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"bad model", "[editor]\ndefault_model = \"spherical\"\n"},
		{"bad radius", "[editor]\ndefault_radius = 900.0\n"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad store backend", "[store]\nbackend = \"dynamo\"\n"},
		{"malformed toml", "[editor\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
