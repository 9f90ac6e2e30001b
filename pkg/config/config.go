// Package config loads editor configuration from a TOML file.
//
// The file lives at ~/.config/benchray/config.toml by default and every
// field has a working default, so a missing file is not an error. A typical
// config:
//
//	[editor]
//	default_radius = 15.0
//	default_model = "collimated"
//	canvas_width = 120
//	canvas_height = 36
//
//	[cache]
//	backend = "file"        # "file", "redis", or "none"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "file"        # "file" or "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "benchray"
//
//	[server]
//	listen = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/benchray/benchray/pkg/scene"
)

// Config is the full application configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// EditorConfig holds defaults for newly created elements and the TUI canvas.
type EditorConfig struct {
	DefaultRadius float64 `toml:"default_radius"`
	DefaultModel  string  `toml:"default_model"`
	CanvasWidth   int     `toml:"canvas_width"`
	CanvasHeight  int     `toml:"canvas_height"`
	MoveStep      float64 `toml:"move_step"`
	RotateStep    float64 `toml:"rotate_step"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "file", "redis", "none"
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects the scene document store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // "file", "mongo"
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			DefaultRadius: 15,
			DefaultModel:  scene.Collimated.String(),
			CanvasWidth:   120,
			CanvasHeight:  36,
			MoveStep:      5,
			RotateStep:    5,
		},
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:       "file",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "benchray",
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/benchray/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "benchray", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file returns the defaults without error; a malformed file or an
// invalid value is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, ok := scene.ParseRayModel(c.Editor.DefaultModel); !ok {
		return fmt.Errorf("editor.default_model: unknown ray model %q", c.Editor.DefaultModel)
	}
	if c.Editor.DefaultRadius <= 0 || c.Editor.DefaultRadius > scene.MaxRadius {
		return fmt.Errorf("editor.default_radius: %v outside (0, %v]", c.Editor.DefaultRadius, scene.MaxRadius)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "file", "mongo":
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	return nil
}
