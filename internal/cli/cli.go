// Package cli implements the benchray command-line interface.
//
// This package provides commands for editing optical schematics in a
// terminal UI, rendering scenes to SVG/DOT/PNG, managing stored scenes, and
// running the HTTP API. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open a scene in the interactive terminal editor
//   - render: Render a scene file to SVG, DOT, or PNG
//   - scene: List, show, and delete stored scenes
//   - serve: Run the HTTP API server
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benchray/benchray/pkg/buildinfo"
	"github.com/benchray/benchray/pkg/cache"
	"github.com/benchray/benchray/pkg/config"
	"github.com/benchray/benchray/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "benchray"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config location when set by the
	// --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "BenchRay edits and renders 2D optical schematics",
		Long:         `BenchRay is a schematic editor for 2D optical benches. Elements are linked into trace hierarchies, and the aperture engine keeps every element's radius and cone angle consistent with its parent's ray model as the schematic is edited.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/benchray/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sceneCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file (from --config or the default location).
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/benchray/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// storeDir returns the scene store directory (~/.local/share/benchray/scenes
// or the configured override).
func storeDir(cfg config.Config) (string, error) {
	if cfg.Store.Dir != "" {
		return cfg.Store.Dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "scenes"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "scenes"), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
