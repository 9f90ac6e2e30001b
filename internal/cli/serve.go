package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchray/benchray/internal/server"
	"github.com/benchray/benchray/pkg/cache"
	"github.com/benchray/benchray/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the BenchRay HTTP API.

The server exposes stored scenes and their rendered artifacts. Backends for
the scene store (file or MongoDB) and the artifact cache (file, Redis, or
none) are selected in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(ctx)

			var cch cache.Cache
			switch cfg.Cache.Backend {
			case "redis":
				cch, err = cache.NewRedisCache(ctx, cache.RedisConfig{
					Addr:     cfg.Cache.RedisAddr,
					Password: cfg.Cache.RedisPassword,
					DB:       cfg.Cache.RedisDB,
				})
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
			case "none":
				cch = cache.NewNullCache()
			default:
				dir := cfg.Cache.Dir
				if dir == "" {
					dir, err = cacheDir()
					if err != nil {
						return fmt.Errorf("resolve cache dir: %w", err)
					}
				}
				cch, err = cache.NewFileCache(dir)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
			}

			runner := pipeline.NewRunner(cch, nil, c.Logger)
			defer runner.Close()

			srv := server.New(st, runner, c.Logger)
			return srv.ListenAndServe(ctx, cfg.Server.Listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config, default :8080)")
	return cmd
}
