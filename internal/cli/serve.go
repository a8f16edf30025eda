package cli

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/giftring/internal/server"
	"github.com/matzehuels/giftring/pkg/cache"
	"github.com/matzehuels/giftring/pkg/observability"
	"github.com/matzehuels/giftring/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisDB       int
	keyPrefix     string
	noCache       bool
	noMetrics     bool
	shutdownGrace time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:          server.DefaultAddr,
		redisAddr:     os.Getenv("GIFTRING_REDIS_ADDR"),
		shutdownGrace: 10 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the draw API over HTTP",
		Long: `Serve starts the HTTP API. Draw reports are kept in Redis when --redis-addr
(or GIFTRING_REDIS_ADDR) is set, and in the local cache directory otherwise.
The Redis password is read from GIFTRING_REDIS_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "Redis address (host:port)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", "", "prefix for all cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching and report storage")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not serve /metrics")
	cmd.Flags().DurationVar(&opts.shutdownGrace, "shutdown-timeout", opts.shutdownGrace, "grace period for in-flight requests")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.keyPrefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	cfg := server.Config{
		Addr:            opts.addr,
		Runner:          runner,
		Logger:          c.Logger,
		ShutdownTimeout: opts.shutdownGrace,
	}
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := observability.NewMetrics(reg)
		observability.SetDrawHooks(m)
		observability.SetCacheHooks(m)
		observability.SetHTTPHooks(m)
		defer observability.Reset()
		cfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	// A signal ends the server cleanly; report it so main exits with 130.
	return ctx.Err()
}

// serverCache picks the cache backing the server.
func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		c.Logger.Warn("caching disabled: GET /v1/draws/{id} will not find any draw")
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: os.Getenv("GIFTRING_REDIS_PASSWORD"),
			DB:       opts.redisDB,
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "addr", opts.redisAddr, "db", opts.redisDB)
		return rc, nil
	}
	return newCache(false)
}
