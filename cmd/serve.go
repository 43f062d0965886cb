package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/horizon/internal/api"
	"github.com/UnknownOlympus/horizon/internal/config"
	"github.com/UnknownOlympus/horizon/internal/metrics"
	"github.com/UnknownOlympus/horizon/internal/page"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/UnknownOlympus/horizon/internal/repository"
	"github.com/UnknownOlympus/horizon/internal/search"
	"github.com/UnknownOlympus/horizon/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the map service",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port, overrides HORIZON_PORT",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}

			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := setupLogger(cfg.Env, os.Stdout)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	client, err := newPlannerClient(cfg, logger)
	if err != nil {
		return err
	}

	provider, err := search.NewProvider(search.ProviderConfig{
		Type:      search.ProviderType(cfg.Search.Provider),
		APIKey:    cfg.Search.APIKey,
		RateLimit: cfg.Search.RateLimit,
		Limit:     cfg.Search.Limit,
		Language:  cfg.Search.Language,
		Planner:   client,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create search provider: %w", err)
	}
	logger.InfoContext(ctx, "Search provider initialized", "type", cfg.Search.Provider)

	repo, pool, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	var dbPinger api.Pinger
	if pool != nil {
		defer pool.Close()
		dbPinger = pool
	}

	surface := page.NewMemorySurface()
	controller := page.NewController(surface, page.Options{
		MaxDuration: cfg.Isochrone.MaxDuration,
		Gradient:    cfg.Isochrone.Gradient,
		Policy:      cfg.Isochrone.Policy,
		Zoom:        cfg.Isochrone.Zoom,
		Link:        client.AuthenticatedLink,
		OnRender:    appMetrics.ObserveRender,
		Logger:      logger,
	})

	plannerService := service.NewPlannerService(logger, client, provider, repo, controller, appMetrics, service.Options{
		ProviderName: cfg.Search.Provider,
		Origin: planner.IsochroneRequest{
			From:        cfg.Isochrone.Origin,
			MaxDuration: cfg.Isochrone.MaxDuration,
			MinDuration: cfg.Isochrone.MinDuration,
			Clockwise:   true,
		},
		Refresh: cfg.Isochrone.Refresh,
	})

	go controller.Run(ctx)
	go plannerService.Run(ctx)

	app := api.NewApp(api.Deps{
		Service:  plannerService,
		Surface:  surface,
		Database: dbPinger,
		Registry: reg,
		Logger:   logger,
		Context:  ctx,
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = api.Serve(ctx, app, logger, cfg.Port); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

func newPlannerClient(cfg *config.Config, logger *slog.Logger) (*planner.Client, error) {
	client, err := planner.NewClient(planner.Config{
		BaseURL:   cfg.Planner.BaseURL,
		Region:    cfg.Planner.Region,
		Token:     cfg.Planner.Token,
		Schema:    cfg.Planner.Schema,
		RateLimit: cfg.Planner.RateLimit,
		Timeout:   cfg.Planner.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create planner client: %w", err)
	}

	return client, nil
}

// openRepository connects the snapshot store. Without a database host snapshots are disabled
// and the returned pool is nil.
func openRepository(
	ctx context.Context,
	cfg config.PostgresConfig,
	logger *slog.Logger,
) (repository.Interface, *pgxpool.Pool, error) {
	if cfg.Host == "" {
		logger.InfoContext(ctx, "No database configured, isochrone snapshots are disabled.")
		return repository.Noop{}, nil, nil
	}

	pool, err := repository.NewDatabase(ctx, cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	repo := repository.NewRepository(pool, logger)
	if err = repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repo, pool, nil
}
