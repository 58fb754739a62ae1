package main

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/artic-selector/internal/config"
	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/Sternrassler/artic-selector/pkg/logging"
)

// app holds what every command needs after configuration is loaded.
type app struct {
	cfg    config.Config
	client *catalog.Client
	redis  *redis.Client
	logger zerolog.Logger
	closer io.Closer
}

// setup loads configuration, configures logging, and connects the catalog
// client. logOutput is used when no log file is configured.
func setup(ctx context.Context, cmd *cobra.Command, configPath string, logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
		Output: logOutput,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, closer: closer}

	ccfg := cfg.CatalogConfig()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
		}
		logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		ccfg.Redis = a.redis
	}

	a.client, err = catalog.New(ccfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Info().
		Str("base_url", ccfg.BaseURL).
		Int("page_size", ccfg.PageSize).
		Bool("redis", a.redis != nil).
		Msg("Catalog client ready")
	return a, nil
}

// Close releases the client, the Redis connection, and the log file.
func (a *app) Close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	a.closer.Close()
}
