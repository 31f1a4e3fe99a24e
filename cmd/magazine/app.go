package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tkilaker/magazine/internal/cache"
	"github.com/tkilaker/magazine/internal/config"
	"github.com/tkilaker/magazine/internal/endpoint"
	"github.com/tkilaker/magazine/internal/fetcher"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/metrics"
	"github.com/tkilaker/magazine/internal/widget"
)

// app is everything a command needs, built from configuration
type app struct {
	cfg      *config.Config
	store    cache.Store
	widget   *widget.Widget
	registry *prometheus.Registry
	closers  []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	logger.Log.WithField("backend", cfg.CacheBackend).Info("Opened cache store")

	selector, err := endpoint.New(cfg.APIBase, cfg.Endpoints)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to configure endpoints: %w", err)
	}

	a.widget = widget.New(
		a.store,
		fetcher.New(selector, cfg.FetchTimeout),
		widget.WithWindow(cfg.FreshnessWindow),
		widget.WithMetrics(metrics.New(a.registry)),
	)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.CacheBackend {
	case config.BackendMemory:
		a.store = cache.NewMemoryStore(nil)
	case config.BackendRedis:
		s, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
			Key:      a.cfg.CacheKey,
		}, nil)
		if err != nil {
			return err
		}
		a.store = s
		a.closers = append(a.closers, func() { s.Close() })
	case config.BackendPostgres:
		s, err := cache.NewPostgresStore(ctx, a.cfg.DatabaseURL, a.cfg.CacheKey, nil)
		if err != nil {
			return err
		}
		a.store = s
		a.closers = append(a.closers, s.Close)
	default:
		s, err := cache.NewFileStore(a.cfg.CacheDir, a.cfg.CacheKey, nil)
		if err != nil {
			return err
		}
		a.store = s
	}
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
