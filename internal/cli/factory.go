package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/internal/config"
	"github.com/aretw0/wayfarer/internal/logging"
	"github.com/aretw0/wayfarer/pkg/adapters/file"
	"github.com/aretw0/wayfarer/pkg/adapters/loam"
	"github.com/aretw0/wayfarer/pkg/adapters/memory"
	"github.com/aretw0/wayfarer/pkg/adapters/process"
	"github.com/aretw0/wayfarer/pkg/adapters/redis"
	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/observability"
	"github.com/aretw0/wayfarer/pkg/persistence/middleware"
	"github.com/aretw0/wayfarer/pkg/ports"
	"github.com/aretw0/wayfarer/pkg/session"
)

// Services bundles everything a command needs, built once from the config.
type Services struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *wayfarer.Engine
	Store    ports.StateStore
	Locker   ports.DistributedLocker
	Registry *prometheus.Registry

	closers []func() error
}

// Build wires logger, catalog, engine, store and metrics according to cfg.
// Callers must Close the result.
func Build(ctx context.Context, cfg config.Config) (*Services, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level)

	src, err := catalogSource(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	engineOpts := []wayfarer.Option{
		wayfarer.WithLogger(logger),
		wayfarer.WithCatalogSource(src),
		wayfarer.WithLifecycleHooks(domain.ChainHooks(observability.LogHooks(logger), metrics.Hooks())),
	}
	if pc := cfg.Planner; pc.Command != "" {
		engineOpts = append(engineOpts, wayfarer.WithItineraryProvider(
			process.NewProvider(pc.Command, pc.Args, process.WithBaseDir(pc.Dir), process.WithTimeout(planTimeout(pc.Timeout))),
		))
		logger.Debug("external planner configured", "command", pc.Command)
	}

	engine, err := wayfarer.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	svc := &Services{
		Config:   cfg,
		Logger:   logger,
		Engine:   engine,
		Registry: registry,
	}
	if err := svc.openStore(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func planTimeout(d time.Duration) time.Duration {
	if d == 0 {
		return process.DefaultTimeout
	}
	return d
}

// Sessions returns a session manager over the configured store and locker.
func (s *Services) Sessions() *session.Manager {
	return session.NewManager(s.Store, s.Engine,
		session.WithLocker(s.Locker),
		session.WithLogger(s.Logger),
	)
}

// Close releases store connections.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Services) openStore(ctx context.Context) error {
	switch s.Config.Store.Backend {
	case config.BackendMemory:
		s.Store = memory.NewStore()
	case config.BackendFile:
		s.Store = file.New(s.Config.Store.Path)
	case config.BackendRedis:
		rc := s.Config.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return fmt.Errorf("redis unreachable at %s: %w", rc.Addr, err)
		}
		s.Store = store
		s.Locker = redis.NewLocker(store.Client(), store.Prefix())
		s.closers = append(s.closers, store.Close)
	default:
		return fmt.Errorf("unknown store backend %q", s.Config.Store.Backend)
	}

	if s.Config.Store.EncryptionKey != "" {
		mw, err := encryption(s.Config.Store)
		if err != nil {
			return errors.Join(err, s.Close())
		}
		s.Store = middleware.Chain(s.Store, mw)
	}

	s.Logger.Debug("store ready", "backend", s.Config.Store.Backend, "encrypted", s.Config.Store.EncryptionKey != "")
	return nil
}

func encryption(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	ec := middleware.EncryptionConfig{ActiveKey: active}
	for i, encoded := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		ec.FallbackKeys = append(ec.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(ec), nil
}

// catalogSource picks the catalog provider: a loam destinations directory, a YAML catalog, or the built-in one.
// With both set, the YAML file supplies the interests and loam the destinations.
func catalogSource(cfg config.CatalogConfig) (ports.CatalogSource, error) {
	var fromFile *catalog.Catalog
	if cfg.Path != "" {
		c, err := catalog.Load(cfg.Path)
		if err != nil {
			return nil, err
		}
		fromFile = c
	}

	if cfg.DestinationsDir == "" {
		if fromFile == nil {
			return nil, nil
		}
		return fromFile, nil
	}

	var opts []loam.Option
	if fromFile != nil {
		opts = append(opts, loam.WithInterests(fromFile.Interests))
	}
	src, err := loam.Open(cfg.DestinationsDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open destinations: %w", err)
	}
	return src, nil
}
