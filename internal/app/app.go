// Package app wires the service together: config, logging, store
// backend, fetcher stack, pipeline, crawler and the HTTP endpoint. It
// owns startup order and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyxed/rentcrawl/internal/api"
	"github.com/fyxed/rentcrawl/internal/clock/system"
	"github.com/fyxed/rentcrawl/internal/config"
	"github.com/fyxed/rentcrawl/internal/crawler"
	collyfetcher "github.com/fyxed/rentcrawl/internal/fetcher/colly"
	"github.com/fyxed/rentcrawl/internal/fetcher/ratelimit"
	"github.com/fyxed/rentcrawl/internal/logging"
	"github.com/fyxed/rentcrawl/internal/metrics"
	"github.com/fyxed/rentcrawl/internal/pipeline"
	"github.com/fyxed/rentcrawl/internal/source"
	"github.com/fyxed/rentcrawl/internal/store"
	memorystore "github.com/fyxed/rentcrawl/internal/store/memory"
	mongostore "github.com/fyxed/rentcrawl/internal/store/mongo"
	pgstore "github.com/fyxed/rentcrawl/internal/store/postgres"
)

const shutdownTimeout = 10 * time.Second

// App holds the assembled service.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	sources   []*source.Config
	engine    *crawler.Crawler
	fetcher   *collyfetcher.Fetcher
	apiServer *api.Server

	closeStore func(context.Context) error
}

// Build assembles the application from configuration. It fails fast: a
// backend that cannot be reached at startup aborts the build.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	zap.ReplaceGlobals(logger)

	metrics.Init()

	a := &App{cfg: cfg, logger: logger}

	a.sources, err = loadSources(cfg, logger)
	if err != nil {
		return nil, err
	}

	upserter, ready, err := a.setupStore(ctx)
	if err != nil {
		return nil, err
	}

	fetch, err := a.setupFetcher()
	if err != nil {
		return nil, err
	}

	sink := pipeline.New(upserter, system.New(), logger.Named("pipeline"))
	a.engine = crawler.New(fetch, sink, logger.Named("crawler"))
	a.apiServer = api.NewServer(logger.Named("api"), ready)

	return a, nil
}

// Run starts the HTTP endpoint, executes one crawl run over all
// configured sources and shuts everything down when the run finishes or a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	go func() {
		a.engine.Run(ctx, a.sources, crawler.RunParams{
			Cities:   a.cfg.Crawler.Cities,
			MaxItems: a.cfg.Crawler.MaxItems,
		})
		a.fetcher.Wait()
		stop()
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	return a.Close(shutdownCtx)
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	if a.closeStore != nil {
		if err := a.closeStore(ctx); err != nil {
			a.logger.Warn("store close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
	a.logger.Info("shutdown complete")
	return nil
}

// loadSources reads every configured source document. A malformed
// document disables that source only; a run with zero usable sources is
// an error.
func loadSources(cfg config.Config, logger *zap.Logger) ([]*source.Config, error) {
	sources := make([]*source.Config, 0, len(cfg.Crawler.Sources))
	for _, name := range cfg.Crawler.Sources {
		sc, err := source.Load(cfg.Crawler.SourcesDir, name)
		if err != nil {
			logger.Error("source config rejected, source disabled",
				zap.String("source", name), zap.Error(err))
			continue
		}
		sources = append(sources, sc)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no usable source configs in %s", cfg.Crawler.SourcesDir)
	}
	return sources, nil
}

func (a *App) setupStore(ctx context.Context) (store.Upserter, api.ReadyFunc, error) {
	switch a.cfg.Store.Backend {
	case "mongo":
		a.logger.Info("using mongo store backend",
			zap.String("database", a.cfg.Store.MongoDatabase),
			zap.String("collection", a.cfg.Store.MongoCollection))
		st, err := mongostore.Connect(ctx,
			a.cfg.Store.MongoURI, a.cfg.Store.MongoDatabase, a.cfg.Store.MongoCollection)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo store init: %w", err)
		}
		a.closeStore = st.Close
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return st.Ping(pingCtx)
		}
		return st, ready, nil

	case "postgres":
		a.logger.Info("using postgres store backend")
		st, err := pgstore.Connect(ctx, a.cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres store init: %w", err)
		}
		a.closeStore = func(context.Context) error {
			st.Close()
			return nil
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return st.Ping(pingCtx)
		}
		return st, ready, nil

	case "memory":
		a.logger.Info("using in-memory store backend")
		return memorystore.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}
}

func (a *App) setupFetcher() (crawler.Fetcher, error) {
	f, err := collyfetcher.New(collyfetcher.Config{
		UserAgent:      a.cfg.Fetcher.UserAgent,
		AcceptLanguage: a.cfg.Fetcher.AcceptLanguage,
		Delay:          a.cfg.FetchDelay(),
		RandomizeDelay: a.cfg.Fetcher.RandomizeDelay,
		Parallelism:    a.cfg.Fetcher.Concurrency,
		Timeout:        a.cfg.FetchTimeout(),
		RespectRobots:  a.cfg.Fetcher.RespectRobots,
	})
	if err != nil {
		return nil, fmt.Errorf("fetcher init: %w", err)
	}
	a.fetcher = f
	a.logger.Info("colly fetcher initialized",
		zap.Duration("delay", a.cfg.FetchDelay()),
		zap.Int("parallelism", a.cfg.Fetcher.Concurrency),
		zap.Bool("respect_robots", a.cfg.Fetcher.RespectRobots))

	if !a.cfg.RateLimit.Enabled {
		return f, nil
	}
	a.logger.Info("per-domain rate limit enabled",
		zap.Float64("rps", a.cfg.RateLimit.RPS),
		zap.Int("burst", a.cfg.RateLimit.Burst))
	return ratelimit.Wrap(f, ratelimit.Config{
		RPS:   a.cfg.RateLimit.RPS,
		Burst: a.cfg.RateLimit.Burst,
	}), nil
}
