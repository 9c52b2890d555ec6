package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/julianLagraba/fin-pro/internal/cache"
	"github.com/julianLagraba/fin-pro/internal/config"
	"github.com/julianLagraba/fin-pro/internal/database"
	"github.com/julianLagraba/fin-pro/internal/events"
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/router"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const memoryCacheSize = 1024

type serveCmd struct {
	configPath string
}

func (*serveCmd) Name() string { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-config <path>]

  Migrates the database, seeds the system categories and serves the API
  until SIGINT or SIGTERM.
`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.configPath, "config", "", "Path to the YAML config file (defaults to ./config.yaml when present).")
}

func (s *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return subcommands.ExitFailure
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := prepareDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	store, closeStore := openCache(ctx, cfg.Redis, log)
	defer closeStore()

	publisher, closePublisher := openPublisher(cfg.AMQP, log)
	defer closePublisher()

	svc := ledger.NewService(db, store, publisher, log, ledger.Config{
		DefaultCategory: cfg.Ledger.DefaultCategory,
		BcryptCost:      cfg.Security.BcryptCost,
		CacheTTL:        time.Duration(cfg.Redis.TTLSeconds) * time.Second,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

// openCache uses redis when an address is configured and reachable,
// otherwise an in-process LRU.
func openCache(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (cache.Store, func()) {
	if cfg.Addr == "" {
		return cache.NewMemory(memoryCacheSize), func() {}
	}
	r, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable, using in-memory cache")
		return cache.NewMemory(memoryCacheSize), func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("category cache on redis")
	return r, func() {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
}

// openPublisher connects to the broker when a URL is configured. Without
// one, events are dropped.
func openPublisher(cfg config.AMQPConfig, log zerolog.Logger) (events.Publisher, func()) {
	if cfg.URL == "" {
		return events.Nop{}, func() {}
	}
	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Warn().Err(err).Msg("amqp unavailable, ledger events disabled")
		return events.Nop{}, func() {}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("publishing ledger events")
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("close amqp publisher")
		}
	}
}
