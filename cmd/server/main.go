// main wires configuration, storage, providers and the HTTP router, then
// runs the server and the audit worker until a shutdown signal arrives.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "github.com/rafaeld3v/gofinances/internal/jwt_token"
	ledgerhandler "github.com/rafaeld3v/gofinances/internal/ledger/handler"
	ledgerservice "github.com/rafaeld3v/gofinances/internal/ledger/service"
	ledgerstore "github.com/rafaeld3v/gofinances/internal/ledger/store"
	"github.com/rafaeld3v/gofinances/internal/platform/config"
	"github.com/rafaeld3v/gofinances/internal/platform/httpserver"
	"github.com/rafaeld3v/gofinances/internal/platform/kv"
	"github.com/rafaeld3v/gofinances/internal/platform/logger"
	"github.com/rafaeld3v/gofinances/internal/platform/metrics"
	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	platformredis "github.com/rafaeld3v/gofinances/internal/platform/redis"
	sessionhandler "github.com/rafaeld3v/gofinances/internal/session/handler"
	"github.com/rafaeld3v/gofinances/internal/session/provider"
	sessionservice "github.com/rafaeld3v/gofinances/internal/session/service"
	sessionstore "github.com/rafaeld3v/gofinances/internal/session/store"
	"github.com/rafaeld3v/gofinances/pkg/audit"
	"github.com/rafaeld3v/gofinances/pkg/audit/publisher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.New(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kvStore, closeKV, err := buildKV(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build kv backend: %w", err)
	}
	defer closeKV()

	auditPublisher, closePublisher, err := buildAuditPublisher(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build audit publisher: %w", err)
	}
	defer closePublisher()
	auditWorker := audit.NewWorker(auditPublisher, cfg.AuditBuffer, log)

	m := metrics.New()
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "gofinances", "gofinances-api")

	directory := provider.NewInMemoryDirectory()
	if cfg.SeedUserEmail != "" {
		if err := directory.Add("seed-user", cfg.SeedUserEmail, cfg.SeedUserName, cfg.SeedUserPassword); err != nil {
			return fmt.Errorf("seed password directory: %w", err)
		}
		log.Info("seeded password directory", "email", cfg.SeedUserEmail)
	}
	oauthProvider := provider.NewOAuthProvider(cfg.GoogleClientID)
	registry := provider.NewRegistry(
		oauthProvider,
		provider.NewPasswordProvider(directory),
	)

	sessions := sessionservice.New(
		registry,
		sessionstore.New(kvStore),
		jwtService,
		cfg.SessionTokenTTL,
		auditWorker,
		m,
		log,
	)
	ledger := ledgerservice.New(ledgerstore.New(kvStore), auditWorker, m, log)

	// Startup barrier: no request is served before the persisted session
	// has been restored (or found absent).
	if identity := sessions.Restore(ctx); identity.Present() {
		log.Info("resuming session", "user_id", identity.ID)
	}

	auth := middleware.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(m))

	sessionhandler.New(sessions, oauthProvider, log).Register(router, auth)
	ledgerhandler.New(ledger, log).Register(router, auth)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting gofinances server", "addr", cfg.Addr, "kv_backend", cfg.KVBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func buildKV(ctx context.Context, cfg config.Config, log *slog.Logger) (kv.Store, func(), error) {
	switch cfg.KVBackend {
	case "redis":
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedisStore(client.Client), func() { _ = client.Close() }, nil
	case "postgres":
		store, err := kv.NewPostgresStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		log.Warn("using in-memory kv store, sessions will not survive restarts")
		return kv.NewInMemoryStore(), func() {}, nil
	}
}

func buildAuditPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Publisher, func(), error) {
	if len(cfg.AuditBrokers) == 0 {
		return publisher.NewLogPublisher(log), func() {}, nil
	}
	kafka, err := publisher.NewKafkaPublisher(ctx, cfg.AuditBrokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	return kafka, kafka.Close, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
