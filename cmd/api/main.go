package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"virtual-pet/internal/adapters/auth/jwtverifier"
	"virtual-pet/internal/adapters/ledger/boltledger"
	ledgermem "virtual-pet/internal/adapters/ledger/memory"
	"virtual-pet/internal/adapters/ledger/remote"
	"virtual-pet/internal/adapters/storage/sqldb"
	"virtual-pet/internal/middleware"
	"virtual-pet/internal/platform/config"
	"virtual-pet/internal/platform/httpclient"
	"virtual-pet/internal/platform/logger"
	"virtual-pet/internal/platform/telemetry"
	"virtual-pet/internal/ports/ledger"
	"virtual-pet/internal/router"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", "", "archivo YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Format:     logger.ParseFormat(cfg.Log.Format),
		App:        cfg.Log.App,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	opts := router.Options{
		Logger:        log,
		EnableSwagger: cfg.HTTP.EnableSwagger,
		Throttle: middleware.NewThrottle(middleware.ThrottleConfig{
			RequestsPerMinute: cfg.Throttle.RequestsPerMinute,
			Burst:             cfg.Throttle.Burst,
		}),
	}

	// Store
	switch cfg.Store.Driver {
	case "postgres", "sqlite":
		dialect, err := sqldb.ParseDialect(cfg.Store.Driver)
		if err != nil {
			return err
		}
		db, err := sqldb.Open(dialect, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		opts.Store = router.SQLStore(db)
		opts.Health = db.PingContext
	default:
		opts.Store = router.MemoryStore()
	}
	log.Info("store ready", map[string]any{"driver": cfg.Store.Driver})

	// Ledger
	led, closeLedger, err := openLedger(cfg.Ledger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer closeLedger()
	opts.Ledger = led
	log.Info("ledger ready", map[string]any{"driver": cfg.Ledger.Driver})

	// Auth: sin secreto queda el header de debug (modo dev)
	if !cfg.Auth.DevMode() {
		v, err := jwtverifier.New(jwtverifier.Config{
			Secret:   []byte(cfg.Auth.JWTSecret),
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
			Leeway:   cfg.Auth.Leeway,
		})
		if err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		opts.AuthVerifier = v
	} else {
		log.Warn("auth in dev mode: X-Debug-User-ID is trusted", nil)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr(),
		Handler:      otelhttp.NewHandler(router.NewRouter(opts), "http.server"),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

func openLedger(cfg config.LedgerConfig) (ledger.Ledger, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Driver) {
	case "bolt":
		l, err := boltledger.Open(cfg.BoltPath, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return nil, noop, err
		}
		return l, func() { _ = l.Close() }, nil
	case "remote":
		c, err := httpclient.NewWithBaseURL(cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, noop, err
		}
		l, err := remote.New(c, cfg.Token)
		if err != nil {
			return nil, noop, err
		}
		return l, noop, nil
	default:
		return ledgermem.New(), noop, nil
	}
}
