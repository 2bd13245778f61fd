// Package main is the entry point for the certification API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/bluetrail/internal/config"
	"github.com/pkordes/bluetrail/internal/handler"
	"github.com/pkordes/bluetrail/internal/metrics"
	"github.com/pkordes/bluetrail/internal/middleware"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/refresh"
	"github.com/pkordes/bluetrail/internal/repo"
	"github.com/pkordes/bluetrail/internal/service"
	"github.com/pkordes/bluetrail/migrations"
	"github.com/pkordes/bluetrail/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		slog.Error("policy error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(ctx, pool); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Reference snapshot -----------------------------------------------
	// The first load failing is not fatal: /readyz and /challenges report
	// 503 until a later reload succeeds.
	store := reference.NewStore()
	refresher := refresh.New(repo.NewReferenceRepo(pool), store, policy.Weights, logger,
		refresh.WithNotifier(repo.NewListener(pool)),
		refresh.WithRecorder(m),
		refresh.WithInterval(cfg.RefreshInterval),
	)
	_ = refresher.Reload(ctx, refresh.TriggerStartup)

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		_ = refresher.Run(ctx)
	}()

	certs := service.NewCertificationService(store, policy, service.WithObserver(m))

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	protect := []func(http.Handler) http.Handler{
		middleware.NewAPIKeyHandler(cfg.APIKeys),
		middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes),
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS)*2, 10*time.Minute)
		go sweep(ctx, limiter)
		protect = append(protect, limiter.Handler)
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", handler.NewRouter(handler.NewServer(certs, store, spec.OpenAPI, logger), protect...))

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	<-refreshDone
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}

func sweep(ctx context.Context, rl *middleware.RateLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep()
		}
	}
}
