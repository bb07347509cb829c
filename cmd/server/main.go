package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evidencias/internal/config"
	"evidencias/internal/infra"
	"evidencias/internal/metrics"
	"evidencias/internal/router"
	"evidencias/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.DBAutoMigrate {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate schema")
		}
		log.Info().Msg("schema migrated")
	}

	// Redis is optional: without it there is no job queue and rate limits
	// are kept per process.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("REDIS_URL not set: notifications disabled, in-memory rate limiting")
	}

	m, err := metrics.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root).
	var pool *worker.Pool
	mailer := infra.NewMailer(cfg)
	switch {
	case mailer == nil:
		log.Warn().Msg("SMTP_HOST not set: adjudication emails disabled")
	case rdb != nil:
		handlers := map[string]worker.Handler{
			worker.JobEmail: worker.NewEmailWorker(mailer),
		}
		pool = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers, m)
	}

	r, err := router.New(ctx, cfg, db, rdb, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("env", cfg.Env).Msgf("evidencias API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := infra.CloseDatabase(db); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
	log.Info().Msg("server exited")
}
