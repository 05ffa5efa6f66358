// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Roster HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and .env when present).
//  3. Connect to Redis, if configured.
//  4. Build the character source (GraphQL client, cache, coalescing).
//  5. Wire the board store, service and handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/joho/godotenv"

	"github.com/taibuivan/roster/internal/api"
	"github.com/taibuivan/roster/internal/board"
	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/internal/platform/config"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/graphql"
	redisstore "github.com/taibuivan/roster/internal/platform/redis"
	"github.com/taibuivan/roster/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Roster] service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Debug("dotenv_not_loaded", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("graphql_endpoint", cfg.GraphQLEndpoint),
		slog.Bool("redis", cfg.UsesRedis()),
	)

	// Root context for background workers (rate limiter sweep, board janitor).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Character Source ───────────────────────────────────────────────
	graphqlClient := graphql.NewClient(cfg.GraphQLEndpoint, &http.Client{Timeout: cfg.FetchTimeout})
	var characterCache character.Cache

	healthDeps := api.HealthDependencies{
		CheckUpstream: graphqlClient.Ping,
	}

	// ── 4. Board Store (Redis or memory) ──────────────────────────────────
	var repository board.Repository

	if cfg.UsesRedis() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		characterCache = character.NewRedisCache(rdb, cfg.CharacterCacheTTL)
		repository = board.NewRedisRepository(rdb, cfg.BoardTTL)
		healthDeps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		memory := board.NewMemoryRepository(cfg.BoardTTL)
		go memory.Run(rootCtx, log)
		repository = memory
		log.Warn("redis_not_configured", slog.String("board_store", "memory"))
	}

	source := character.NewCachedSource(character.NewGraphQLSource(graphqlClient, log), characterCache, log)

	// ── 5. Sessions ───────────────────────────────────────────────────────
	sessions, err := sec.NewSessionService(cfg.SessionSecret, constants.SessionIssuer)
	must(log, err, "initialize session service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	boardService := board.NewService(repository, source, cfg.FetchTimeout, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Board:     board.NewHandler(boardService, sessions, cfg.BoardTTL),
		Page:      board.NewPageHandler(boardService, sessions, cfg.BoardTTL, !cfg.IsDevelopment()),
	}

	server := api.NewServer(rootCtx, cfg, log, sessions, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	// Let background fetches land before the store goes away.
	boardService.Wait()

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
