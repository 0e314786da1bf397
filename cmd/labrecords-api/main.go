package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vamilabs/labrecords-api/internal/api"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/config"
	mongodb "github.com/vamilabs/labrecords-api/internal/infrastructure/db/mongo"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/db/postgres"
	redisdb "github.com/vamilabs/labrecords-api/internal/infrastructure/db/redis"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/queue"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/session"
	"github.com/vamilabs/labrecords-api/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(postgres.Config{
		DSN:         cfg.Postgres.DSN,
		MaxOpen:     cfg.Postgres.MaxOpen,
		MaxIdle:     cfg.Postgres.MaxIdle,
		MaxLifetime: cfg.Postgres.MaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	mongoClient, mdb, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartJanitor(ctx)

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(mdb), log)
	audit.Start()

	e := api.NewRouter(db, mdb, rdb, sessions, audit, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// No more requests are in flight; flush the buffered audit trail.
	audit.Stop()

	log.Info().Msg("server exited")
}
