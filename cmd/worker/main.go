package main

import (
	"context"
	"os/signal"
	"syscall"

	"classroll/internal/attendance"
	"classroll/internal/config"
	"classroll/internal/logging"
	"classroll/internal/queue"
	"classroll/internal/store"
)

// Worker consumes reminder messages from redis and delivers them to the
// receiving student's contact.
func main() {
	cfg := config.Load()
	log := logging.Configure(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}).
		With().Str("component", "worker").Logger()

	if cfg.QueueBackend != "redis" {
		log.Fatal().Str("queue_backend", cfg.QueueBackend).
			Msg("worker requires QUEUE_BACKEND=redis; the api delivers in-process otherwise")
	}
	if cfg.StoreBackend == "memory" {
		log.Warn().Msg("memory store is private to this process; receivers will not resolve")
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, store.Options{
		Kind:           cfg.StoreBackend,
		DatabaseURL:    cfg.DatabaseURL,
		SQLitePath:     cfg.SQLitePath,
		RedisAddr:      cfg.RedisAddr,
		RedisKeyPrefix: cfg.RedisKeyPrefix,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer backend.Close()

	rdb, ok := backend.(*store.Redis)
	if !ok {
		rdb = store.NewRedis(cfg.RedisAddr, cfg.RedisKeyPrefix)
		defer rdb.Close()
	}
	if !rdb.Healthy(ctx) {
		log.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable yet; consume will retry")
	}

	svc := attendance.NewService(attendance.NewStores(backend, cfg.MaxRecordSize))
	q := queue.NewRedisQueue(rdb.Client, cfg.QueueKey)

	log.Info().Str("queue", cfg.QueueKey).Msg("worker started, waiting for messages")
	if err := queue.Run(ctx, q, queue.LogDelivery(svc.Students, log), log); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}
	log.Info().Msg("worker stopped")
}
