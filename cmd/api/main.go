package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"classroll/internal/attendance"
	"classroll/internal/cloudinary"
	"classroll/internal/config"
	"classroll/internal/httpapi"
	"classroll/internal/logging"
	"classroll/internal/queue"
	"classroll/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.Configure(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
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
		return err
	}
	defer backend.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store opened")

	checks := map[string]httpapi.HealthCheck{
		"store": func(ctx context.Context) bool { return store.Healthy(ctx, backend) },
	}

	var q queue.Queue
	inProcess := false
	switch cfg.QueueBackend {
	case "redis":
		rdb, ok := backend.(*store.Redis)
		if !ok {
			rdb = store.NewRedis(cfg.RedisAddr, cfg.RedisKeyPrefix)
			defer rdb.Close()
		}
		q = queue.NewRedisQueue(rdb.Client, cfg.QueueKey)
		checks["redis"] = rdb.Healthy
	default:
		q = queue.NewInMemory(64)
		inProcess = true
	}

	svc := attendance.NewService(
		attendance.NewStores(backend, cfg.MaxRecordSize),
		attendance.WithNotifier(queue.NewNotifier(q)),
		attendance.WithLogger(log.With().Str("component", "attendance").Logger()),
	)

	if inProcess {
		// no separate worker can reach an in-memory queue
		go func() {
			wlog := log.With().Str("component", "reminders").Logger()
			if err := queue.Run(ctx, q, queue.LogDelivery(svc.Students, wlog), wlog); err != nil {
				wlog.Error().Err(err).Msg("reminder loop stopped")
			}
		}()
	}

	var media httpapi.Uploader
	if cfg.CloudinaryURL != "" {
		cdn, err := cloudinary.New(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Warn().Err(err).Msg("cloudinary disabled")
		} else {
			media = cdn
			log.Info().Str("cloud", cdn.CloudName).Msg("cloudinary configured")
		}
	} else {
		log.Info().Msg("cloudinary not configured (CLOUDINARY_URL not set)")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := httpapi.NewRouter(httpapi.Options{
		Service:         svc,
		Media:           media,
		Logger:          log,
		Registry:        reg,
		SigningKey:      cfg.JWTSigningKey,
		Issuer:          cfg.JWTIssuer,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Checks:          checks,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	// give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced shutdown")
	}

	log.Info().Msg("server exited")
	return nil
}
