package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/events"
	"cardshare_backend/internal/qrcodes"
	"cardshare_backend/internal/scheduler"
	vcardrepo "cardshare_backend/internal/vcards/repository"
	vcardservice "cardshare_backend/internal/vcards/service"
	"cardshare_backend/platform/cache"
	"cardshare_backend/platform/config"
	"cardshare_backend/platform/db"
	"cardshare_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const qrCachePrefix = "cardshare:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var storageSvc storage.StorageService
	var logoObjects qrcodes.ObjectReader
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		storageSvc = minioSvc
		logoObjects = minioSvc
	}

	var qrCache cache.Cache
	if redisCache, err := cache.NewRedis(ctx, cfg, qrCachePrefix); err != nil {
		log.Warn("QR image cache unavailable", "error", err)
	} else {
		defer func() { _ = redisCache.Close() }()
		qrCache = redisCache
	}

	logoFetcher := qrcodes.NewFetcher(logoObjects, cfg.GetMinioBucketLogos(), &http.Client{Timeout: cfg.GetQRLogoTimeout()}, cfg.GetQRLogoMaxBytes())
	qrGenerator := qrcodes.NewGenerator(logoFetcher, qrCache, cfg, log)

	// Worker-side vCard wiring (no HTTP handlers required).
	vcardSvc := vcardservice.New(vcardrepo.New(pool), qrGenerator, vcardservice.Options{
		Storage: storageSvc,
		Bucket:  cfg.GetMinioBucketLogos(),
		BaseURL: cfg.GetPublicBaseURL(),
	}, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, vcardSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
