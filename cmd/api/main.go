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

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/catalogues"
	"cardshare_backend/internal/events"
	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/internal/http/router"
	"cardshare_backend/internal/phones"
	"cardshare_backend/internal/qrcodes"
	"cardshare_backend/internal/scheduler"
	"cardshare_backend/internal/search"
	"cardshare_backend/internal/vcards"
	vcardservice "cardshare_backend/internal/vcards/service"
	"cardshare_backend/migrations"
	"cardshare_backend/platform/cache"
	"cardshare_backend/platform/config"
	"cardshare_backend/platform/db"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/phone"
	"cardshare_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

const (
	qrCachePrefix   = "cardshare:"
	shutdownTimeout = 10 * time.Second
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for logos and product files (MinIO), optional
	var storageSvc storage.StorageService
	var logoObjects qrcodes.ObjectReader
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, "vcard-logos", cfg.GetMinioBucketLogos())
		ensureBucket(ctx, log, minioSvc, "catalogue-product-files", cfg.GetMinioBucketProductFiles())
		storageSvc = minioSvc
		logoObjects = minioSvc
		log.Info(
			"storage service initialized",
			"logosBucket", cfg.GetMinioBucketLogos(),
			"productFilesBucket", cfg.GetMinioBucketProductFiles(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; uploads disabled")
	}

	qrCache, closeCache := initQRCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	refresher, closeScheduler := initQRCodeScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	logoFetcher := qrcodes.NewFetcher(logoObjects, cfg.GetMinioBucketLogos(), &http.Client{Timeout: cfg.GetQRLogoTimeout()}, cfg.GetQRLogoMaxBytes())
	qrGenerator := qrcodes.NewGenerator(logoFetcher, qrCache, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	vcardsModule := vcards.NewModule(pool, qrGenerator, vcardservice.Options{
		Storage:      storageSvc,
		Bucket:       cfg.GetMinioBucketLogos(),
		BaseURL:      cfg.GetPublicBaseURL(),
		StrictPhones: cfg.GetPhoneStrictValidation(),
		Countries:    phone.Default(),
	}, refresher, eventBus, val, log)
	vcardsModule.RegisterHandlers(eventBus)

	cataloguesModule := catalogues.NewModule(pool, storageSvc, cfg.GetMinioBucketProductFiles(), qrGenerator, cfg.GetPublicBaseURL(), eventBus, val, log)
	cataloguesModule.RegisterHandlers(eventBus)

	phonesModule := phones.NewModule(phone.Default(), val)
	searchModule := search.NewModule(pool, cfg.GetPublicBaseURL(), val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			vcardsModule,
			cataloguesModule,
			phonesModule,
			searchModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initQRCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (cache.Cache, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; QR image cache disabled")
		return nil, nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg, qrCachePrefix)
	if err != nil {
		log.Error("failed to initialize QR image cache", "error", err)
		return nil, nil
	}

	return redisCache, func() {
		_ = redisCache.Close()
	}
}

func initQRCodeScheduler(cfg config.SchedulerConfig, log *logger.Logger) (vcards.QRCodeRefresher, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background QR refresh disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize QR refresh scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
