package scheduler

import (
	"context"
	"fmt"

	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/config"
	"cardshare_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// QRCodeRefresher re-renders and stores a vCard's QR code.
type QRCodeRefresher interface {
	RefreshQRCode(ctx context.Context, vcardID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher QRCodeRefresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher QRCodeRefresher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:    server,
		refresher: refresher,
		log:       log,
	}
	w.mux = w.routes()

	return w, nil
}

func (w *Worker) routes() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRefreshVCardQRCode, w.handleRefreshVCardQRCode)
	return mux
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRefreshVCardQRCode(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRefreshVCardQRCodePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	vcardID, err := payload.ParseVCardID()
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := w.refresher.RefreshQRCode(ctx, vcardID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			w.log.Info("vcard gone before qr refresh", "vcardId", vcardID)
			return nil
		}
		return err
	}
	return nil
}
