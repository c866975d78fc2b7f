package worker

import (
	"context"
	"math"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/domain"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/metrics"

	"github.com/rs/zerolog"
)

// RetryPolicy задаёт экспоненциальный backoff между попытками обновления.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the pause before the next attempt. Attempts are 1-based;
// the delay grows by BackoffFactor per attempt and is clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := r.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		// overflow on huge attempt numbers
		d = time.Second
	}
	return d
}

// CatalogWorker periodically refreshes the barber catalog so the bot serves
// fresh availability without hitting the backend on every tap.
type CatalogWorker struct {
	catalog     domain.CatalogService
	interval    time.Duration
	retryPolicy RetryPolicy
	logger      *zerolog.Logger
}

func NewCatalogWorker(catalog domain.CatalogService, interval time.Duration, retry RetryPolicy, logger *zerolog.Logger) *CatalogWorker {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &CatalogWorker{
		catalog:     catalog,
		interval:    interval,
		retryPolicy: retry,
		logger:      logger,
	}
}

// Start blocks until ctx is cancelled. Предполагается запуск в отдельной горутине.
func (w *CatalogWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("Catalog worker started")

	// Первое обновление сразу, не дожидаясь тикера
	w.refreshWithRetry(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Catalog worker stopped")
			return
		case <-ticker.C:
			w.refreshWithRetry(ctx)
		}
	}
}

func (w *CatalogWorker) refreshWithRetry(ctx context.Context) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.catalog.Refresh(ctx)
		if err == nil {
			metrics.IncCatalogRefresh("success")
			return
		}

		metrics.IncCatalogRefresh("failure")
		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("Catalog refresh failed")

		if attempt == w.retryPolicy.MaxRetries {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}
