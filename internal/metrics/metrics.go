package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scissorhands_bot",
			Name:      "api_requests_total",
			Help:      "ScissorHands API requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scissorhands_bot",
			Name:      "api_request_duration_seconds",
			Help:      "ScissorHands API request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	catalogRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scissorhands_bot",
			Name:      "catalog_refreshes_total",
			Help:      "Background catalog refresh attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiRequestDuration, catalogRefreshes)
	})
}

// ObserveAPIRequest records one outbound API request.
func ObserveAPIRequest(endpoint, status string, d time.Duration) {
	apiRequests.WithLabelValues(endpoint, status).Inc()
	apiRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// IncCatalogRefresh counts a background refresh attempt outcome.
func IncCatalogRefresh(outcome string) {
	catalogRefreshes.WithLabelValues(outcome).Inc()
}

// Serve exposes /metrics and /healthz until ctx is cancelled.
func Serve(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
