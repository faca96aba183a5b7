package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "txledger"

// Collector holds the process counters. It satisfies session.Recorder.
type Collector struct {
	registry *prometheus.Registry

	messages     *prometheus.CounterVec
	transactions *prometheus.CounterVec
	reports      *prometheus.CounterVec
	clears       *prometheus.CounterVec
	sessions     prometheus.Gauge
	updates      prometheus.Counter
	apiErrors    *prometheus.CounterVec
}

// NewCollector registers all metrics on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages processed, by source and whether any transaction was recognized.",
		}, []string{"source", "result"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions added to ledgers.",
		}, []string{"source"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports rendered.",
		}, []string{"source"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clears_total",
			Help:      "Ledger clears.",
		}, []string{"source"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live chat sessions.",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_total",
			Help:      "Updates received from the Telegram Bot API.",
		}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_api_errors_total",
			Help:      "Failed Telegram Bot API calls, by method.",
		}, []string{"method"}),
	}

	c.registry.MustRegister(
		c.messages, c.transactions, c.reports, c.clears,
		c.sessions, c.updates, c.apiErrors,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) MessageProcessed(source string, added int) {
	result := "recognized"
	if added == 0 {
		result = "unrecognized"
	}
	c.messages.WithLabelValues(source, result).Inc()
	if added > 0 {
		c.transactions.WithLabelValues(source).Add(float64(added))
	}
}

func (c *Collector) ReportRendered(source string) {
	c.reports.WithLabelValues(source).Inc()
}

func (c *Collector) LedgerCleared(source string) {
	c.clears.WithLabelValues(source).Inc()
}

// SetSessions records the number of live sessions.
func (c *Collector) SetSessions(n int) {
	c.sessions.Set(float64(n))
}

// UpdatesReceived counts polled updates.
func (c *Collector) UpdatesReceived(n int) {
	c.updates.Add(float64(n))
}

// APIError counts a failed Bot API call.
func (c *Collector) APIError(method string) {
	c.apiErrors.WithLabelValues(method).Inc()
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfo("Metrics server listening", util.F("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
