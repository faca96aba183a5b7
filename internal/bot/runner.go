package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/metrics"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"golang.org/x/sync/errgroup"
)

// Run starts the bot: the update poller, idle-session eviction and, when
// configured, the metrics server. It returns when ctx is cancelled or a
// component fails.
func Run(ctx context.Context, cfg Config, opts session.Options) error {
	client := NewClient(cfg.Token,
		WithBaseURL(cfg.APIURL),
		WithHTTPClient(&http.Client{Timeout: cfg.PollTimeout + 30*time.Second}))
	collector := metrics.NewCollector()
	sessions := session.NewManager(opts)
	handler := NewHandler(sessions, client, collector, cfg.IsAdmin)

	poller := NewPoller(client, handler, cfg.PollTimeout)
	poller.onBatch = func(n int) {
		collector.UpdatesReceived(n)
		collector.SetSessions(sessions.Len())
	}
	poller.onError = collector.APIError

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(ctx)
	})

	if cfg.SessionTTL > 0 {
		g.Go(func() error {
			evictIdle(ctx, sessions, cfg.SessionTTL, collector)
			return nil
		})
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return collector.Serve(ctx, cfg.MetricsAddr)
		})
	}

	util.LogInfo("Bot started",
		util.F("admins", len(cfg.AdminIDs)),
		util.F("session_ttl", cfg.SessionTTL.String()))
	return g.Wait()
}

func evictIdle(ctx context.Context, sessions *session.Manager, ttl time.Duration, collector *metrics.Collector) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Evict(ttl)
			collector.SetSessions(sessions.Len())
		}
	}
}
