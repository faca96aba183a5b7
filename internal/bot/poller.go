package bot

import (
	"context"
	"errors"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// UpdateSource is the long-polling side of the Bot API.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// Poller feeds updates to a handler in arrival order.
type Poller struct {
	source  UpdateSource
	handler *Handler
	timeout time.Duration
	backoff time.Duration
	onBatch func(n int)
	onError func(method string)

	offset int64
}

func NewPoller(source UpdateSource, handler *Handler, timeout time.Duration) *Poller {
	return &Poller{
		source:  source,
		handler: handler,
		timeout: timeout,
		backoff: 3 * time.Second,
		onBatch: func(int) {},
		onError: func(string) {},
	}
}

// Run polls until ctx is cancelled. Poll failures are logged and retried.
func (p *Poller) Run(ctx context.Context) error {
	util.LogInfo("Polling for updates", util.F("timeout", p.timeout.String()))
	for {
		updates, err := p.source.GetUpdates(ctx, p.offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.onError("getUpdates")
			util.LogWarn("getUpdates failed", util.F("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.backoff):
			}
			continue
		}

		p.onBatch(len(updates))
		for _, upd := range updates {
			p.offset = upd.UpdateID + 1
			if err := p.handler.HandleUpdate(ctx, upd); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				p.onError("sendMessage")
				util.LogError("Failed to handle update",
					util.F("update", upd.UpdateID),
					util.F("error", err.Error()))
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Offset is the next update id to request.
func (p *Poller) Offset() int64 {
	return p.offset
}
