package walletkit

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ConnectFlow runs connect attempts for a connector that pairs through the
// QR screen, retrying attempts the user rejected.
type ConnectFlow struct {
	client Client
	opts   Options
	log    *log.Logger
}

// NewConnectFlow returns a flow connecting through client.
func NewConnectFlow(client Client, opts Options) *ConnectFlow {
	opts = opts.withDefaults()
	return &ConnectFlow{
		client: client,
		opts:   opts,
		log:    opts.Logger.WithPrefix("connect"),
	}
}

// Drive makes the first attempt for c and blocks until that call returns.
// Failures are handled on the retry slot after the settling delay; retries
// stop once ctx is done.
func (f *ConnectFlow) Drive(ctx context.Context, c Connector) {
	f.attempt(ctx, c, 1)
}

func (f *ConnectFlow) attempt(ctx context.Context, c Connector, n int) {
	id := uuid.NewString()
	f.log.Debug("attempt", "connector", c.ID(), "n", n, "id", id)

	err := f.client.Connect(ctx, c)
	if err == nil {
		return
	}
	if ctx.Err() != nil || errors.Is(err, ErrSuperseded) {
		f.log.Debug("attempt abandoned", "id", id, "err", err)
		return
	}

	reported := &AttemptError{ID: id, Connector: c.ID(), Attempt: n, Err: err}
	f.opts.RetrySlot.Schedule(f.opts.RetryDelay, func() {
		ReportError(f.log, reported, f.opts.OnError)
		if ctx.Err() != nil {
			return
		}
		if f.opts.Retry.ShouldRetry(err, n) {
			f.log.Info("retrying after rejection", "connector", c.ID(), "n", n+1)
			f.attempt(ctx, c, n+1)
		}
	})
}
