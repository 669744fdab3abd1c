package walletkit

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common/mclock"
)

const (
	DefaultDebounce   = 300 * time.Millisecond
	DefaultRetryDelay = 100 * time.Millisecond
)

// ClickHook runs before a wallet selection is handled. Returning false
// vetoes the selection.
type ClickHook func(c Connector, ev any) bool

// Options configures the orchestrator, the connect flow and the URI provider.
// The zero value is usable.
type Options struct {
	Logger *log.Logger
	Clock  mclock.Clock

	// Debounce is the quiet period before a selection is routed.
	Debounce time.Duration
	// RetryDelay is the settling delay before a failed attempt is reported
	// and possibly retried.
	RetryDelay time.Duration
	// RetrySlot holds the pending retry. Defaults to SharedRetrySlot.
	RetrySlot *TimerSlot
	// Retry defaults to an unbounded RejectionRetry.
	Retry RetryPolicy

	// Mobile routes uninstalled wallets through their deep link.
	Mobile bool

	OnClickWallet ClickHook
	OnError       ErrorHandler
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Clock == nil {
		o.Clock = mclock.System{}
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.RetrySlot == nil {
		o.RetrySlot = SharedRetrySlot()
	}
	if o.Retry == nil {
		o.Retry = RejectionRetry{}
	}
	return o
}
