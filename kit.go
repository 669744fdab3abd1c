package main

import (
	"context"
	"sync"

	"charm-walletkit/config"
	"charm-walletkit/connectors"
	"charm-walletkit/helpers"
	"charm-walletkit/walletkit"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common/mclock"
)

// -------------------- WALLETKIT WIRING --------------------

// kit bundles the connection core built from one config snapshot
type kit struct {
	gen        uint64
	connectors []walletkit.Connector
	manager    *walletkit.Manager
	orch       *walletkit.Orchestrator
	flow       *walletkit.ConnectFlow
	uri        *walletkit.URIProvider
	mobile     bool
}

// eventQueue delivers kit events to the Update loop in the order they were
// posted. Posting never blocks: once the channel is full, events wait in a
// backlog drained by a single goroutine.
type eventQueue struct {
	out chan kitEventMsg

	mu       sync.Mutex
	backlog  []kitEventMsg
	draining bool
}

func newEventQueue(size int) *eventQueue {
	return &eventQueue{out: make(chan kitEventMsg, size)}
}

func (q *eventQueue) post(ev kitEventMsg) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.backlog) == 0 {
		select {
		case q.out <- ev:
			return
		default:
		}
	}
	q.backlog = append(q.backlog, ev)
	if !q.draining {
		q.draining = true
		go q.drain()
	}
}

// drain sends the backlog head before removing it, so a post racing with
// the last send still queues behind it.
func (q *eventQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.backlog) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		ev := q.backlog[0]
		q.mu.Unlock()

		q.out <- ev

		q.mu.Lock()
		q.backlog = q.backlog[1:]
		q.mu.Unlock()
	}
}

// kitHost implements walletkit.Host by posting messages to the Update loop
type kitHost struct {
	gen    uint64
	events *eventQueue
}

func (h kitHost) post(msg any) {
	h.events.post(kitEventMsg{gen: h.gen, msg: msg})
}

func (h kitHost) Push(r walletkit.Route) {
	h.post(routeMsg{route: r})
}

func (h kitHost) SetSelectedConnector(c walletkit.Connector) {
	h.post(selectConnectorMsg{connector: c})
}

func (h kitHost) OpenWalletConnectModal(c walletkit.Connector) {
	h.post(openModalMsg{connector: c})
}

func (h kitHost) OpenURL(uri string) error {
	copied, err := helpers.OpenOrCopy(uri)
	h.post(deepLinkMsg{uri: uri, copied: copied, err: err})
	return err
}

// newKit builds connectors and the orchestration core from cfg. A nil clock
// means wall-clock time with the process-wide retry slot.
func newKit(cfg config.Config, gen uint64, logger *log.Logger, clock mclock.Clock, events *eventQueue) (*kit, []error) {
	host := kitHost{gen: gen, events: events}
	list, errs := connectors.FromConfig(cfg)

	k := &kit{gen: gen, connectors: list, mobile: cfg.IsMobile()}
	k.manager = walletkit.NewManager(logger.WithPrefix("session"), func(s walletkit.State) {
		host.post(sessionMsg{state: s})
	})

	opts := walletkit.Options{
		Logger:     logger.WithPrefix("walletkit"),
		Clock:      clock,
		Debounce:   cfg.Debounce(),
		RetryDelay: cfg.RetryDelay(),
		Retry:      walletkit.RejectionRetry{MaxAttempts: cfg.MaxRetries},
		Mobile:     k.mobile,
		OnClickWallet: func(c walletkit.Connector, _ any) bool {
			s := k.manager.State()
			if s.Connected() && s.Connector != nil && s.Connector.ID() == c.ID() {
				host.post(vetoMsg{connector: c})
				return false
			}
			return true
		},
		OnError: func(err error) {
			host.post(kitErrorMsg{err: err})
		},
	}
	if clock != nil {
		opts.RetrySlot = walletkit.NewTimerSlot(clock)
	}

	k.orch = walletkit.NewOrchestrator(k.manager, host, opts)
	k.flow = walletkit.NewConnectFlow(k.manager, opts)
	k.uri = walletkit.NewURIProvider(k.flow, opts, func(v walletkit.URIContext) {
		host.post(pairingMsg{ctx: v})
	})
	return k, errs
}

// find returns the connector with the given id, or nil
func (k *kit) find(id string) walletkit.Connector {
	return connectors.Find(k.connectors, id)
}

// close stops timers and subscriptions and drops the session
func (k *kit) close() {
	k.orch.Cancel()
	k.uri.Close()
	k.manager.Disconnect()
	for _, c := range k.connectors {
		if cl, ok := c.(interface{ Close() }); ok {
			cl.Close()
		}
	}
}

// connect runs a single connect attempt for c. Used by the connecting screen
// and the modal, which report failures instead of retrying.
func (k *kit) connect(ctx context.Context, c walletkit.Connector) error {
	return k.manager.Connect(ctx, c)
}
