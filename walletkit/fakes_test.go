package walletkit

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

type countingSub struct {
	event.Subscription
	n *atomic.Int32
}

func (s countingSub) Unsubscribe() {
	s.n.Add(1)
	s.Subscription.Unsubscribe()
}

type fakeProvider struct {
	feed    event.Feed
	subs    atomic.Int32
	unsubs  atomic.Int32
	subOnce sync.Once
	subbed  chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subbed: make(chan struct{})}
}

func (p *fakeProvider) SubscribeDisplayURI(ch chan<- string) event.Subscription {
	p.subs.Add(1)
	p.subOnce.Do(func() { close(p.subbed) })
	return countingSub{Subscription: p.feed.Subscribe(ch), n: &p.unsubs}
}

// emit blocks until every live subscriber took the URI and returns how many
// did.
func (p *fakeProvider) emit(uri string) int {
	return p.feed.Send(uri)
}

type fakeConnector struct {
	id        string
	kind      Kind
	modal     bool
	installed bool
	deepLink  string

	provider    *fakeProvider
	providerErr error
	// gate, when set, holds Provider until closed, ignoring ctx
	gate chan struct{}
}

func (c *fakeConnector) ID() string        { return c.id }
func (c *fakeConnector) Name() string      { return c.id }
func (c *fakeConnector) Kind() Kind        { return c.kind }
func (c *fakeConnector) ShowQRModal() bool { return c.modal }
func (c *fakeConnector) Installed() bool   { return c.installed }
func (c *fakeConnector) DeepLink() string  { return c.deepLink }

func (c *fakeConnector) Provider(ctx context.Context) (Provider, error) {
	if c.gate != nil {
		<-c.gate
	}
	if c.providerErr != nil {
		return nil, c.providerErr
	}
	if c.provider == nil {
		return nil, ErrNoProvider
	}
	return c.provider, nil
}

func (c *fakeConnector) Connect(ctx context.Context) (Account, error) {
	return Account{Address: common.HexToAddress("0x00000000000000000000000000000000000000aa")}, nil
}

func wcConnector(id string, modal bool) *fakeConnector {
	return &fakeConnector{id: id, kind: KindWalletConnect, modal: modal, installed: true, provider: newFakeProvider()}
}

func injectedConnector(id string, installed bool, deepLink string) *fakeConnector {
	return &fakeConnector{id: id, kind: KindInjected, installed: installed, deepLink: deepLink}
}

type fakeClient struct {
	mu          sync.Mutex
	calls       []string
	disconnects int
	// results are consumed in order; once exhausted Connect succeeds
	results []error
	block   chan struct{}
}

func (c *fakeClient) Connect(ctx context.Context, conn Connector) error {
	c.mu.Lock()
	c.calls = append(c.calls, conn.ID())
	var err error
	if len(c.results) > 0 {
		err = c.results[0]
		c.results = c.results[1:]
	}
	block := c.block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (c *fakeClient) Disconnect() {
	c.mu.Lock()
	c.disconnects++
	c.mu.Unlock()
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *fakeClient) callList() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) disconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

type hostEvent struct {
	kind  string
	value string
}

type fakeHost struct {
	mu      sync.Mutex
	events  []hostEvent
	openErr error
}

func (h *fakeHost) record(kind, value string) {
	h.mu.Lock()
	h.events = append(h.events, hostEvent{kind: kind, value: value})
	h.mu.Unlock()
}

func (h *fakeHost) Push(route Route)                   { h.record("push", string(route)) }
func (h *fakeHost) SetSelectedConnector(c Connector)   { h.record("select", c.ID()) }
func (h *fakeHost) OpenWalletConnectModal(c Connector) { h.record("modal", c.ID()) }

func (h *fakeHost) OpenURL(uri string) error {
	h.record("open", uri)
	return h.openErr
}

func (h *fakeHost) all() []hostEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hostEvent(nil), h.events...)
}
