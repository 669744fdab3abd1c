package walletkit

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/event"
)

// URIContext is the value shared with the QR view. PairingURI is the latest
// URI for the active connector or "". Version grows with every change so
// consumers receiving updates out of order can drop stale ones.
type URIContext struct {
	PairingURI string
	Version    uint64
}

type scopeKey struct {
	connector string
	connected bool
}

// uriScope is one activation of the provider: a connector that is not
// connected and has no modal of its own.
type uriScope struct {
	cancel context.CancelFunc
	sub    event.Subscription
}

// URIProvider publishes pairing URIs for the selected WalletConnect
// connector and starts its connect flow. Sync re-evaluates it whenever the
// connector or the connected state changes.
type URIProvider struct {
	flow     *ConnectFlow
	onChange func(URIContext)
	log      *log.Logger

	mu      sync.Mutex
	synced  bool
	key     scopeKey
	active  *uriScope
	current URIContext
}

// NewURIProvider returns an idle provider. flow may be nil to only listen
// for URIs. onChange may be nil; it is called from background goroutines.
func NewURIProvider(flow *ConnectFlow, opts Options, onChange func(URIContext)) *URIProvider {
	opts = opts.withDefaults()
	return &URIProvider{
		flow:     flow,
		onChange: onChange,
		log:      opts.Logger.WithPrefix("wc-uri"),
	}
}

// Context returns the current shared value.
func (p *URIProvider) Context() URIContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Active reports whether a scope is running.
func (p *URIProvider) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// Sync tears down the running scope when (connector, connected) changed and
// starts a new one if c is an unconnected connector without its own modal.
// Calls with an unchanged key are no-ops.
func (p *URIProvider) Sync(c Connector, connected bool) {
	key := scopeKey{connector: connectorID(c), connected: connected}

	p.mu.Lock()
	if p.synced && p.key == key {
		p.mu.Unlock()
		return
	}
	p.synced = true
	p.key = key
	p.teardownLocked()
	cleared, changed := p.setLocked("")

	if c == nil || connected || c.ShowQRModal() {
		p.mu.Unlock()
		if changed {
			p.emit(cleared)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &uriScope{cancel: cancel}
	p.active = s
	p.mu.Unlock()

	if changed {
		p.emit(cleared)
	}
	p.log.Debug("scope started", "connector", c.ID())

	// subscription and connect race; neither waits for the other
	go p.listen(ctx, s, c)
	if p.flow != nil {
		go p.flow.Drive(ctx, c)
	}
}

// Close tears down the running scope and clears the URI.
func (p *URIProvider) Close() {
	p.mu.Lock()
	p.synced = false
	p.key = scopeKey{}
	p.teardownLocked()
	cleared, changed := p.setLocked("")
	p.mu.Unlock()

	if changed {
		p.emit(cleared)
	}
}

func (p *URIProvider) listen(ctx context.Context, s *uriScope, c Connector) {
	provider, err := c.Provider(ctx)
	if err != nil {
		p.log.Debug("no provider, pairing URI unavailable", "connector", c.ID(), "err", err)
		return
	}

	ch := make(chan string)
	p.mu.Lock()
	if p.active != s {
		// torn down while the provider resolved
		p.mu.Unlock()
		p.log.Debug("dropping stale provider", "connector", c.ID())
		return
	}
	sub := provider.SubscribeDisplayURI(ch)
	s.sub = sub
	p.mu.Unlock()

	for {
		select {
		case uri := <-ch:
			p.publish(s, uri)
		case <-sub.Err():
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *URIProvider) publish(s *uriScope, uri string) {
	p.mu.Lock()
	if p.active != s {
		p.mu.Unlock()
		return
	}
	v, changed := p.setLocked(uri)
	p.mu.Unlock()

	if changed {
		p.log.Debug("pairing uri", "uri", uri)
		p.emit(v)
	}
}

// teardownLocked cancels the running scope and unsubscribes once.
func (p *URIProvider) teardownLocked() {
	s := p.active
	if s == nil {
		return
	}
	p.active = nil
	s.cancel()
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	p.log.Debug("scope stopped")
}

func (p *URIProvider) setLocked(uri string) (URIContext, bool) {
	if p.current.PairingURI == uri {
		return p.current, false
	}
	p.current = URIContext{PairingURI: uri, Version: p.current.Version + 1}
	return p.current, true
}

func (p *URIProvider) emit(v URIContext) {
	if p.onChange != nil {
		p.onChange(v)
	}
}
