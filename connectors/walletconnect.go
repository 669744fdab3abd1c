package connectors

import (
	"context"
	"errors"
	"sync"
	"time"

	"charm-walletkit/walletkit"

	"github.com/ethereum/go-ethereum/event"
)

// ErrPairingExpired marks a pairing nobody approved before its expiry.
var ErrPairingExpired = errors.New("pairing expired")

const DefaultPairingTTL = 5 * time.Minute

// WalletConnect pairs with a mobile wallet out of band. Every Connect
// publishes a fresh pairing URI on the provider feed and waits for the
// relay to settle the session through Approve or Reject.
//
// The relay transport itself lives outside this package.
type WalletConnect struct {
	id            string
	name          string
	showQRModal   bool
	relayProtocol string
	ttl           time.Duration

	feed event.Feed

	mu      sync.Mutex
	current Pairing
	pending chan result
}

type result struct {
	acct walletkit.Account
	err  error
}

// NewWalletConnect returns a connector. showQRModal marks it as rendering
// its own pairing modal. A zero ttl means DefaultPairingTTL.
func NewWalletConnect(id, name string, showQRModal bool, ttl time.Duration) *WalletConnect {
	if ttl <= 0 {
		ttl = DefaultPairingTTL
	}
	return &WalletConnect{
		id:            id,
		name:          name,
		showQRModal:   showQRModal,
		relayProtocol: defaultRelayProtocol,
		ttl:           ttl,
	}
}

func (w *WalletConnect) ID() string           { return w.id }
func (w *WalletConnect) Name() string         { return w.name }
func (w *WalletConnect) Kind() walletkit.Kind { return walletkit.KindWalletConnect }
func (w *WalletConnect) ShowQRModal() bool    { return w.showQRModal }
func (w *WalletConnect) Installed() bool      { return true }
func (w *WalletConnect) DeepLink() string     { return "" }

// Provider returns the connector itself; it is its own event source.
func (w *WalletConnect) Provider(ctx context.Context) (walletkit.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w, nil
}

// SubscribeDisplayURI subscribes ch to pairing URIs. A live pairing issued
// before the subscription is replayed once, so a listener that loses the
// race with Connect still sees the current URI.
func (w *WalletConnect) SubscribeDisplayURI(ch chan<- string) event.Subscription {
	sub := w.feed.Subscribe(ch)

	w.mu.Lock()
	p := w.current
	w.mu.Unlock()

	if p.Topic != "" && !p.Expired(time.Now()) {
		go w.replay(p, ch, sub)
	}
	return sub
}

// replay delivers p to ch unless a newer pairing replaced it. The lock is
// held across the send so a re-pair published meanwhile arrives after it.
func (w *WalletConnect) replay(p Pairing, ch chan<- string, sub event.Subscription) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current.Topic != p.Topic {
		return
	}
	select {
	case ch <- p.URI():
	case <-sub.Err():
	}
}

// PairingURI returns the URI of the live pairing, or "".
func (w *WalletConnect) PairingURI() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current.Topic == "" || w.current.Expired(time.Now()) {
		return ""
	}
	return w.current.URI()
}

// Connect publishes a new pairing and waits for the session. An expired
// pairing is reported the way WalletConnect reports a reset request: as a
// user rejection, so callers retrying rejections re-pair.
func (w *WalletConnect) Connect(ctx context.Context) (walletkit.Account, error) {
	p, err := NewPairing(w.relayProtocol, time.Now().Add(w.ttl))
	if err != nil {
		return walletkit.Account{}, err
	}
	done := make(chan result, 1)

	w.mu.Lock()
	w.current = p
	w.pending = done
	w.mu.Unlock()

	w.feed.Send(p.URI())

	timer := time.NewTimer(w.ttl)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.acct, r.err
	case <-timer.C:
		w.settle(done)
		return walletkit.Account{}, &walletkit.ConnectError{
			Code:    walletkit.CodeUserRejected,
			Message: "connection request reset",
			Err:     ErrPairingExpired,
		}
	case <-ctx.Done():
		w.settle(done)
		return walletkit.Account{}, ctx.Err()
	}
}

// Approve settles the pending pairing with acct. It reports whether a
// pairing was waiting.
func (w *WalletConnect) Approve(acct walletkit.Account) bool {
	return w.resolve(result{acct: acct})
}

// Reject settles the pending pairing with a user rejection.
func (w *WalletConnect) Reject() bool {
	return w.resolve(result{err: walletkit.UserRejected("user rejected the session proposal")})
}

func (w *WalletConnect) resolve(r result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return false
	}
	w.pending <- r
	w.pending = nil
	w.current = Pairing{}
	return true
}

// settle clears the pairing if done is still the pending one.
func (w *WalletConnect) settle(done chan result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == done {
		w.pending = nil
		w.current = Pairing{}
	}
}
