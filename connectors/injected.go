package connectors

import (
	"context"
	"sync"

	"charm-walletkit/rpc"
	"charm-walletkit/walletkit"

	"github.com/ethereum/go-ethereum/event"
)

// codeUnauthorized is the EIP-1193 code for "no account authorized".
const codeUnauthorized = 4100

// Injected connects to a wallet exposing JSON-RPC locally (Frame, a
// wallet's local bridge, a dev node). It is the terminal stand-in for a
// browser-injected provider.
type Injected struct {
	id       string
	name     string
	url      string
	deepLink string

	mu     sync.Mutex
	client *rpc.Client
}

// NewInjected returns a connector for the endpoint at url. An empty url
// means the wallet is not installed on this machine.
func NewInjected(id, name, url, deepLink string) *Injected {
	return &Injected{id: id, name: name, url: url, deepLink: deepLink}
}

func (c *Injected) ID() string           { return c.id }
func (c *Injected) Name() string         { return c.name }
func (c *Injected) Kind() walletkit.Kind { return walletkit.KindInjected }
func (c *Injected) ShowQRModal() bool    { return false }
func (c *Injected) Installed() bool      { return c.url != "" }
func (c *Injected) DeepLink() string     { return c.deepLink }

// Provider returns a handle that never emits pairing URIs.
func (c *Injected) Provider(ctx context.Context) (walletkit.Provider, error) {
	if !c.Installed() {
		return nil, walletkit.ErrNoProvider
	}
	return silentProvider{}, nil
}

// Connect dials the wallet and requests its accounts.
func (c *Injected) Connect(ctx context.Context) (walletkit.Account, error) {
	if !c.Installed() {
		return walletkit.Account{}, walletkit.ErrNoProvider
	}

	client, err := c.dial(ctx)
	if err != nil {
		return walletkit.Account{}, err
	}
	sess, err := client.OpenSession(ctx)
	if err != nil {
		return walletkit.Account{}, err
	}
	if len(sess.Accounts) == 0 {
		return walletkit.Account{}, &walletkit.ConnectError{Code: codeUnauthorized, Message: "wallet returned no accounts"}
	}
	return walletkit.Account{Address: sess.Accounts[0], ChainID: sess.ChainID}, nil
}

// Client returns the dialed endpoint, or nil before the first Connect.
func (c *Injected) Client() *rpc.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Close drops the endpoint connection.
func (c *Injected) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

func (c *Injected) dial(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	res := rpc.Connect(ctx, c.url)
	if res.Error != nil {
		return nil, res.Error
	}
	c.client = res.Client
	return res.Client, nil
}

type silentProvider struct{}

func (silentProvider) SubscribeDisplayURI(ch chan<- string) event.Subscription {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	})
}
