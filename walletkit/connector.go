// Package walletkit drives wallet connections for a dApp front end: it turns a
// wallet selection into a connect attempt, negotiates WalletConnect pairing
// URIs and retries attempts the user rejected.
//
// Rendering and navigation belong to the host. walletkit only calls into the
// Host interface and the Client framework it is given.
package walletkit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// Kind identifies the connection mechanism behind a connector.
type Kind string

const (
	KindInjected      Kind = "injected"
	KindWalletConnect Kind = "walletconnect"
)

// Route names a host screen the orchestrator can navigate to.
type Route string

const (
	RouteConnectWithQRCode Route = "connect-with-qrcode"
	RouteConnecting        Route = "connecting"
)

// Account is the result of a successful connect.
type Account struct {
	Address common.Address
	ChainID *big.Int
}

// Provider is a live wallet provider handle.
type Provider interface {
	// SubscribeDisplayURI delivers every pairing URI the provider emits.
	// Unsubscribe on the returned subscription stops delivery.
	SubscribeDisplayURI(ch chan<- string) event.Subscription
}

// Connector is a handle to one wallet integration. Connectors are owned by
// the host; walletkit only holds one for the duration of an attempt.
type Connector interface {
	ID() string
	Name() string
	Kind() Kind

	// ShowQRModal reports whether the connector renders its own pairing UI.
	ShowQRModal() bool

	// Installed reports whether the underlying wallet is available locally.
	Installed() bool

	// DeepLink returns a URI that opens the wallet app, or "" if there is none.
	DeepLink() string

	Provider(ctx context.Context) (Provider, error)
	Connect(ctx context.Context) (Account, error)
}

// IsWalletConnect reports whether c pairs out of band via WalletConnect.
func IsWalletConnect(c Connector) bool {
	return c != nil && c.Kind() == KindWalletConnect
}

// Client is the wallet-connection framework walletkit sits on.
type Client interface {
	Connect(ctx context.Context, c Connector) error
	// Disconnect drops the active session. It is a no-op without one.
	Disconnect()
}

// Host is the UI surface the orchestrator routes through.
type Host interface {
	Push(route Route)
	SetSelectedConnector(c Connector)
	OpenWalletConnectModal(c Connector)
	OpenURL(uri string) error
}

func connectorID(c Connector) string {
	if c == nil {
		return ""
	}
	return c.ID()
}
