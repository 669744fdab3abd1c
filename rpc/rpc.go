package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Client wraps a wallet's JSON-RPC endpoint
type Client struct {
	*ethclient.Client
	Raw *gethrpc.Client
	URL string
}

// DefaultDialTimeout bounds a dial made without a caller deadline
const DefaultDialTimeout = 8 * time.Second

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to a wallet RPC endpoint
func Connect(ctx context.Context, url string) ConnectResult {
	return ConnectWithTimeout(ctx, url, DefaultDialTimeout)
}

// ConnectWithTimeout attempts to connect within timeout. A deadline already
// set on ctx wins over timeout.
func ConnectWithTimeout(ctx context.Context, url string, timeout time.Duration) ConnectResult {
	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := Dial(ctx, url)
	return ConnectResult{Client: client, Error: err}
}

// Dial opens the endpoint. HTTP, WebSocket and IPC URLs are accepted.
func Dial(ctx context.Context, url string) (*Client, error) {
	raw, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewClient(raw, url), nil
}

// NewClient wraps an already dialed endpoint
func NewClient(raw *gethrpc.Client, url string) *Client {
	return &Client{
		Client: ethclient.NewClient(raw),
		Raw:    raw,
		URL:    url,
	}
}

// RequestAccounts asks the wallet to authorize the dApp (EIP-1102).
// Wallet errors keep their JSON-RPC code, e.g. 4001 when the user declines.
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.Raw.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Session is what a connected wallet reports about itself
type Session struct {
	Accounts []common.Address
	ChainID  *big.Int
}

// OpenSession requests accounts and reads the chain id
func (c *Client) OpenSession(ctx context.Context) (Session, error) {
	accounts, err := c.RequestAccounts(ctx)
	if err != nil {
		return Session{}, err
	}
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("chain id: %w", err)
	}
	return Session{Accounts: accounts, ChainID: chainID}, nil
}
