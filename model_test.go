package main

import (
	"errors"
	"math/big"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"charm-walletkit/config"
	"charm-walletkit/walletkit"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/mclock"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

var testAccount = common.HexToAddress("0x00000000000000000000000000000000000000aa")

// testWallet answers the eth calls a connector makes
type testWallet struct{}

func (testWallet) RequestAccounts() []common.Address { return []common.Address{testAccount} }
func (testWallet) ChainId() *hexutil.Big             { return (*hexutil.Big)(big.NewInt(1)) }

func newTestWallet(t *testing.T) string {
	t.Helper()
	srv := gethrpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", testWallet{}))
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Stop()
	})
	return ts.URL
}

func testKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func newTestModel(t *testing.T, entries ...config.ConnectorEntry) (*model, *mclock.Simulated) {
	t.Helper()
	t.Setenv("TERMUX_VERSION", "")

	cfg := config.DefaultConfig()
	cfg.Connectors = entries
	clk := new(mclock.Simulated)

	m := newModel(cfg, filepath.Join(t.TempDir(), "walletkit.json"), clk)
	m.w, m.h = 100, 40
	m.activePage = config.PageWallets
	t.Cleanup(func() { m.kit.close() })
	return &m, clk
}

func press(m *model, k string) tea.Cmd {
	_, cmd := m.Update(testKey(k))
	return cmd
}

// drainKit applies every queued kit event and returns the commands they
// produced. The event pump itself is not re-armed.
func drainKit(m *model) []tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case ev := <-m.events.out:
			if cmd := m.handleKitEvent(ev); cmd != nil {
				cmds = append(cmds, cmd)
			}
		default:
			return cmds
		}
	}
}

// waitKit applies kit events as they arrive until cond holds
func waitKit(t *testing.T, m *model, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case ev := <-m.events.out:
			m.handleKitEvent(ev)
		case <-deadline:
			t.Fatal("condition not reached")
		}
	}
}

// selectFirst picks the highlighted wallet and lets the debounce elapse
func selectFirst(m *model, clk *mclock.Simulated) []tea.Cmd {
	press(m, "enter")
	clk.Run(m.cfg.Debounce())
	return drainKit(m)
}

func TestSelectWalletConnectShowsPairing(t *testing.T) {
	m, clk := newTestModel(t, config.ConnectorEntry{ID: "wc", Name: "WalletConnect", Kind: config.KindWalletConnect})

	selectFirst(m, clk)
	require.Equal(t, config.PageConnectWithQRCode, m.activePage)
	require.Equal(t, "wc", m.selected.ID())

	waitKit(t, m, func() bool { return m.pairing.PairingURI != "" })
	require.True(t, strings.HasPrefix(m.pairing.PairingURI, "wc:"))
	require.Contains(t, m.View(), "Scan with WalletConnect")

	press(m, "esc")
	require.Equal(t, config.PageWallets, m.activePage)
	require.False(t, m.kit.uri.Active())
	require.Empty(t, m.kit.uri.Context().PairingURI)
}

func TestSelectionIsDebounced(t *testing.T) {
	m, clk := newTestModel(t,
		config.ConnectorEntry{ID: "a", Name: "A", Kind: config.KindInjected},
		config.ConnectorEntry{ID: "b", Name: "B", Kind: config.KindInjected},
	)

	press(m, "enter")
	clk.Run(100 * time.Millisecond)
	press(m, "down")
	press(m, "enter")
	clk.Run(m.cfg.Debounce())
	drainKit(m)

	require.Equal(t, config.PageConnecting, m.activePage)
	require.Equal(t, "b", m.selected.ID())
}

func TestSelectInjectedConnects(t *testing.T) {
	url := newTestWallet(t)
	m, clk := newTestModel(t, config.ConnectorEntry{ID: "frame", Name: "Frame", Kind: config.KindInjected, RPCURL: url})

	cmds := selectFirst(m, clk)
	require.Equal(t, config.PageConnecting, m.activePage)
	require.Len(t, cmds, 1)

	result := cmds[0]()
	require.IsType(t, connectResultMsg{}, result)
	require.NoError(t, result.(connectResultMsg).err)
	m.Update(result)

	waitKit(t, m, func() bool { return m.session.Connected() })
	require.Equal(t, config.PageConnected, m.activePage)
	require.Equal(t, testAccount, m.session.Account.Address)
	require.Contains(t, m.View(), "Connected")

	t.Run("reselecting the connected wallet is vetoed", func(t *testing.T) {
		m.activePage = config.PageWallets
		press(m, "enter")
		require.False(t, m.kit.orch.Pending())

		drainKit(m)
		require.Contains(t, m.statusMsg, "Already connected")
		require.True(t, m.session.Connected())
	})

	t.Run("disconnect returns to wallets", func(t *testing.T) {
		m.activePage = config.PageConnected
		press(m, "d")
		drainKit(m)

		require.False(t, m.session.Connected())
		require.Equal(t, config.PageWallets, m.activePage)
	})
}

func TestConnectFailureCanBeRetried(t *testing.T) {
	// nothing listens on this port
	m, clk := newTestModel(t, config.ConnectorEntry{ID: "gone", Name: "Gone", Kind: config.KindInjected, RPCURL: "http://127.0.0.1:1"})

	cmds := selectFirst(m, clk)
	require.Len(t, cmds, 1)

	m.Update(cmds[0]())
	require.NotEmpty(t, m.connectErr)
	require.Contains(t, m.View(), "Connection failed")

	cmd := press(m, "r")
	require.NotNil(t, cmd)
	require.Empty(t, m.connectErr)
}

func TestModalConnectorOpensOverlay(t *testing.T) {
	m, clk := newTestModel(t, config.ConnectorEntry{ID: "wcm", Name: "WC Modal", Kind: config.KindWalletConnect, ShowQRModal: true})

	selectFirst(m, clk)
	require.NotNil(t, m.modal)
	require.Equal(t, config.PageWallets, m.activePage)
	require.False(t, m.kit.uri.Active())
	require.Contains(t, m.View(), "WalletConnect · WC Modal")

	press(m, "esc")
	require.Nil(t, m.modal)
}

func TestStaleKitEventsAreDropped(t *testing.T) {
	m, _ := newTestModel(t, config.ConnectorEntry{ID: "a", Name: "A", Kind: config.KindInjected})

	m.handleKitEvent(kitEventMsg{gen: m.kitGen - 1, msg: routeMsg{route: walletkit.RouteConnecting}})
	require.Equal(t, config.PageWallets, m.activePage)
}

func TestSettingsDeleteRebuildsKit(t *testing.T) {
	m, _ := newTestModel(t,
		config.ConnectorEntry{ID: "a", Name: "A", Kind: config.KindInjected},
		config.ConnectorEntry{ID: "b", Name: "B", Kind: config.KindInjected},
	)
	gen := m.kitGen

	press(m, "s")
	require.Equal(t, config.PageSettings, m.activePage)
	press(m, "d")

	require.Equal(t, gen+1, m.kitGen)
	require.Len(t, m.kit.connectors, 1)
	require.Equal(t, "b", m.kit.connectors[0].ID())

	saved, err := config.Load(m.configPath)
	require.NoError(t, err)
	require.Len(t, saved.Connectors, 1)
}

func TestSettingsOpensConnectionForm(t *testing.T) {
	m, _ := newTestModel(t, config.ConnectorEntry{ID: "a", Name: "A", Kind: config.KindInjected})

	press(m, "s")
	press(m, "c")
	require.Equal(t, "kit", m.settingsMode)
	require.NotNil(t, m.form)
	require.Contains(t, m.View(), "Esc")

	press(m, "esc")
	require.Equal(t, "list", m.settingsMode)
}

func TestOldAttemptReportsAreDropped(t *testing.T) {
	m, clk := newTestModel(t,
		config.ConnectorEntry{ID: "wc", Name: "WalletConnect", Kind: config.KindWalletConnect},
		config.ConnectorEntry{ID: "other", Name: "Other", Kind: config.KindWalletConnect},
	)
	selectFirst(m, clk)
	require.Equal(t, "wc", m.selected.ID())

	stale := &walletkit.AttemptError{ID: "old", Connector: "other", Attempt: 1, Err: errors.New("boom")}
	m.handleKitEvent(kitEventMsg{gen: m.kitGen, msg: kitErrorMsg{err: stale}})
	require.Empty(t, m.connectErr)

	current := &walletkit.AttemptError{ID: "now", Connector: "wc", Attempt: 1, Err: walletkit.UserRejected("rejected")}
	m.handleKitEvent(kitEventMsg{gen: m.kitGen, msg: kitErrorMsg{err: current}})
	require.Equal(t, "Request rejected, retrying", m.connectErr)
}

func TestLogToggle(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "l")
	require.True(t, m.logEnabled)
	m.Update(logInitMsg{})
	require.True(t, m.logReady)
	require.Contains(t, m.View(), "Log")

	press(m, "l")
	require.False(t, m.logEnabled)
	require.Zero(t, m.logBuffer.Len())
}

func TestHomeMenuFollowsSession(t *testing.T) {
	m, _ := newTestModel(t, config.ConnectorEntry{ID: "a", Name: "A", Kind: config.KindInjected})

	m.goHome()
	view := m.View()
	require.Contains(t, view, "Main Menu")
	require.Contains(t, view, "Connect Wallet")
	require.NotContains(t, view, "Connected Account")

	m.session = walletkit.State{Status: walletkit.StatusConnected, Connector: m.kit.connectors[0], Account: walletkit.Account{Address: testAccount}}
	m.goHome()
	require.Contains(t, m.View(), "Connected Account")
}
