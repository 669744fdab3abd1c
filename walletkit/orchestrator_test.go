package walletkit

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(opts Options) (*Orchestrator, *fakeClient, *fakeHost, *mclock.Simulated) {
	clk := new(mclock.Simulated)
	opts.Clock = clk
	client := &fakeClient{}
	host := &fakeHost{}
	return NewOrchestrator(client, host, opts), client, host, clk
}

func TestHandleWalletSelected_ModalConnectorOpensModal(t *testing.T) {
	o, client, host, clk := newTestOrchestrator(Options{})

	o.HandleWalletSelected(wcConnector("wc", true), nil)
	clk.Run(DefaultDebounce)

	require.Equal(t, []hostEvent{{kind: "modal", value: "wc"}}, host.all())
	require.Equal(t, 1, client.disconnectCount())
}

func TestHandleWalletSelected_WalletConnectGoesToQRCode(t *testing.T) {
	o, _, host, clk := newTestOrchestrator(Options{})

	o.HandleWalletSelected(wcConnector("A", false), nil)
	clk.Run(DefaultDebounce)

	require.Equal(t, []hostEvent{
		{kind: "select", value: "A"},
		{kind: "push", value: string(RouteConnectWithQRCode)},
	}, host.all())
}

func TestHandleWalletSelected_InjectedGoesToConnecting(t *testing.T) {
	o, _, host, clk := newTestOrchestrator(Options{})

	o.HandleWalletSelected(injectedConnector("injected", true, ""), nil)
	clk.Run(DefaultDebounce)

	require.Equal(t, []hostEvent{
		{kind: "select", value: "injected"},
		{kind: "push", value: string(RouteConnecting)},
	}, host.all())
}

func TestHandleWalletSelected_MobileDeepLink(t *testing.T) {
	t.Run("opens deep link", func(t *testing.T) {
		o, _, host, clk := newTestOrchestrator(Options{Mobile: true})

		o.HandleWalletSelected(injectedConnector("mm", false, "https://metamask.app.link/dapp/example.org"), nil)
		clk.Run(DefaultDebounce)

		require.Equal(t, []hostEvent{{kind: "open", value: "https://metamask.app.link/dapp/example.org"}}, host.all())
	})

	t.Run("open failure does not navigate", func(t *testing.T) {
		o, _, host, clk := newTestOrchestrator(Options{Mobile: true})
		host.openErr = errors.New("no opener")

		o.HandleWalletSelected(injectedConnector("mm", false, "metamask://dapp"), nil)
		clk.Run(DefaultDebounce)

		require.Len(t, host.all(), 1)
	})

	t.Run("no deep link falls through to connecting", func(t *testing.T) {
		o, _, host, clk := newTestOrchestrator(Options{Mobile: true})

		o.HandleWalletSelected(injectedConnector("mm", false, ""), nil)
		clk.Run(DefaultDebounce)

		require.Equal(t, []hostEvent{
			{kind: "select", value: "mm"},
			{kind: "push", value: string(RouteConnecting)},
		}, host.all())
	})

	t.Run("desktop ignores installed flag", func(t *testing.T) {
		o, _, host, clk := newTestOrchestrator(Options{})

		o.HandleWalletSelected(injectedConnector("mm", false, "metamask://dapp"), nil)
		clk.Run(DefaultDebounce)

		require.Equal(t, string(RouteConnecting), host.all()[1].value)
	})
}

func TestHandleWalletSelected_DebounceKeepsLastSelection(t *testing.T) {
	o, client, host, clk := newTestOrchestrator(Options{})

	o.HandleWalletSelected(injectedConnector("first", true, ""), nil)
	clk.Run(100 * time.Millisecond)
	o.HandleWalletSelected(wcConnector("second", false), nil)
	require.True(t, o.Pending())

	clk.Run(299 * time.Millisecond)
	require.Empty(t, host.all())

	clk.Run(time.Millisecond)
	require.Equal(t, []hostEvent{
		{kind: "select", value: "second"},
		{kind: "push", value: string(RouteConnectWithQRCode)},
	}, host.all())
	require.Equal(t, 2, client.disconnectCount())
	require.False(t, o.Pending())

	clk.Run(time.Second)
	require.Len(t, host.all(), 2)
}

func TestHandleWalletSelected_VetoHasNoSideEffects(t *testing.T) {
	var gotEvent any
	o, client, host, clk := newTestOrchestrator(Options{
		OnClickWallet: func(c Connector, ev any) bool {
			gotEvent = ev
			return false
		},
	})

	o.HandleWalletSelected(wcConnector("wc", false), "click")
	clk.Run(time.Second)

	require.Equal(t, "click", gotEvent)
	require.Empty(t, host.all())
	require.Zero(t, client.disconnectCount())
	require.False(t, o.Pending())
}

func TestHandleWalletSelected_HookAllows(t *testing.T) {
	o, client, host, clk := newTestOrchestrator(Options{
		OnClickWallet: func(Connector, any) bool { return true },
	})

	o.HandleWalletSelected(injectedConnector("injected", true, ""), nil)
	clk.Run(DefaultDebounce)

	require.Equal(t, 1, client.disconnectCount())
	require.Len(t, host.all(), 2)
}

func TestOrchestratorCancel(t *testing.T) {
	o, _, host, clk := newTestOrchestrator(Options{})

	o.HandleWalletSelected(injectedConnector("injected", true, ""), nil)
	o.Cancel()
	clk.Run(time.Second)

	require.Empty(t, host.all())
}

func TestRouteDecisions(t *testing.T) {
	cases := []struct {
		name   string
		mobile bool
		conn   Connector
		want   Decision
	}{
		{"modal", false, wcConnector("wc", true), DecisionOpenModal},
		{"qrcode", false, wcConnector("wc", false), DecisionQRCode},
		{"qrcode on mobile", true, wcConnector("wc", false), DecisionQRCode},
		{"deep link", true, injectedConnector("mm", false, "metamask://x"), DecisionDeepLink},
		{"installed on mobile", true, injectedConnector("mm", true, "metamask://x"), DecisionConnecting},
		{"injected", false, injectedConnector("mm", true, ""), DecisionConnecting},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, _, _, _ := newTestOrchestrator(Options{Mobile: tc.mobile})
			require.Equal(t, tc.want, o.Route(tc.conn))
		})
	}
}
