package walletkit

import (
	"github.com/charmbracelet/log"
)

// Decision is the routing outcome of a wallet selection.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionOpenModal
	DecisionQRCode
	DecisionDeepLink
	DecisionConnecting
)

func (d Decision) String() string {
	switch d {
	case DecisionOpenModal:
		return "open-modal"
	case DecisionQRCode:
		return "qrcode"
	case DecisionDeepLink:
		return "deep-link"
	case DecisionConnecting:
		return "connecting"
	default:
		return "none"
	}
}

// Orchestrator turns wallet selections into routing decisions.
type Orchestrator struct {
	client Client
	host   Host
	opts   Options
	log    *log.Logger

	debounce *TimerSlot
}

// NewOrchestrator wires an orchestrator to the connection framework and the
// host UI.
func NewOrchestrator(client Client, host Host, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		client:   client,
		host:     host,
		opts:     opts,
		log:      opts.Logger.WithPrefix("orchestrator"),
		debounce: NewTimerSlot(opts.Clock),
	}
}

// HandleWalletSelected reacts to the user picking c. ev is the originating UI
// event and is only passed through to the click hook.
//
// The session is dropped immediately; routing happens once the debounce
// window passes without another selection.
func (o *Orchestrator) HandleWalletSelected(c Connector, ev any) {
	if c == nil {
		return
	}
	if o.opts.OnClickWallet != nil && !o.opts.OnClickWallet(c, ev) {
		o.log.Debug("selection vetoed", "connector", c.ID())
		return
	}

	o.client.Disconnect()

	o.debounce.Schedule(o.opts.Debounce, func() {
		d := o.Route(c)
		o.log.Debug("routed", "connector", c.ID(), "decision", d)
	})
}

// Pending reports whether a routing decision is waiting on the debounce.
func (o *Orchestrator) Pending() bool {
	return o.debounce.Pending()
}

// Cancel drops a pending routing decision.
func (o *Orchestrator) Cancel() {
	o.debounce.Cancel()
}

// Route applies the routing decision for c right away.
func (o *Orchestrator) Route(c Connector) Decision {
	if IsWalletConnect(c) {
		if c.ShowQRModal() {
			o.host.OpenWalletConnectModal(c)
			return DecisionOpenModal
		}
		o.host.SetSelectedConnector(c)
		o.host.Push(RouteConnectWithQRCode)
		return DecisionQRCode
	}

	if o.opts.Mobile && !c.Installed() {
		if uri := c.DeepLink(); uri != "" {
			if err := o.host.OpenURL(uri); err != nil {
				o.log.Warn("deep link failed", "connector", c.ID(), "err", err)
			}
			return DecisionDeepLink
		}
		o.log.Debug("no deep link, falling back to connecting", "connector", c.ID())
	}

	o.host.SetSelectedConnector(c)
	o.host.Push(RouteConnecting)
	return DecisionConnecting
}
