package main

import (
	"charm-walletkit/walletkit"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// kitEventMsg carries a message posted by walletkit from outside the Update
// loop. gen identifies the kit that posted it so events from a replaced kit
// are dropped.
type kitEventMsg struct {
	gen uint64
	msg any
}

// routeMsg asks the host to show a screen
type routeMsg struct {
	route walletkit.Route
}

// selectConnectorMsg records the connector the next screen is about
type selectConnectorMsg struct {
	connector walletkit.Connector
}

// openModalMsg opens the WalletConnect modal overlay for a connector
type openModalMsg struct {
	connector walletkit.Connector
}

// deepLinkMsg reports the outcome of opening a wallet deep link
type deepLinkMsg struct {
	uri    string
	copied bool
	err    error
}

// vetoMsg reports a selection rejected by the click hook
type vetoMsg struct {
	connector walletkit.Connector
}

// sessionMsg carries a session status change from the manager
type sessionMsg struct {
	state walletkit.State
}

// pairingMsg carries the latest pairing URI
type pairingMsg struct {
	ctx walletkit.URIContext
}

// kitErrorMsg carries an error reported by the connect flow
type kitErrorMsg struct {
	err error
}

// connectResultMsg contains the result of a host-driven connect attempt
type connectResultMsg struct {
	connectorID string
	err         error
}

// modalTickMsg refreshes the modal's pairing URI
type modalTickMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearClipboardMsg clears clipboard feedback
type clearClipboardMsg struct{}
