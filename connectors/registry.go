package connectors

import (
	"fmt"

	"charm-walletkit/config"
	"charm-walletkit/walletkit"
)

// FromConfig builds the connectors listed in cfg, in order. Unknown kinds
// are returned as errors alongside the connectors that did build.
func FromConfig(cfg config.Config) ([]walletkit.Connector, []error) {
	var (
		out  []walletkit.Connector
		errs []error
	)
	for _, e := range cfg.Connectors {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		switch e.Kind {
		case config.KindInjected, "":
			out = append(out, NewInjected(e.ID, name, e.RPCURL, cfg.DeepLinkFor(e)))
		case config.KindWalletConnect:
			out = append(out, NewWalletConnect(e.ID, name, e.ShowQRModal, cfg.PairingTTL()))
		default:
			errs = append(errs, fmt.Errorf("connector %q: unknown kind %q", e.ID, e.Kind))
		}
	}
	return out, errs
}

// Find returns the connector with the given id, or nil.
func Find(list []walletkit.Connector, id string) walletkit.Connector {
	for _, c := range list {
		if c.ID() == id {
			return c
		}
	}
	return nil
}
