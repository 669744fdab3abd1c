package qrcode

import (
	"charm-walletkit/connectors"
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mdp/qrterminal/v3"
)

// Generate renders uri as a half-block QR code
func Generate(uri string) string {
	if uri == "" {
		return ""
	}
	var b strings.Builder
	qrterminal.GenerateHalfBlock(uri, qrterminal.L, &b)
	return strings.TrimRight(b.String(), "\n")
}

// Expiry describes how long a pairing URI stays valid
func Expiry(uri string, now time.Time) string {
	p, err := connectors.ParsePairing(uri)
	if err != nil || p.Expiry.IsZero() {
		return ""
	}
	if p.Expired(now) {
		return "expired, waiting for a new pairing"
	}
	left := p.Expiry.Sub(now).Round(time.Second)
	return fmt.Sprintf("expires in %s", left)
}

// Nav returns the navigation bar for the QR screen
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("c") + " copy URI",
		styles.Key("l") + " debug log",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the QR screen for a WalletConnect pairing
func Render(name, uri string, width int, spinnerView, copiedMsg string, now time.Time) string {
	title := styles.TitleStyle.Render("Scan with " + name)
	if uri == "" {
		return title + "\n\n" + spinnerView + " Waiting for pairing URI..."
	}

	lines := []string{
		title,
		styles.MutedStyle.Render("Scan the code with a WalletConnect compatible wallet"),
		"",
		Generate(uri),
		"",
		lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.ShortenURI(uri, helpers.Max(20, width-8))),
	}
	if exp := Expiry(uri, now); exp != "" {
		lines = append(lines, styles.MutedStyle.Render(exp))
	}
	if copiedMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg))
	}
	return strings.Join(lines, "\n")
}
