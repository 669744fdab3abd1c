package settings

import (
	"charm-walletkit/config"
	"charm-walletkit/styles"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode != "list" {
		left = strings.Join([]string{
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("c") + " connection",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// connectorDetail is the second line shown under a connector
func connectorDetail(cfg config.Config, e config.ConnectorEntry) string {
	switch e.Kind {
	case config.KindWalletConnect:
		if e.ShowQRModal {
			return "walletconnect · modal"
		}
		return "walletconnect · QR screen"
	default:
		parts := []string{"injected"}
		if e.RPCURL != "" {
			parts = append(parts, e.RPCURL)
		} else {
			parts = append(parts, "not detected")
		}
		if link := cfg.DeepLinkFor(e); link != "" {
			parts = append(parts, link)
		}
		return strings.Join(parts, " · ")
	}
}

// Render renders the connector settings view
func Render(cfg config.Config, selectedIdx int) string {
	h := styles.TitleStyle.Render("Wallet Settings")
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	lines := []string{h, ""}

	mobile := "off"
	if cfg.IsMobile() {
		mobile = "on"
	}
	lines = append(lines, muted.Render(fmt.Sprintf(
		"debounce %dms · retry delay %dms · max retries %s · pairing ttl %ds · mobile %s",
		cfg.DebounceMS, cfg.RetryDelayMS, maxRetries(cfg.MaxRetries), cfg.PairingTTLS, mobile,
	)))
	lines = append(lines, "")

	if len(cfg.Connectors) == 0 {
		lines = append(lines, muted.Render("No connectors configured."))
		lines = append(lines, "")
		lines = append(lines, muted.Render("Press ")+styles.Key("a")+muted.Render(" to add your first wallet."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, muted.Render("Configured Connectors:"))
	lines = append(lines, "")

	for i, e := range cfg.Connectors {
		marker := muted.Render("○ ")
		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		detailStyle := lipgloss.NewStyle().Foreground(styles.CMuted)

		if i == selectedIdx {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			detailStyle = detailStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		lines = append(lines, marker+nameStyle.Render(e.Name)+muted.Render(" ("+e.ID+")"))
		lines = append(lines, "  "+detailStyle.Render(connectorDetail(cfg, e)))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func maxRetries(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}
