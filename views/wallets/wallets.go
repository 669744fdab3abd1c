package wallets

import (
	"charm-walletkit/config"
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"charm-walletkit/walletkit"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// listTop is the screen row of the first connector, below header and title
const listTop = 9

// Nav returns the navigation bar for the wallet picker
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " move",
		styles.Key("Enter") + " connect",
		styles.Key("h") + " home",
		styles.Key("s") + " settings",
		styles.Key("l") + " debug log",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// badges describes how a connector will be reached
func badges(c walletkit.Connector, mobile bool) string {
	var out []string
	if walletkit.IsWalletConnect(c) {
		out = append(out, styles.Badge("QR", styles.CAccent2))
		if c.ShowQRModal() {
			out = append(out, styles.Badge("modal", styles.CBorder))
		}
	} else if c.Installed() {
		out = append(out, styles.Badge("installed", styles.CAccent))
	} else if mobile && c.DeepLink() != "" {
		out = append(out, styles.Badge("open app", styles.CWarn))
	} else {
		out = append(out, styles.Badge("not detected", styles.CMuted))
	}
	return strings.Join(out, " ")
}

// RenderList renders the connector list
func RenderList(list []walletkit.Connector, selectedIdx int, activeID string, mobile bool) (string, []config.ClickableArea) {
	var items []string
	var areas []config.ClickableArea
	currentY := listTop

	if len(list) == 0 {
		items = append(items, styles.MutedStyle.Render("No wallets configured. Add one in settings."))
		return strings.Join(items, "\n\n"), areas
	}

	for i, c := range list {
		var marker, name string
		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			name = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(c.Name())
		} else {
			marker = "  "
			name = helpers.FadeString(c.Name(), "#F25D94", "#EDFF82")
		}
		if c.ID() == activeID {
			name = "✓ " + name
		}

		line := marker + name + "  " + badges(c, mobile)
		detail := "  " + styles.MutedStyle.Render(string(c.Kind()))
		items = append(items, line+"\n"+detail)

		areas = append(areas, config.ClickableArea{
			X:           2,
			Y:           currentY,
			Width:       lipgloss.Width(line),
			Height:      2,
			ConnectorID: c.ID(),
		})
		currentY += 3
	}

	return strings.Join(items, "\n\n"), areas
}

// Render renders the full wallet picker
func Render(list []walletkit.Connector, selectedIdx int, activeID string, mobile bool, errMsg string) (string, []config.ClickableArea) {
	header := styles.TitleStyle.Render("Connect a Wallet")
	subtitle := styles.MutedStyle.Render("Pick a wallet to connect to the dApp")

	listView, areas := RenderList(list, selectedIdx, activeID, mobile)

	status := fmt.Sprintf("%d wallets", len(list))
	if mobile {
		status += " · mobile"
	}
	statusBar := styles.MutedStyle.Render(status)

	content := header + "\n" + subtitle + "\n\n" + listView + "\n\n" + statusBar
	if errMsg != "" {
		content += "\n" + styles.ErrorStyle.Render(errMsg)
	}
	return content, areas
}
