package connected

import (
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"charm-walletkit/walletkit"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the connected screen
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("c") + " copy address",
		styles.Key("d") + " disconnect",
		styles.Key("h") + " home",
		styles.Key("l") + " debug log",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the connected account
func Render(s walletkit.State, copiedMsg string) string {
	title := styles.TitleStyle.Render("Connected")
	if !s.Connected() {
		return title + "\n\n" + styles.MutedStyle.Render("No wallet connected.")
	}

	label := lipgloss.NewStyle().Foreground(styles.CMuted).Width(10)
	value := lipgloss.NewStyle().Foreground(styles.CText).Bold(true)

	name := ""
	if s.Connector != nil {
		name = s.Connector.Name()
	}
	lines := []string{
		title,
		"",
		label.Render("Wallet") + value.Render(name),
		label.Render("Account") + helpers.FadeString(helpers.ShortenAddr(s.Account.Address.Hex()), "#F25D94", "#EDFF82"),
		label.Render("Network") + value.Render(helpers.ChainName(s.Account.ChainID)),
	}
	if copiedMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg))
	}
	return strings.Join(lines, "\n")
}
