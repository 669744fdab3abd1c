package connecting

import (
	"charm-walletkit/styles"
	"strings"
)

// Nav returns the navigation bar for the connecting screen
func Nav(width int, failed bool) string {
	keys := []string{}
	if failed {
		keys = append(keys, styles.Key("r")+" retry")
	}
	keys = append(keys,
		styles.Key("l")+" debug log",
		styles.Key("Esc")+" back",
	)

	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the connecting screen
func Render(name string, spinnerView, errMsg string) string {
	title := styles.TitleStyle.Render("Connecting to " + name)
	if errMsg != "" {
		return title + "\n\n" +
			styles.ErrorStyle.Render("Connection failed") + "\n" +
			styles.MutedStyle.Render(errMsg) + "\n\n" +
			styles.MutedStyle.Render("Press ") + styles.Key("r") + styles.MutedStyle.Render(" to try again.")
	}
	return title + "\n\n" + spinnerView + " Approve the request in your wallet"
}
