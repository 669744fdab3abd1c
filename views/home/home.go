package home

import (
	"charm-walletkit/styles"
	"strings"

	"github.com/charmbracelet/huh"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form. The account entry is only offered
// while a wallet is connected.
func CreateForm(connected bool) *huh.Form {
	TempSelection = ""

	options := []huh.Option[string]{
		huh.NewOption("Connect Wallet", "wallets"),
	}
	if connected {
		options = append(options, huh.NewOption("Connected Account", "connected"))
	}
	options = append(options, huh.NewOption("Settings", "settings"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(options...).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("ctrl+c") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
