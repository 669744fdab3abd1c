package log

import (
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Panel is the state the log panel draws
type Panel struct {
	Ready    bool
	Spinner  string
	Viewport viewport.Model
	// Entries is the number of lines logged since the panel was enabled
	Entries int
}

// Height is the viewport height for a terminal of height h. The panel
// takes at most a third of the screen and never more than 15 lines.
func Height(h int) int {
	// header, nav, title, borders and margins
	const reserved = 10
	return helpers.Min(helpers.Max(5, h-reserved), helpers.Min(h/3, 15))
}

func title(p Panel) string {
	t := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("Log")
	if p.Entries > 0 {
		t += styles.MutedStyle.Render(fmt.Sprintf(" · %d", p.Entries))
	}
	vp := p.Viewport
	if vp.TotalLineCount() > vp.Height {
		t += styles.MutedStyle.Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}
	return t
}

// Render draws the connection log below the page
func Render(width int, p Panel) string {
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(p.Viewport.Height + 2)

	var body string
	switch {
	case !p.Ready:
		body = "initializing...\n" + p.Spinner
	case p.Entries == 0:
		body = styles.MutedStyle.Render("Nothing logged yet. Pick a wallet to see the connection flow.")
	default:
		body = p.Viewport.View()
	}
	return box.Render(title(p) + "\n\n" + body)
}
