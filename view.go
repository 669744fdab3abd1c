package main

import (
	"strings"
	"time"

	"charm-walletkit/config"
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"charm-walletkit/views/connected"
	"charm-walletkit/views/connecting"
	"charm-walletkit/views/home"
	logview "charm-walletkit/views/log"
	"charm-walletkit/views/qrcode"
	"charm-walletkit/views/settings"
	"charm-walletkit/views/wallets"
	"charm-walletkit/walletkit"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// renderModal draws the WalletConnect modal centered on screen
func (m *model) renderModal() string {
	dialogBoxStyle := styles.ModalStyle

	title := styles.TitleStyle.Render("WalletConnect · " + m.modal.Name())

	var body string
	switch {
	case m.modalURI == "":
		body = m.spin.View() + " Preparing pairing..."
	default:
		body = qrcode.Generate(m.modalURI)
		if exp := qrcode.Expiry(m.modalURI, time.Now()); exp != "" {
			body += "\n" + styles.MutedStyle.Render(exp)
		}
	}
	if m.connectErr != "" {
		body += "\n\n" + styles.ErrorStyle.Render(m.connectErr)
	}
	if m.copiedMsg != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(cAccent).Render(m.copiedMsg)
	}

	hint := styles.Key("c") + " copy URI   " + styles.Key("Esc") + " close"
	ui := lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", hint)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
		lipgloss.WithWhitespaceChars(" "),
	)
}

// sessionStatus renders the session indicator shown on the right of the header
func (m *model) sessionStatus() string {
	var statusIcon, statusText string
	var statusColor lipgloss.Color

	switch m.session.Status {
	case walletkit.StatusConnected:
		statusIcon = "●"
		statusColor = cAccent
		statusText = helpers.ChainName(m.session.Account.ChainID)
	case walletkit.StatusConnecting:
		statusIcon = "◌"
		statusColor = cWarn
		statusText = "Connecting..."
	default:
		statusIcon = "○"
		statusColor = styles.CError
		statusText = "Not connected"
	}

	return lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if m.session.Connected() {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.session.Account.Address.Hex()), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: No wallet")
	}

	statusDisplay := m.sessionStatus()

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("walletkit", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	statusWidth := lipgloss.Width(statusDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + statusWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + statusDisplay
	} else {
		// Three-column layout: Account | Title (centered) | Status
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", helpers.Max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", helpers.Max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + statusDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// selectedName is the display name of the selected connector
func (m *model) selectedName() string {
	if m.selected == nil {
		return "wallet"
	}
	return m.selected.Name()
}

func (m *model) View() string {
	if m.modal != nil {
		return m.renderModal()
	}

	// Clear clickable areas for fresh render
	m.clickableAreas = nil

	globalHdr := m.globalHeader()
	headerPanel := panelStyle.Width(helpers.Max(0, m.w-2)).Render(globalHdr)
	pageWidth := helpers.Max(0, m.w-2)

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageHome:
		pageContent = panelStyle.Width(pageWidth).Render(home.Render(m.homeForm))
		nav = home.Nav(pageWidth)

	case config.PageWallets:
		activeID := ""
		if m.session.Connected() && m.session.Connector != nil {
			activeID = m.session.Connector.ID()
		}
		walletsContent, areas := wallets.Render(m.kit.connectors, m.selectedIdx, activeID, m.kit.mobile, m.statusMsg)

		// Adjust Y coordinates to account for panel border
		for _, area := range areas {
			area.Y++
			m.clickableAreas = append(m.clickableAreas, area)
		}

		pageContent = panelStyle.Width(pageWidth).Render(walletsContent)
		nav = wallets.Nav(pageWidth)

	case config.PageConnectWithQRCode:
		qrContent := qrcode.Render(m.selectedName(), m.pairing.PairingURI, pageWidth, m.spin.View(), m.copiedMsg, time.Now())
		if m.connectErr != "" {
			qrContent += "\n" + styles.ErrorStyle.Render(m.connectErr)
		}
		pageContent = panelStyle.Width(pageWidth).Render(qrContent)
		nav = qrcode.Nav(pageWidth)

	case config.PageConnecting:
		pageContent = panelStyle.Width(pageWidth).Render(connecting.Render(m.selectedName(), m.spin.View(), m.connectErr))
		nav = connecting.Nav(pageWidth, m.connectErr != "")

	case config.PageConnected:
		pageContent = panelStyle.Width(pageWidth).Render(connected.Render(m.session, m.copiedMsg))
		nav = connected.Nav(pageWidth)

	case config.PageSettings:
		settingsContent := settings.Render(m.cfg, m.selectedConnIdx)

		// Show form if in add/edit mode
		if m.settingsMode != "list" && m.form != nil {
			settingsContent = styles.TitleStyle.Render("Wallet Settings") + "\n\n" + m.form.View()
		}

		pageContent = panelStyle.Width(pageWidth).Render(settingsContent)
		nav = settings.Nav(pageWidth, m.settingsMode)
	}

	// Render log panel only if enabled
	if m.logEnabled {
		m.logViewport.Height = logview.Height(m.h)
		logPanel := logview.Render(m.w, logview.Panel{
			Ready:    m.logReady,
			Spinner:  m.logSpinner.View(),
			Viewport: m.logViewport,
			Entries:  strings.Count(m.logBuffer.String(), "\n"),
		})
		content := lipgloss.JoinVertical(lipgloss.Left, headerPanel, pageContent, nav, logPanel)
		return styles.AppStyle.Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, headerPanel, pageContent, nav)
	return styles.AppStyle.Render(content)
}
