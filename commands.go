package main

import (
	"context"
	"time"

	"charm-walletkit/config"
	"charm-walletkit/helpers"
	"charm-walletkit/walletkit"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// waitForKitEvent blocks until walletkit posts the next event
func waitForKitEvent(events <-chan kitEventMsg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// connectCmd runs one connect attempt outside the Update loop
func connectCmd(ctx context.Context, k *kit, c walletkit.Connector) tea.Cmd {
	return func() tea.Msg {
		err := k.connect(ctx, c)
		return connectResultMsg{connectorID: c.ID(), err: err}
	}
}

// modalTick schedules the next modal refresh
func modalTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return modalTickMsg{}
	})
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearClipboardFeedback waits 2 seconds then clears clipboard feedback
func clearClipboardFeedback() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string, keyvals ...any) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || !m.logReady || m.logBuffer == nil {
		return
	}

	m.logViewport.SetContent(m.logBuffer.String())
	// Scroll to bottom to show latest entries
	m.logViewport.GotoBottom()
}

// textInputActive returns true if a form is capturing keys
func (m model) textInputActive() bool {
	if m.activePage == config.PageHome && m.homeForm != nil {
		return true
	}
	if m.activePage == config.PageSettings && m.settingsMode != "list" && m.form != nil {
		return true
	}
	return false
}

// connected reports whether the current kit holds a session
func (m model) connected() bool {
	return m.session.Connected()
}

// qrConnector is the connector the URI channel should follow: the selected
// one while its QR screen is showing, otherwise none
func (m model) qrConnector() walletkit.Connector {
	if m.activePage == config.PageConnectWithQRCode {
		return m.selected
	}
	return nil
}

// syncPairing brings the URI channel in line with the current screen
func (m *model) syncPairing() {
	m.kit.uri.Sync(m.qrConnector(), m.connected())
}

// startConnect cancels any host-driven attempt and starts one for c
func (m *model) startConnect(c walletkit.Connector) tea.Cmd {
	m.cancelConnect()
	ctx, cancel := context.WithCancel(context.Background())
	m.connectCancel = cancel
	m.connectErr = ""
	return connectCmd(ctx, m.kit, c)
}

// cancelConnect aborts the host-driven attempt, if any
func (m *model) cancelConnect() {
	if m.connectCancel != nil {
		m.connectCancel()
		m.connectCancel = nil
	}
}

// closeModal hides the modal and aborts its attempt
func (m *model) closeModal() {
	if m.modal == nil {
		return
	}
	m.modal = nil
	m.modalURI = ""
	m.cancelConnect()
}

// rebuildKit replaces the connection core after a config change
func (m *model) rebuildKit() {
	m.closeModal()
	m.cancelConnect()
	old := m.kit
	m.kitGen++
	k, errs := newKit(m.cfg, m.kitGen, m.logger, m.clock, m.events)
	for _, err := range errs {
		m.addLog("warning", err.Error())
	}
	m.kit = k
	if old != nil {
		old.close()
	}
	m.session = walletkit.State{}
	m.selected = nil
	m.pairing = walletkit.URIContext{}
	if m.selectedIdx >= len(k.connectors) {
		m.selectedIdx = helpers.Max(0, len(k.connectors)-1)
	}
}

// saveConfig writes the config and logs failures
func (m *model) saveConfig() {
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Failed to save config", "err", err)
	}
}
