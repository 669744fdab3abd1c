package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm-walletkit/config"
	"charm-walletkit/helpers"
	"charm-walletkit/views/home"
	"charm-walletkit/walletkit"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempConnID       string
	tempConnName     string
	tempConnKind     string
	tempConnRPCURL   string
	tempConnDeepLink string
	tempConnModal    bool

	tempDebounceMS   string
	tempRetryDelayMS string
	tempMaxRetries   string
	tempPairingTTLS  string
	tempMobile       bool
)

func validateNonNegative(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// createConnectorForm opens the connector form. idx < 0 adds a new connector.
func (m *model) createConnectorForm(idx int) {
	tempConnID, tempConnName, tempConnRPCURL, tempConnDeepLink = "", "", "", ""
	tempConnKind = config.KindInjected
	tempConnModal = false

	if idx >= 0 && idx < len(m.cfg.Connectors) {
		e := m.cfg.Connectors[idx]
		tempConnID = e.ID
		tempConnName = e.Name
		tempConnKind = e.Kind
		tempConnRPCURL = e.RPCURL
		tempConnDeepLink = e.DeepLink
		tempConnModal = e.ShowQRModal
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Connector ID").
				Description("Unique identifier, e.g. metamask").
				Value(&tempConnID).
				Placeholder("metamask").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("id is required")
					}
					for i, e := range m.cfg.Connectors {
						if i != idx && e.ID == s {
							return fmt.Errorf("id already in use")
						}
					}
					return nil
				}),

			huh.NewInput().
				Title("Name").
				Description("Shown in the wallet list").
				Value(&tempConnName).
				Placeholder("MetaMask"),

			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Injected (JSON-RPC wallet)", config.KindInjected),
					huh.NewOption("WalletConnect", config.KindWalletConnect),
				).
				Value(&tempConnKind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Wallet RPC URL").
				Description("Leave empty when the wallet is not available on this machine").
				Value(&tempConnRPCURL).
				Placeholder("http://127.0.0.1:1248"),

			huh.NewInput().
				Title("Deep Link").
				Description("Opened on mobile when the wallet is missing; {dapp} is replaced").
				Value(&tempConnDeepLink).
				Placeholder("https://metamask.app.link/dapp/{dapp}"),
		).WithHideFunc(func() bool { return tempConnKind != config.KindInjected }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use WalletConnect modal?").
				Description("The modal shows its own QR code instead of the QR screen").
				Value(&tempConnModal),
		).WithHideFunc(func() bool { return tempConnKind != config.KindWalletConnect }),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// createKitForm opens the connection settings form
func (m *model) createKitForm() {
	tempDebounceMS = strconv.Itoa(m.cfg.DebounceMS)
	tempRetryDelayMS = strconv.Itoa(m.cfg.RetryDelayMS)
	tempMaxRetries = strconv.Itoa(m.cfg.MaxRetries)
	tempPairingTTLS = strconv.Itoa(m.cfg.PairingTTLS)
	tempMobile = m.cfg.IsMobile()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Selection debounce (ms)").
				Value(&tempDebounceMS).
				Validate(validateNonNegative),

			huh.NewInput().
				Title("Retry delay (ms)").
				Value(&tempRetryDelayMS).
				Validate(validateNonNegative),

			huh.NewInput().
				Title("Max attempts after rejection").
				Description("0 retries without limit").
				Value(&tempMaxRetries).
				Validate(validateNonNegative),

			huh.NewInput().
				Title("Pairing lifetime (s)").
				Value(&tempPairingTTLS).
				Validate(validateNonNegative),

			huh.NewConfirm().
				Title("Mobile mode").
				Description("Open deep links for wallets that are not installed").
				Value(&tempMobile),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// applySettingsForm stores a completed settings form in the config
func (m *model) applySettingsForm() {
	switch m.settingsMode {
	case "add", "edit":
		e := config.ConnectorEntry{
			ID:   strings.TrimSpace(tempConnID),
			Name: strings.TrimSpace(tempConnName),
			Kind: tempConnKind,
		}
		if e.Kind == config.KindWalletConnect {
			e.ShowQRModal = tempConnModal
		} else {
			e.RPCURL = strings.TrimSpace(tempConnRPCURL)
			e.DeepLink = strings.TrimSpace(tempConnDeepLink)
		}
		if m.settingsMode == "add" {
			m.cfg.Connectors = append(m.cfg.Connectors, e)
			m.addLog("success", fmt.Sprintf("Added connector `%s`", e.ID))
		} else if m.selectedConnIdx >= 0 && m.selectedConnIdx < len(m.cfg.Connectors) {
			m.cfg.Connectors[m.selectedConnIdx] = e
			m.addLog("success", fmt.Sprintf("Updated connector `%s`", e.ID))
		}
	case "kit":
		m.cfg.DebounceMS = atoi(tempDebounceMS)
		m.cfg.RetryDelayMS = atoi(tempRetryDelayMS)
		m.cfg.MaxRetries = atoi(tempMaxRetries)
		m.cfg.PairingTTLS = atoi(tempPairingTTLS)
		mobile := tempMobile
		m.cfg.Mobile = &mobile
		m.addLog("success", "Updated connection settings")
	}
	m.saveConfig()
	m.rebuildKit()
}

// goHome shows the main menu with options matching the session
func (m *model) goHome() {
	m.activePage = config.PageHome
	m.homeForm = home.CreateForm(m.connected())
}

// leaveToWallets returns to the wallet list from a connection screen
func (m *model) leaveToWallets() {
	m.cancelConnect()
	m.activePage = config.PageWallets
	m.selected = nil
	m.connectErr = ""
	m.syncPairing()
}

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Background messages are handled before any form sees them
	switch msg := msg.(type) {

	case kitEventMsg:
		cmd := m.handleKitEvent(msg)
		return m, tea.Batch(cmd, waitForKitEvent(m.events.out))

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = helpers.Max(0, msg.Width-6)
			m.updateLogViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		// refresh log output written by background goroutines
		m.updateLogViewport()
		return m, tea.Batch(cmds...)

	case modalTickMsg:
		if m.modal == nil {
			return m, nil
		}
		if p, ok := m.modal.(interface{ PairingURI() string }); ok {
			m.modalURI = p.PairingURI()
		}
		return m, modalTick()

	case connectResultMsg:
		if msg.err == nil || errors.Is(msg.err, walletkit.ErrSuperseded) || errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		if m.selected == nil && m.modal == nil {
			return m, nil
		}
		m.connectErr = msg.err.Error()
		m.addLog("error", "Connection failed", "connector", msg.connectorID, "err", msg.err)
		return m, nil

	case clipboardCopiedMsg:
		m.copiedMsg = "Copied to clipboard"
		m.copiedMsgTime = time.Now()
		return m, clearClipboardFeedback()

	case clearClipboardMsg:
		m.copiedMsg = ""
		return m, nil
	}

	// Home menu form
	if m.activePage == config.PageHome && m.homeForm != nil {
		form, cmd := m.homeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.homeForm = f
			switch m.homeForm.State {
			case huh.StateCompleted:
				m.homeForm = nil
				switch home.TempSelection {
				case "wallets":
					m.activePage = config.PageWallets
				case "connected":
					m.activePage = config.PageConnected
				case "settings":
					m.activePage = config.PageSettings
					m.settingsMode = "list"
				}
				return m, nil
			case huh.StateAborted:
				return m, tea.Quit
			}
		}
		return m, cmd
	}

	// Settings forms
	if m.activePage == config.PageSettings && m.settingsMode != "list" && m.form != nil {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.settingsMode = "list"
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f

			if m.form.State == huh.StateCompleted {
				m.applySettingsForm()
				m.settingsMode = "list"
				m.form = nil
				// Return without the form's cmd to ensure we're back in list mode
				return m, nil
			}

			if m.form.State == huh.StateAborted {
				m.settingsMode = "list"
				m.form = nil
				return m, nil
			}
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// handleKitEvent applies a walletkit event to the model
func (m *model) handleKitEvent(ev kitEventMsg) tea.Cmd {
	if ev.gen != m.kitGen {
		return nil
	}

	switch msg := ev.msg.(type) {

	case selectConnectorMsg:
		m.selected = msg.connector
		m.connectErr = ""

	case routeMsg:
		if m.selected == nil {
			return nil
		}
		m.statusMsg = ""
		switch msg.route {
		case walletkit.RouteConnectWithQRCode:
			m.cancelConnect()
			m.activePage = config.PageConnectWithQRCode
			m.syncPairing()
			m.pairing = m.kit.uri.Context()
			m.addLog("info", fmt.Sprintf("Waiting for `%s` pairing", m.selected.Name()))
		case walletkit.RouteConnecting:
			m.activePage = config.PageConnecting
			m.syncPairing()
			m.addLog("info", fmt.Sprintf("Connecting to `%s`", m.selected.Name()))
			return m.startConnect(m.selected)
		}

	case openModalMsg:
		m.modal = msg.connector
		m.modalURI = ""
		m.addLog("info", fmt.Sprintf("Opening WalletConnect modal for `%s`", msg.connector.Name()))
		return tea.Batch(m.startConnect(msg.connector), modalTick())

	case deepLinkMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = "Could not open wallet: " + msg.err.Error()
			m.addLog("error", "Deep link failed", "uri", msg.uri, "err", msg.err)
		case msg.copied:
			m.statusMsg = "Deep link copied to clipboard, open it on your phone"
			m.addLog("info", "Deep link copied", "uri", msg.uri)
		default:
			m.statusMsg = "Opened wallet app"
			m.addLog("info", "Deep link opened", "uri", msg.uri)
		}

	case vetoMsg:
		m.statusMsg = fmt.Sprintf("Already connected to %s", msg.connector.Name())

	case sessionMsg:
		was := m.session.Status
		m.session = msg.state
		switch msg.state.Status {
		case walletkit.StatusConnected:
			m.closeModal()
			m.cancelConnect()
			m.connectErr = ""
			m.activePage = config.PageConnected
			m.addLog("success", fmt.Sprintf("Connected `%s`", helpers.ShortenAddr(msg.state.Account.Address.Hex())))
		case walletkit.StatusDisconnected:
			if m.activePage == config.PageConnected {
				m.activePage = config.PageWallets
			}
			if was == walletkit.StatusConnected {
				m.addLog("info", "Disconnected")
			}
		}
		m.syncPairing()

	case pairingMsg:
		if msg.ctx.Version >= m.pairing.Version {
			m.pairing = msg.ctx
		}

	case kitErrorMsg:
		cause := msg.err
		var attempt *walletkit.AttemptError
		if errors.As(msg.err, &attempt) {
			// reports land after the settle delay; the user may have moved on
			if m.selected == nil || m.selected.ID() != attempt.Connector {
				m.addLog("debug", "Dropped report for an old attempt", "attempt", attempt.ID)
				return nil
			}
			cause = attempt.Err
			m.addLog("error", "Connection error", "attempt", attempt.ID, "n", attempt.Attempt, "err", cause)
		} else {
			m.addLog("error", "Connection error", "err", cause)
		}
		if walletkit.IsUserRejected(cause) {
			m.connectErr = "Request rejected, retrying"
		} else {
			m.connectErr = cause.Error()
		}
	}
	return nil
}

// handleKey routes key presses
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal captures keys while open
	if m.modal != nil {
		switch msg.String() {
		case "esc":
			m.addLog("info", "WalletConnect modal closed")
			m.closeModal()
		case "c", "C":
			if m.modalURI != "" {
				return m, copyToClipboard(m.modalURI)
			}
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	// global keys
	if !m.textInputActive() {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "l", "L":
			// Toggle logger
			m.logEnabled = !m.logEnabled
			m.saveConfig()
			if m.logEnabled {
				if m.w > 0 {
					m.logViewport.Width = m.w - 6
				}
				m.logReady = false
				return m, tea.Batch(initLogViewport(), m.logSpinner.Tick)
			}
			m.logBuffer.Reset()
			m.logReady = false
			return m, nil

		case "pageup", "pagedown":
			// Allow scrolling in log viewport when enabled
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return m, cmd
			}
		}
	}

	// page-specific behavior
	switch m.activePage {

	case config.PageWallets:
		switch msg.String() {
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.kit.connectors)-1 {
				m.selectedIdx++
			}
		case "enter":
			if m.selectedIdx < len(m.kit.connectors) {
				m.selectWallet(m.kit.connectors[m.selectedIdx], msg)
			}
		case "s", "S":
			m.activePage = config.PageSettings
			m.settingsMode = "list"
		case "h", "H":
			m.goHome()
		case "esc":
			return m, tea.Quit
		}
		return m, nil

	case config.PageConnectWithQRCode:
		switch msg.String() {
		case "c", "C":
			if m.pairing.PairingURI != "" {
				return m, copyToClipboard(m.pairing.PairingURI)
			}
		case "esc":
			m.leaveToWallets()
		}
		return m, nil

	case config.PageConnecting:
		switch msg.String() {
		case "r", "R":
			if m.connectErr != "" && m.selected != nil {
				m.addLog("info", fmt.Sprintf("Retrying `%s`", m.selected.Name()))
				return m, m.startConnect(m.selected)
			}
		case "esc":
			m.leaveToWallets()
		}
		return m, nil

	case config.PageConnected:
		switch msg.String() {
		case "c", "C":
			if m.connected() {
				return m, copyToClipboard(m.session.Account.Address.Hex())
			}
		case "d", "D":
			m.kit.manager.Disconnect()
		case "h", "H", "esc":
			m.goHome()
		}
		return m, nil

	case config.PageSettings:
		switch msg.String() {
		case "up", "k":
			if m.selectedConnIdx > 0 {
				m.selectedConnIdx--
			}
		case "down", "j":
			if m.selectedConnIdx < len(m.cfg.Connectors)-1 {
				m.selectedConnIdx++
			}
		case "a", "A":
			m.settingsMode = "add"
			m.createConnectorForm(-1)
		case "e", "E":
			if m.selectedConnIdx < len(m.cfg.Connectors) {
				m.settingsMode = "edit"
				m.createConnectorForm(m.selectedConnIdx)
			}
		case "c", "C":
			m.settingsMode = "kit"
			m.createKitForm()
		case "d", "D", "delete", "backspace":
			if m.selectedConnIdx < len(m.cfg.Connectors) {
				removed := m.cfg.Connectors[m.selectedConnIdx]
				m.cfg.Connectors = append(m.cfg.Connectors[:m.selectedConnIdx], m.cfg.Connectors[m.selectedConnIdx+1:]...)
				if m.selectedConnIdx >= len(m.cfg.Connectors) {
					m.selectedConnIdx = helpers.Max(0, len(m.cfg.Connectors)-1)
				}
				m.saveConfig()
				m.rebuildKit()
				m.addLog("info", fmt.Sprintf("Deleted connector `%s`", removed.ID))
			}
		case "h", "H":
			m.goHome()
		case "esc":
			m.activePage = config.PageWallets
		}
		return m, nil
	}

	return m, nil
}

// handleMouse selects a wallet when its row is clicked
func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || m.activePage != config.PageWallets {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i, area := range m.clickableAreas {
		if !area.Contains(msg.X, msg.Y) {
			continue
		}
		c := m.kit.find(area.ConnectorID)
		if c == nil {
			return m, nil
		}
		m.addLog("debug", fmt.Sprintf("Click matched connector %d", i), "connector", c.ID())
		m.selectedIdx = i
		m.selectWallet(c, msg)
		return m, nil
	}
	return m, nil
}

// selectWallet hands a wallet choice to the orchestrator
func (m *model) selectWallet(c walletkit.Connector, ev tea.Msg) {
	m.statusMsg = ""
	m.addLog("debug", "Wallet selected", "connector", c.ID())
	m.kit.orch.HandleWalletSelected(c, ev)
}
