package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"charm-walletkit/config"
	"charm-walletkit/helpers"
	"charm-walletkit/styles"
	"charm-walletkit/views/home"
	"charm-walletkit/walletkit"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common/mclock"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	// connection core
	kit    *kit
	kitGen uint64
	events *eventQueue
	clock  mclock.Clock

	// wallet list
	selectedIdx    int
	clickableAreas []config.ClickableArea
	statusMsg      string

	// session state mirrored from kit events
	selected      walletkit.Connector
	session       walletkit.State
	pairing       walletkit.URIContext
	connectErr    string
	connectCancel context.CancelFunc

	// WalletConnect modal overlay
	modal    walletkit.Connector
	modalURI string

	spin spinner.Model

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	// settings state
	settingsMode    string // "list", "add", "edit", "kit"
	selectedConnIdx int
	form            *huh.Form
	cfg             config.Config
	configPath      string

	// home form
	homeForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *helpers.LogBuffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// defaultConfigPath returns the config file location in the home directory
func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".charm-walletkit.json")
}

// newModel creates the model for cfg. A nil clock runs timers on wall time.
func newModel(cfg config.Config, configPath string, clock mclock.Clock) model {
	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	buf := &helpers.LogBuffer{}

	m := model{
		activePage:   config.PageHome,
		events:       newEventQueue(64),
		clock:        clock,
		spin:         sp,
		settingsMode: "list",
		cfg:          cfg,
		configPath:   configPath,
		logEnabled:   cfg.Logger,
		logger:       newLogger(buf),
		logBuffer:    buf,
		logViewport:  vp,
		logSpinner:   logSpin,
		homeForm:     home.CreateForm(false),
	}
	m.rebuildKit()

	return m
}

// newLogger creates a logger that writes to the log panel buffer
func newLogger(buf *helpers.LogBuffer) *log.Logger {
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.DebugLevel,
	})
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		},
	})
	return logger
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, waitForKitEvent(m.events.out)}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	return tea.Batch(cmds...)
}
