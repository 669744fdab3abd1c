package walletkit

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Status is the session state tracked by Manager.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// State is a snapshot of the session.
type State struct {
	Status    Status
	Connector Connector
	Account   Account
}

// Connected reports whether an account is connected.
func (s State) Connected() bool { return s.Status == StatusConnected }

// Manager is the Client used by the terminal front end. It owns one session
// at a time and reports every status change to onChange.
type Manager struct {
	logger   *log.Logger
	onChange func(State)

	mu    sync.Mutex
	state State
	gen   uint64
}

// NewManager returns a disconnected manager. onChange may be nil; it is
// called outside the manager's lock, possibly from another goroutine.
func NewManager(logger *log.Logger, onChange func(State)) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{logger: logger, onChange: onChange}
}

// State returns the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether an account is connected.
func (m *Manager) IsConnected() bool {
	return m.State().Connected()
}

// Connect runs c.Connect and records the account. A Disconnect or a newer
// Connect made while c is still connecting turns the result into
// ErrSuperseded.
func (m *Manager) Connect(ctx context.Context, c Connector) error {
	if c == nil {
		return fmt.Errorf("walletkit: connect: nil connector")
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.state = State{Status: StatusConnecting, Connector: c}
	snapshot := m.state
	m.mu.Unlock()
	m.notify(snapshot)

	m.logger.Debug("connecting", "connector", c.ID())
	acct, err := c.Connect(ctx)

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSuperseded, err)
		}
		return ErrSuperseded
	}
	if err != nil {
		m.state = State{Status: StatusDisconnected}
	} else {
		m.state = State{Status: StatusConnected, Connector: c, Account: acct}
	}
	snapshot = m.state
	m.mu.Unlock()
	m.notify(snapshot)

	if err != nil {
		return fmt.Errorf("connect %s: %w", c.ID(), err)
	}
	m.logger.Info("connected", "connector", c.ID(), "address", acct.Address.Hex())
	return nil
}

// Disconnect drops the session and invalidates in-flight connects.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.gen++
	was := m.state.Status
	m.state = State{Status: StatusDisconnected}
	m.mu.Unlock()

	if was == StatusDisconnected {
		return
	}
	m.logger.Debug("disconnected", "was", was)
	m.notify(State{Status: StatusDisconnected})
}

func (m *Manager) notify(s State) {
	if m.onChange != nil {
		m.onChange(s)
	}
}
