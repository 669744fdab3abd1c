package walletkit

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// CodeUserRejected is the EIP-1193 "user rejected request" code.
const CodeUserRejected = 4001

var (
	// ErrSuperseded is returned by Manager.Connect when a Disconnect or a
	// newer attempt replaced the call before it finished.
	ErrSuperseded = errors.New("walletkit: connect attempt superseded")
	// ErrNoProvider is returned by connectors that cannot produce a provider.
	ErrNoProvider = errors.New("walletkit: provider unavailable")
)

// ConnectError is a connect failure carrying a provider error code.
// It satisfies go-ethereum's rpc.Error so codes from JSON-RPC wallets and
// from local connectors are read the same way.
type ConnectError struct {
	Code    int
	Message string
	Err     error
}

func (e *ConnectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (code %d): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ErrorCode implements rpc.Error.
func (e *ConnectError) ErrorCode() int { return e.Code }

// UserRejected builds a 4001 error with the given message.
func UserRejected(msg string) *ConnectError {
	return &ConnectError{Code: CodeUserRejected, Message: msg}
}

// AttemptError ties a reported failure to the connect attempt that
// produced it, so hosts can drop reports for a connector no longer shown.
type AttemptError struct {
	ID        string
	Connector string
	Attempt   int
	Err       error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("connect %s (attempt %d): %v", e.Connector, e.Attempt, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// ErrorCode extracts the provider code from err, if any.
func ErrorCode(err error) (int, bool) {
	var coded rpc.Error
	if errors.As(err, &coded) {
		return coded.ErrorCode(), true
	}
	return 0, false
}

// IsUserRejected reports whether err carries code 4001.
func IsUserRejected(err error) bool {
	code, ok := ErrorCode(err)
	return ok && code == CodeUserRejected
}

// ErrorHandler receives errors meant for the user.
type ErrorHandler func(err error)

// ReportError logs err and hands it to handler. Reporting is best-effort
// and never retried.
func ReportError(logger *log.Logger, err error, handler ErrorHandler) {
	if err == nil {
		return
	}
	if logger != nil {
		if code, ok := ErrorCode(err); ok {
			logger.Error("wallet error", "code", code, "err", err)
		} else {
			logger.Error("wallet error", "err", err)
		}
	}
	if handler != nil {
		handler(err)
	}
}
