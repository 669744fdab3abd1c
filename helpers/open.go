package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// ErrNoOpener is returned when no URL opener exists on this system
var ErrNoOpener = errors.New("no url opener available")

// openBrowser hands a URL to the desktop handler
var openBrowser = browser.OpenURL

func init() {
	// the opener's output would draw over the TUI
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// OpenURL opens uri with the system handler, which is how a deep link
// reaches a wallet app from a terminal. Termux has no desktop handler and
// goes through termux-open-url.
func OpenURL(uri string) error {
	if os.Getenv("TERMUX_VERSION") != "" {
		if _, err := exec.LookPath("termux-open-url"); err != nil {
			return ErrNoOpener
		}
		return exec.Command("termux-open-url", uri).Start()
	}
	if err := openBrowser(uri); err != nil {
		return fmt.Errorf("%w: %v", ErrNoOpener, err)
	}
	return nil
}

// OpenOrCopy opens uri, falling back to the clipboard. copied reports
// whether the fallback was used.
func OpenOrCopy(uri string) (copied bool, err error) {
	openErr := OpenURL(uri)
	if openErr == nil {
		return false, nil
	}
	if err := clipboard.WriteAll(uri); err != nil {
		return false, errors.Join(openErr, err)
	}
	return true, nil
}
