package config

// Page identifies a screen of the TUI
type Page int

const (
	PageHome Page = iota
	PageWallets
	PageConnectWithQRCode
	PageConnecting
	PageConnected
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageWallets:
		return "wallets"
	case PageConnectWithQRCode:
		return "connect-with-qrcode"
	case PageConnecting:
		return "connecting"
	case PageConnected:
		return "connected"
	case PageSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ClickableArea represents a clickable region for mouse support
type ClickableArea struct {
	X, Y          int
	Width, Height int
	ConnectorID   string
}

// Contains reports whether the cell (x, y) falls inside the area
func (a ClickableArea) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}
