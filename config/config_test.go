package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("debounce = %s, want 300ms", cfg.Debounce())
	}
	if cfg.RetryDelay() != 100*time.Millisecond {
		t.Errorf("retry delay = %s, want 100ms", cfg.RetryDelay())
	}
	if cfg.PairingTTL() != 5*time.Minute {
		t.Errorf("pairing ttl = %s, want 5m", cfg.PairingTTL())
	}
	if cfg.Mobile != nil {
		t.Errorf("mobile = %v, want unset", *cfg.Mobile)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletkit.json")
	data := `{
  "connectors": [
    {"id": "frame", "name": "Frame", "kind": "injected", "rpc_url": "http://127.0.0.1:1248"},
    {"id": "wc", "name": "WalletConnect", "kind": "walletconnect", "show_qr_modal": true}
  ],
  "debounce_ms": 500,
  "max_retries": 3
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WALLETKIT_MAX_RETRIES", "5")
	t.Setenv("WALLETKIT_MOBILE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Connectors) != 2 {
		t.Fatalf("connectors = %d, want 2", len(cfg.Connectors))
	}
	if cfg.Connectors[0].RPCURL != "http://127.0.0.1:1248" {
		t.Errorf("rpc url = %q", cfg.Connectors[0].RPCURL)
	}
	if !cfg.Connectors[1].ShowQRModal {
		t.Error("show_qr_modal not read")
	}
	if cfg.DebounceMS != 500 {
		t.Errorf("debounce_ms = %d, want 500", cfg.DebounceMS)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("max_retries = %d, want env override 5", cfg.MaxRetries)
	}
	if !cfg.IsMobile() {
		t.Error("WALLETKIT_MOBILE=true not applied")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
	if cfg := LoadOrCreate(path); len(cfg.Connectors) != len(DefaultConfig().Connectors) {
		t.Error("LoadOrCreate did not fall back to defaults")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")

	cfg := LoadOrCreate(path)
	if len(cfg.Connectors) == 0 {
		t.Fatal("no default connectors")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(again.Connectors) != len(cfg.Connectors) || again.DappURL != cfg.DappURL {
		t.Errorf("reloaded config differs: %+v", again)
	}
}

func TestIsMobile(t *testing.T) {
	t.Setenv("TERMUX_VERSION", "")
	if (Config{}).IsMobile() {
		t.Error("desktop reported as mobile")
	}

	t.Setenv("TERMUX_VERSION", "0.118.0")
	if !(Config{}).IsMobile() {
		t.Error("termux not detected")
	}

	off := false
	if (Config{Mobile: &off}).IsMobile() {
		t.Error("explicit mobile=false ignored")
	}
}

func TestDeepLinkFor(t *testing.T) {
	cfg := Config{DappURL: "app.uniswap.org"}
	got := cfg.DeepLinkFor(ConnectorEntry{DeepLink: "https://metamask.app.link/dapp/{dapp}"})
	if got != "https://metamask.app.link/dapp/app.uniswap.org" {
		t.Errorf("deep link = %q", got)
	}
}

func TestClickableAreaContains(t *testing.T) {
	a := ClickableArea{X: 4, Y: 9, Width: 10, Height: 1}
	if !a.Contains(4, 9) || !a.Contains(13, 9) {
		t.Error("expected cells inside area")
	}
	if a.Contains(14, 9) || a.Contains(4, 10) {
		t.Error("expected cells outside area")
	}
}
