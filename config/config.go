package config

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Connector kinds understood by the registry
const (
	KindInjected      = "injected"
	KindWalletConnect = "walletconnect"
)

// Config represents the application configuration
type Config struct {
	Connectors []ConnectorEntry `json:"connectors" mapstructure:"connectors"`
	DappURL    string           `json:"dapp_url" mapstructure:"dapp_url"`

	DebounceMS   int   `json:"debounce_ms" mapstructure:"debounce_ms"`
	RetryDelayMS int   `json:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	MaxRetries   int   `json:"max_retries" mapstructure:"max_retries"`
	PairingTTLS  int   `json:"pairing_ttl_s" mapstructure:"pairing_ttl_s"`
	Mobile       *bool `json:"mobile,omitempty" mapstructure:"mobile"`

	Logger bool `json:"logger" mapstructure:"logger"`
}

// ConnectorEntry represents a wallet connector in the config
type ConnectorEntry struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Kind        string `json:"kind" mapstructure:"kind"`
	RPCURL      string `json:"rpc_url,omitempty" mapstructure:"rpc_url"`
	DeepLink    string `json:"deep_link,omitempty" mapstructure:"deep_link"`
	ShowQRModal bool   `json:"show_qr_modal,omitempty" mapstructure:"show_qr_modal"`
}

// Load reads the config from the specified path. WALLETKIT_* environment
// variables override file values (e.g. WALLETKIT_DEBOUNCE_MS).
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("dapp_url", "")
	v.SetDefault("debounce_ms", 300)
	v.SetDefault("retry_delay_ms", 100)
	v.SetDefault("max_retries", 0)
	v.SetDefault("pairing_ttl_s", 300)
	v.SetDefault("logger", false)

	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix("WALLETKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// mobile has no default, so viper only sees the env var once bound
	_ = v.BindEnv("mobile")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Connectors: []ConnectorEntry{
			{
				ID:       "frame",
				Name:     "Frame",
				Kind:     KindInjected,
				RPCURL:   "http://127.0.0.1:1248",
				DeepLink: "",
			},
			{
				ID:       "metamask",
				Name:     "MetaMask",
				Kind:     KindInjected,
				DeepLink: "https://metamask.app.link/dapp/{dapp}",
			},
			{
				ID:   "walletconnect",
				Name: "WalletConnect",
				Kind: KindWalletConnect,
			},
		},
		DappURL:      "app.uniswap.org",
		DebounceMS:   300,
		RetryDelayMS: 100,
		MaxRetries:   0,
		PairingTTLS:  300,
		Logger:       false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	if _, err := os.Stat(path); err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	cfg, err := Load(path)
	if err != nil {
		// Invalid config, fall back to defaults
		return DefaultConfig()
	}
	if len(cfg.Connectors) == 0 {
		cfg.Connectors = DefaultConfig().Connectors
	}
	return cfg
}

// Debounce is the wallet selection quiet period
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// RetryDelay is the settling delay before a failed connect is handled
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// PairingTTL is how long a WalletConnect pairing URI stays valid
func (c Config) PairingTTL() time.Duration {
	return time.Duration(c.PairingTTLS) * time.Second
}

// IsMobile reports whether deep links should be used for missing wallets.
// Without an explicit setting, Termux sessions count as mobile.
func (c Config) IsMobile() bool {
	if c.Mobile != nil {
		return *c.Mobile
	}
	return os.Getenv("TERMUX_VERSION") != ""
}

// DeepLinkFor expands the {dapp} placeholder of a connector deep link
func (c Config) DeepLinkFor(e ConnectorEntry) string {
	return strings.ReplaceAll(e.DeepLink, "{dapp}", c.DappURL)
}
