package connectors

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const defaultRelayProtocol = "irn"

// Pairing is a parsed WalletConnect v2 pairing URI.
type Pairing struct {
	Topic         string
	Version       int
	RelayProtocol string
	SymKey        string
	Expiry        time.Time
}

// URI renders the pairing in the wc: form wallets scan.
func (p Pairing) URI() string {
	q := url.Values{}
	q.Set("relay-protocol", p.RelayProtocol)
	q.Set("symKey", p.SymKey)
	if !p.Expiry.IsZero() {
		q.Set("expiryTimestamp", strconv.FormatInt(p.Expiry.Unix(), 10))
	}
	return fmt.Sprintf("wc:%s@%d?%s", p.Topic, p.Version, q.Encode())
}

// Expired reports whether the pairing lapsed at now.
func (p Pairing) Expired(now time.Time) bool {
	return !p.Expiry.IsZero() && !now.Before(p.Expiry)
}

// NewPairing creates a fresh pairing with a random symmetric key. The topic
// is the SHA-256 of the key, as WalletConnect derives it.
func NewPairing(relayProtocol string, expiry time.Time) (Pairing, error) {
	if relayProtocol == "" {
		relayProtocol = defaultRelayProtocol
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return Pairing{}, fmt.Errorf("pairing key: %w", err)
	}
	topic := sha256.Sum256(key)
	return Pairing{
		Topic:         common.Bytes2Hex(topic[:]),
		Version:       2,
		RelayProtocol: relayProtocol,
		SymKey:        common.Bytes2Hex(key),
		Expiry:        expiry,
	}, nil
}

var errNotPairingURI = errors.New("not a wc: pairing uri")

// ParsePairing reads a wc:topic@version?params URI.
func ParsePairing(raw string) (Pairing, error) {
	rest, ok := strings.CutPrefix(raw, "wc:")
	if !ok {
		return Pairing{}, errNotPairingURI
	}
	head, query, _ := strings.Cut(rest, "?")
	topic, ver, ok := strings.Cut(head, "@")
	if !ok || topic == "" {
		return Pairing{}, fmt.Errorf("%w: missing topic or version", errNotPairingURI)
	}
	version, err := strconv.Atoi(ver)
	if err != nil {
		return Pairing{}, fmt.Errorf("%w: bad version %q", errNotPairingURI, ver)
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return Pairing{}, fmt.Errorf("%w: %v", errNotPairingURI, err)
	}

	p := Pairing{
		Topic:         topic,
		Version:       version,
		RelayProtocol: q.Get("relay-protocol"),
		SymKey:        q.Get("symKey"),
	}
	if ts := q.Get("expiryTimestamp"); ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return Pairing{}, fmt.Errorf("%w: bad expiry %q", errNotPairingURI, ts)
		}
		p.Expiry = time.Unix(sec, 0)
	}
	return p, nil
}
