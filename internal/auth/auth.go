// Package auth selects the outbound authentication strategy and
// produces the headers each Indexy API call carries.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/indexy-ai/indexy-mcp/internal/config"
	"github.com/indexy-ai/indexy-mcp/internal/wallet"
)

// Mode identifies the active authentication strategy.
type Mode string

const (
	ModeAPIKey         Mode = "api-key"
	ModeWalletKey      Mode = "wallet-private-key"
	ModeWalletKeystore Mode = "wallet-keystore"
)

// ErrNoCredentials means none of the three strategies is configured.
// Startup must treat this as fatal.
var ErrNoCredentials = errors.New("auth: no credentials configured")

// MessagePreamble is the first line of every signed authentication
// message. The remote side verifies the full layout, so it is fixed.
const MessagePreamble = "Indexy API Authentication"

// Header names carried by wallet-signed requests.
const (
	HeaderAddress   = "X-Wallet-Address"
	HeaderChain     = "X-Wallet-Chain"
	HeaderSignature = "X-Wallet-Signature"
	HeaderMessage   = "X-Wallet-Message"
	HeaderTimestamp = "X-Wallet-Timestamp"
)

// Provider produces the auth headers for one outbound request.
// Wallet-based providers sign fresh on every call; headers are never
// reused because the signature binds to the timestamp.
type Provider interface {
	Mode() Mode
	Headers() (map[string]string, error)
}

// NewProvider selects a strategy in fixed precedence order:
// wallet private key, then wallet keystore, then API key.
// The wallet is loaded here, once, before any request is served;
// malformed keys and unreadable keystores are returned as errors for
// the caller to treat as fatal.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch {
	case cfg.WalletPrivateKey != "":
		id, err := wallet.FromPrivateKey(cfg.WalletPrivateKey)
		if err != nil {
			return nil, err
		}
		return &walletProvider{mode: ModeWalletKey, identity: id, chain: cfg.WalletChain}, nil

	case cfg.WalletKeystorePath != "":
		id, err := wallet.FromKeystore(cfg.WalletKeystorePath, cfg.WalletKeystorePass)
		if err != nil {
			return nil, err
		}
		return &walletProvider{mode: ModeWalletKeystore, identity: id, chain: cfg.WalletChain}, nil

	case cfg.APIKey != "":
		return &apiKeyProvider{key: cfg.APIKey}, nil

	default:
		return nil, ErrNoCredentials
	}
}

// apiKeyProvider sends a static bearer token. No signing occurs.
type apiKeyProvider struct {
	key string
}

func (p *apiKeyProvider) Mode() Mode { return ModeAPIKey }

func (p *apiKeyProvider) Headers() (map[string]string, error) {
	return map[string]string{"Authorization": "Bearer " + p.key}, nil
}

// walletProvider signs a timestamped message on every call.
type walletProvider struct {
	mode     Mode
	identity *wallet.Identity
	chain    string

	// now is swappable in tests; nil means time.Now
	now func() time.Time
}

func (p *walletProvider) Mode() Mode { return p.mode }

// Address returns the loaded wallet address, for startup logging.
func (p *walletProvider) Address() string { return p.identity.Address() }

func (p *walletProvider) Headers() (map[string]string, error) {
	nowFn := p.now
	if nowFn == nil {
		nowFn = time.Now
	}
	ts := strconv.FormatInt(nowFn().UnixMilli(), 10)

	message := BuildMessage(ts, p.identity.Address())

	sig, err := p.identity.SignText(message)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	return map[string]string{
		HeaderAddress:   p.identity.Address(),
		HeaderChain:     p.chain,
		HeaderSignature: sig,
		HeaderMessage:   wallet.EncodeMessage(message),
		HeaderTimestamp: ts,
	}, nil
}

// BuildMessage assembles the plaintext authentication message.
func BuildMessage(timestamp, address string) string {
	return fmt.Sprintf("%s\nTimestamp: %s\nAddress: %s", MessagePreamble, timestamp, address)
}

// WalletIdentity returns the loaded wallet identity when the provider
// is wallet-based, so callers can reuse it for payment settlement.
func WalletIdentity(p Provider) (*wallet.Identity, bool) {
	if wp, ok := p.(*walletProvider); ok {
		return wp.identity, true
	}
	return nil, false
}
