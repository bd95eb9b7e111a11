package auth

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexy-ai/indexy-mcp/internal/config"
	"github.com/indexy-ai/indexy-mcp/internal/wallet"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func writeKeystore(t *testing.T, password string) string {
	t.Helper()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}

	encrypted, err := keystore.EncryptKey(key, password, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keystore.json")
	require.NoError(t, os.WriteFile(path, encrypted, 0600))
	return path
}

func TestNewProvider_Precedence(t *testing.T) {
	keystorePath := writeKeystore(t, "pass")

	tests := []struct {
		name string
		cfg  config.Config
		want Mode
	}{
		{
			name: "private key wins over everything",
			cfg: config.Config{
				WalletPrivateKey:   testKey,
				WalletKeystorePath: keystorePath,
				WalletKeystorePass: "pass",
				APIKey:             "sk_test",
			},
			want: ModeWalletKey,
		},
		{
			name: "keystore wins over api key",
			cfg: config.Config{
				WalletKeystorePath: keystorePath,
				WalletKeystorePass: "pass",
				APIKey:             "sk_test",
			},
			want: ModeWalletKeystore,
		},
		{
			name: "api key alone",
			cfg:  config.Config{APIKey: "sk_test"},
			want: ModeAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Mode())
		})
	}
}

func TestNewProvider_NoCredentials(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNewProvider_InvalidPrivateKey(t *testing.T) {
	_, err := NewProvider(&config.Config{WalletPrivateKey: "nothex"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrInvalidPrivateKey)
}

func TestNewProvider_WrongKeystorePassword(t *testing.T) {
	path := writeKeystore(t, "correct")

	_, err := NewProvider(&config.Config{
		WalletKeystorePath: path,
		WalletKeystorePass: "wrong",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrKeystoreDecrypt)
}

func TestAPIKeyProvider_Headers(t *testing.T) {
	p, err := NewProvider(&config.Config{APIKey: "sk_test_123"})
	require.NoError(t, err)

	headers, err := p.Headers()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer sk_test_123"}, headers)

	// Static token, identical across calls
	again, err := p.Headers()
	require.NoError(t, err)
	assert.Equal(t, headers, again)
}

func TestWalletProvider_Headers(t *testing.T) {
	id, err := wallet.FromPrivateKey(testKey)
	require.NoError(t, err)

	fixed := time.UnixMilli(1712345678901)
	p := &walletProvider{
		mode:     ModeWalletKey,
		identity: id,
		chain:    "base",
		now:      func() time.Time { return fixed },
	}

	headers, err := p.Headers()
	require.NoError(t, err)

	assert.Equal(t, id.Address(), headers[HeaderAddress])
	assert.Equal(t, "base", headers[HeaderChain])
	assert.Equal(t, "1712345678901", headers[HeaderTimestamp])

	// The message header is the base64 of the exact plaintext layout.
	decoded, err := base64.StdEncoding.DecodeString(headers[HeaderMessage])
	require.NoError(t, err)
	want := fmt.Sprintf("Indexy API Authentication\nTimestamp: 1712345678901\nAddress: %s", id.Address())
	assert.Equal(t, want, string(decoded))

	// The signature recovers to the wallet address.
	recovered, err := wallet.RecoverAddress(string(decoded), headers[HeaderSignature])
	require.NoError(t, err)
	assert.Equal(t, id.Address(), recovered)
}

func TestWalletProvider_FreshSignaturePerCall(t *testing.T) {
	id, err := wallet.FromPrivateKey(testKey)
	require.NoError(t, err)

	p := &walletProvider{mode: ModeWalletKey, identity: id, chain: "base"}

	first, err := p.Headers()
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := p.Headers()
	require.NoError(t, err)

	assert.NotEqual(t, first[HeaderTimestamp], second[HeaderTimestamp])
	assert.NotEqual(t, first[HeaderSignature], second[HeaderSignature])
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("1700000000000", "0xAbC")
	assert.Equal(t, "Indexy API Authentication\nTimestamp: 1700000000000\nAddress: 0xAbC", msg)
}

func TestWalletIdentity(t *testing.T) {
	apiProvider, err := NewProvider(&config.Config{APIKey: "sk_test"})
	require.NoError(t, err)
	_, ok := WalletIdentity(apiProvider)
	assert.False(t, ok)

	walletP, err := NewProvider(&config.Config{WalletPrivateKey: testKey, WalletChain: "base"})
	require.NoError(t, err)
	id, ok := WalletIdentity(walletP)
	require.True(t, ok)
	assert.NotEmpty(t, id.Address())
}
