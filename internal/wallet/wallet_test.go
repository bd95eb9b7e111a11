package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestFromPrivateKey(t *testing.T) {
	id, err := FromPrivateKey(testKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id.Address(), "0x"))
	assert.Len(t, id.Address(), 42)
}

func TestFromPrivateKey_0xPrefix(t *testing.T) {
	plain, err := FromPrivateKey(testKey)
	require.NoError(t, err)

	prefixed, err := FromPrivateKey("0x" + testKey)
	require.NoError(t, err)

	assert.Equal(t, plain.Address(), prefixed.Address())
}

func TestFromPrivateKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "abcdef"},
		{"too long", testKey + "00"},
		{"not hex", strings.Repeat("z", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPrivateKey(tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

// writeKeystore encrypts a fresh key into a keystore file and returns
// the path plus the expected address.
func writeKeystore(t *testing.T, password string) (string, string) {
	t.Helper()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}

	data, err := keystore.EncryptKey(key, password, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keystore.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path, key.Address.Hex()
}

func TestFromKeystore(t *testing.T) {
	path, wantAddr := writeKeystore(t, "hunter2")

	id, err := FromKeystore(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, wantAddr, id.Address())
}

func TestFromKeystore_EmptyPassword(t *testing.T) {
	path, wantAddr := writeKeystore(t, "")

	id, err := FromKeystore(path, "")
	require.NoError(t, err)
	assert.Equal(t, wantAddr, id.Address())
}

func TestFromKeystore_WrongPassword(t *testing.T) {
	path, _ := writeKeystore(t, "correct")

	_, err := FromKeystore(path, "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeystoreDecrypt)
}

func TestFromKeystore_MissingFile(t *testing.T) {
	_, err := FromKeystore(filepath.Join(t.TempDir(), "nope.json"), "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeystoreRead)
}

func TestFromKeystore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not a keystore"), 0o600))

	_, err := FromKeystore(path, "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeystoreDecrypt)
}

func TestSignText_Recoverable(t *testing.T) {
	id, err := FromPrivateKey(testKey)
	require.NoError(t, err)

	msg := "Indexy API Authentication\nTimestamp: 1700000000000\nAddress: " + id.Address()
	sig, err := id.SignText(msg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sig, "0x"))
	raw, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	require.NoError(t, err)
	require.Len(t, raw, 65)
	assert.True(t, raw[64] == 27 || raw[64] == 28, "v must be 27 or 28")

	recovered, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, id.Address(), recovered)
}

func TestSignText_DifferentMessagesDifferentSignatures(t *testing.T) {
	id, err := FromPrivateKey(testKey)
	require.NoError(t, err)

	sig1, err := id.SignText("message one")
	require.NoError(t, err)
	sig2, err := id.SignText("message two")
	require.NoError(t, err)

	assert.NotEqual(t, sig1, sig2)
}

func TestRecoverAddress_WrongSigner(t *testing.T) {
	id, err := FromPrivateKey(testKey)
	require.NoError(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherAddr := crypto.PubkeyToAddress(other.PublicKey).Hex()

	sig, err := id.SignText("hello")
	require.NoError(t, err)

	recovered, err := RecoverAddress("hello", sig)
	require.NoError(t, err)
	assert.NotEqual(t, otherAddr, recovered)
}

func TestRecoverAddress_Invalid(t *testing.T) {
	_, err := RecoverAddress("msg", "0xzz")
	assert.Error(t, err)

	_, err = RecoverAddress("msg", "0xabcd")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "65 bytes")
}

func TestHashMessage_EIP191Prefix(t *testing.T) {
	// Same input always hashes the same, different inputs differ.
	h1 := HashMessage("hello")
	h2 := HashMessage("hello")
	h3 := HashMessage("hello!")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 32)

	// The prefix binds the message length.
	want := crypto.Keccak256([]byte("\x19Ethereum Signed Message:\n5hello"))
	assert.Equal(t, want, h1)
}

func TestEncodeMessage(t *testing.T) {
	msg := "line one\nline two"
	encoded := EncodeMessage(msg)

	assert.NotContains(t, encoded, "\n")

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, msg, string(decoded))
}
