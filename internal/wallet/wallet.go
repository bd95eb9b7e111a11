// Package wallet loads the signing identity used to authenticate
// against the Indexy API and, through the x402 client, to settle
// USDC payments.
package wallet

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidPrivateKey = errors.New("wallet: invalid private key")
	ErrKeystoreRead      = errors.New("wallet: keystore unreadable")
	ErrKeystoreDecrypt   = errors.New("wallet: keystore decryption failed")
)

// Identity is a loaded wallet: an address plus the private signing key.
// The key never leaves this package; only signatures do.
type Identity struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// FromPrivateKey constructs an Identity from a hex private key,
// with or without 0x prefix.
func FromPrivateKey(hexKey string) (*Identity, error) {
	key := strings.TrimPrefix(hexKey, "0x")
	if len(key) != 64 {
		return nil, fmt.Errorf("%w: must be 64 hex characters", ErrInvalidPrivateKey)
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return fromECDSA(privateKey)
}

// FromKeystore reads an encrypted keystore file and decrypts it with
// the given password (empty string if unset).
func FromKeystore(path, password string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreRead, err)
	}

	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreDecrypt, err)
	}

	return fromECDSA(key.PrivateKey)
}

func fromECDSA(privateKey *ecdsa.PrivateKey) (*Identity, error) {
	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrInvalidPrivateKey)
	}

	return &Identity{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the wallet's checksummed address. Safe to log.
func (id *Identity) Address() string {
	return id.address.Hex()
}

// SignText signs a plaintext message in the EIP-191 personal-sign
// scheme and returns a 0x-prefixed hex signature with v in {27, 28}.
func (id *Identity) SignText(message string) (string, error) {
	sig, err := crypto.Sign(HashMessage(message), id.privateKey)
	if err != nil {
		return "", fmt.Errorf("wallet: sign failed: %w", err)
	}

	// crypto.Sign yields a recovery id of 0/1; wallets use 27/28.
	sig[64] += 27

	return "0x" + hex.EncodeToString(sig), nil
}

// HashMessage creates an Ethereum signed message hash
// This prefixes the message with "\x19Ethereum Signed Message:\n{len}" as per EIP-191
func HashMessage(message string) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256([]byte(prefix + message))
}

// RecoverAddress recovers the signer's address from a message and signature.
// signature should be hex-encoded, 65 bytes (r[32] + s[32] + v[1]).
func RecoverAddress(message string, signatureHex string) (string, error) {
	sigHex := strings.TrimPrefix(signatureHex, "0x")

	signature, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", fmt.Errorf("invalid signature hex: %w", err)
	}

	if len(signature) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(signature))
	}

	// Ethereum signatures have v = 27 or 28, but Ecrecover expects 0 or 1
	if signature[64] >= 27 {
		signature[64] -= 27
	}

	pubKeyBytes, err := crypto.Ecrecover(HashMessage(message), signature)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	pubKey, err := crypto.UnmarshalPubkey(pubKeyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to unmarshal public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// EncodeMessage base64-encodes a signed plaintext so it can travel in
// an HTTP header without raw newlines.
func EncodeMessage(message string) string {
	return base64.StdEncoding.EncodeToString([]byte(message))
}
