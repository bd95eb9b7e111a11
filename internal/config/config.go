// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Indexy API
	APIURL string
	APIKey string

	// Wallet authentication
	WalletPrivateKey   string // Hex-encoded, 0x prefix optional
	WalletKeystorePath string // Path to an encrypted keystore file
	WalletKeystorePass string // Keystore password, empty if unset
	WalletChain        string // Chain name sent with signed headers

	// x402 payment settlement
	RPCURL         string
	ChainID        int64
	USDCContract   string
	X402MaxPayment string // Max USDC spent on a single 402

	// Logging
	LogLevel  string
	LogFormat string
}

// Base mainnet defaults
const (
	DefaultAPIURL       = "https://api.indexy.xyz"
	DefaultChain        = "base"
	DefaultRPCURL       = "https://mainnet.base.org"
	DefaultChainID      = 8453
	DefaultUSDCContract = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913" // Base USDC
	DefaultMaxPayment   = "1.00"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:             getEnv("INDEXY_API_URL", DefaultAPIURL),
		APIKey:             os.Getenv("INDEXY_API_KEY"),
		WalletPrivateKey:   os.Getenv("INDEXY_WALLET_PRIVATE_KEY"),
		WalletKeystorePath: os.Getenv("INDEXY_WALLET_KEYSTORE"),
		WalletKeystorePass: os.Getenv("INDEXY_WALLET_KEYSTORE_PASSWORD"),
		WalletChain:        getEnv("INDEXY_WALLET_CHAIN", DefaultChain),
		RPCURL:             getEnv("RPC_URL", DefaultRPCURL),
		ChainID:            getEnvInt64("CHAIN_ID", DefaultChainID),
		USDCContract:       getEnv("USDC_CONTRACT", DefaultUSDCContract),
		X402MaxPayment:     getEnv("X402_MAX_PAYMENT", DefaultMaxPayment),
		LogLevel:           getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:          getEnv("LOG_FORMAT", DefaultLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("INDEXY_API_URL must not be empty")
	}

	if c.WalletPrivateKey == "" && c.WalletKeystorePath == "" && c.APIKey == "" {
		return fmt.Errorf("no credentials configured: set INDEXY_WALLET_PRIVATE_KEY, INDEXY_WALLET_KEYSTORE, or INDEXY_API_KEY")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
