package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrTransactionFailed = errors.New("wallet: transaction failed")
	ErrTimeout           = errors.New("wallet: operation timed out")
	ErrRPCConnection     = errors.New("wallet: RPC connection failed")
)

// ERC20 minimal ABI for transfer
const erc20ABI = `[
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

const (
	// USDCDecimals is the decimal precision of USDC
	USDCDecimals = 6

	// DefaultGasLimit for ERC20 transfers
	DefaultGasLimit = uint64(100000)

	// ConfirmationPollInterval between receipt checks
	ConfirmationPollInterval = 2 * time.Second
)

// EthClient abstracts the go-ethereum client for testing
type EthClient interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// TransactorConfig configures the USDC transactor
type TransactorConfig struct {
	RPCURL       string
	ChainID      int64
	USDCContract string
}

// TransactorOption configures the transactor
type TransactorOption func(*Transactor)

// WithClient sets a custom Ethereum client (useful for testing)
func WithClient(client EthClient) TransactorOption {
	return func(t *Transactor) {
		t.client = client
	}
}

// TransferResult contains details of a submitted transfer
type TransferResult struct {
	TxHash      string
	From        string
	To          string
	Amount      string // Human-readable USDC amount
	AmountRaw   *big.Int
	BlockNumber uint64
	GasUsed     uint64
	Nonce       uint64
}

// Transactor sends USDC transfers, used by the x402 client to settle
// 402 Payment Required responses.
type Transactor struct {
	client       EthClient
	identity     *Identity
	chainID      *big.Int
	usdcContract common.Address
	usdcABI      abi.ABI
}

// NewTransactor creates a transactor for the given identity.
func NewTransactor(id *Identity, cfg TransactorConfig, opts ...TransactorOption) (*Transactor, error) {
	if cfg.ChainID == 0 {
		return nil, fmt.Errorf("chain ID required")
	}
	if cfg.USDCContract == "" {
		return nil, fmt.Errorf("USDC contract address required")
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	t := &Transactor{
		identity:     id,
		chainID:      big.NewInt(cfg.ChainID),
		usdcContract: common.HexToAddress(cfg.USDCContract),
		usdcABI:      parsedABI,
	}

	for _, opt := range opts {
		opt(t)
	}

	// Connect to RPC if no client provided
	if t.client == nil {
		if cfg.RPCURL == "" {
			return nil, fmt.Errorf("%w: RPC URL required", ErrRPCConnection)
		}
		client, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRPCConnection, err)
		}
		t.client = client
	}

	return t, nil
}

// Transfer sends USDC to a recipient. amount is in raw units (6 decimals).
func (t *Transactor) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*TransferResult, error) {
	data, err := t.usdcABI.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("wallet: pack transfer: %w", err)
	}

	nonce, err := t.client.PendingNonceAt(ctx, t.identity.address)
	if err != nil {
		return nil, fmt.Errorf("wallet: nonce: %w", err)
	}

	gasPrice, err := t.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: gas price: %w", err)
	}

	gasLimit, err := t.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  t.identity.address,
		To:    &t.usdcContract,
		Value: big.NewInt(0),
		Data:  data,
	})
	if err != nil {
		// Use default if estimation fails
		gasLimit = DefaultGasLimit
	}

	tx := types.NewTransaction(nonce, t.usdcContract, big.NewInt(0), gasLimit, gasPrice, data)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(t.chainID), t.identity.privateKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: sign tx: %w", err)
	}

	if err := t.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("wallet: send tx %s: %w", signedTx.Hash().Hex(), err)
	}

	return &TransferResult{
		TxHash:    signedTx.Hash().Hex(),
		From:      t.identity.Address(),
		To:        to.Hex(),
		Amount:    FormatUSDC(amount),
		AmountRaw: amount,
		Nonce:     nonce,
	}, nil
}

// WaitForConfirmation waits for a transaction to be mined
func (t *Transactor) WaitForConfirmation(ctx context.Context, txHash string, timeout time.Duration) (*TransferResult, error) {
	hash := common.HexToHash(txHash)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(ConfirmationPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: waiting for tx %s", ErrTimeout, txHash)
			}
			return nil, ctx.Err()

		case <-ticker.C:
			receipt, err := t.client.TransactionReceipt(ctx, hash)
			if err != nil {
				// Transaction not yet mined, continue waiting
				continue
			}

			if receipt.Status == 0 {
				return nil, fmt.Errorf("%w: tx %s reverted", ErrTransactionFailed, txHash)
			}

			return &TransferResult{
				TxHash:      txHash,
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
			}, nil
		}
	}
}

// Address returns the transactor wallet address
func (t *Transactor) Address() string {
	return t.identity.Address()
}

// Close closes the client connection
func (t *Transactor) Close() error {
	if t.client != nil {
		t.client.Close()
	}
	return nil
}

// FormatUSDC converts raw USDC amount to human-readable string
func FormatUSDC(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(USDCDecimals), nil)

	whole := new(big.Int).Div(amount, divisor)
	remainder := new(big.Int).Mod(amount, divisor)

	if remainder.Sign() == 0 {
		return whole.String()
	}

	return fmt.Sprintf("%s.%06d", whole.String(), remainder.Int64())
}

// ParseUSDC converts human-readable USDC string to raw amount
func ParseUSDC(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}

	parts := strings.Split(amount, ".")

	var whole, decimal string
	switch len(parts) {
	case 1:
		whole = parts[0]
	case 2:
		whole = parts[0]
		decimal = parts[1]
	default:
		return nil, fmt.Errorf("invalid amount format")
	}

	wholeBig, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("invalid whole number")
	}

	if wholeBig.Sign() < 0 {
		return nil, fmt.Errorf("negative amounts not allowed")
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(USDCDecimals), nil)
	result := new(big.Int).Mul(wholeBig, multiplier)

	if decimal != "" {
		// Pad or truncate to 6 digits
		if len(decimal) > USDCDecimals {
			decimal = decimal[:USDCDecimals]
		}
		for len(decimal) < USDCDecimals {
			decimal += "0"
		}

		decimalBig, ok := new(big.Int).SetString(decimal, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal number")
		}
		result.Add(result, decimalBig)
	}

	return result, nil
}
