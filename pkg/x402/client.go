package x402

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/indexy-ai/indexy-mcp/internal/wallet"
)

// Settler executes the payment a 402 response asks for and returns a
// proof the server will accept on retry.
type Settler interface {
	Settle(ctx context.Context, req *PaymentRequirement) (*PaymentProof, error)
}

// Client wraps http.Client with automatic 402 payment handling
type Client struct {
	httpClient *http.Client
	settler    Settler

	// Configuration
	MaxRetries int    // Max payment retries (default: 1)
	AutoPay    bool   // Automatically pay 402s (default: true)
	MaxPayment string // Max payment amount in USDC (default: unlimited)

	// Hooks
	OnPayment func(req *PaymentRequirement, proof *PaymentProof) // Called after each payment
}

// NewClient creates a new x402-enabled HTTP client
func NewClient(settler Settler) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		settler:    settler,
		MaxRetries: 1,
		AutoPay:    true,
	}
}

// Do performs an HTTP request with automatic 402 payment handling
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// Clone the request body if present (we might need to retry)
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
	}

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		// Not a 402 - return response as-is
		if resp.StatusCode != http.StatusPaymentRequired {
			return resp, nil
		}

		// Don't auto-pay if disabled
		if !c.AutoPay {
			return resp, nil
		}

		payReq, err := ParsePaymentRequirement(resp)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment requirement: %w", err)
		}

		if c.MaxPayment != "" {
			if err := c.checkPaymentLimit(payReq.Price); err != nil {
				return nil, err
			}
		}

		proof, err := c.settler.Settle(ctx, payReq)
		if err != nil {
			return nil, fmt.Errorf("payment failed: %w", err)
		}

		if c.OnPayment != nil {
			c.OnPayment(payReq, proof)
		}

		// Add proof to request and retry
		if err := AddProofToRequest(req, proof); err != nil {
			return nil, fmt.Errorf("failed to add proof: %w", err)
		}
	}

	return nil, fmt.Errorf("max retries exceeded")
}

// checkPaymentLimit verifies the payment doesn't exceed max
func (c *Client) checkPaymentLimit(price string) error {
	maxAmount, err := wallet.ParseUSDC(c.MaxPayment)
	if err != nil {
		return fmt.Errorf("invalid max payment: %w", err)
	}

	reqAmount, err := wallet.ParseUSDC(price)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	if reqAmount.Cmp(maxAmount) > 0 {
		return fmt.Errorf("payment %s exceeds max %s", price, c.MaxPayment)
	}

	return nil
}

// TransferSettler settles payment requirements with a direct USDC
// transfer and waits for the transaction to confirm.
type TransferSettler struct {
	Transactor     *wallet.Transactor
	ConfirmTimeout time.Duration // 0 skips the confirmation wait
}

// NewTransferSettler wraps a transactor with a 30s confirmation wait.
func NewTransferSettler(t *wallet.Transactor) *TransferSettler {
	return &TransferSettler{Transactor: t, ConfirmTimeout: 30 * time.Second}
}

// Settle pays the requested amount to the requested recipient.
func (s *TransferSettler) Settle(ctx context.Context, req *PaymentRequirement) (*PaymentProof, error) {
	recipient := common.HexToAddress(req.Recipient)

	price, err := wallet.ParseUSDC(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	result, err := s.Transactor.Transfer(ctx, recipient, price)
	if err != nil {
		return nil, fmt.Errorf("transfer failed: %w", err)
	}

	if s.ConfirmTimeout > 0 {
		if _, err := s.Transactor.WaitForConfirmation(ctx, result.TxHash, s.ConfirmTimeout); err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
	}

	return NewPaymentProof(result.TxHash, s.Transactor.Address(), req.Nonce), nil
}
