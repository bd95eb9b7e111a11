package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/indexy-ai/indexy-mcp/internal/auth"
)

// Doer issues HTTP requests. Satisfied by *http.Client and by the
// x402 payment-wrapping client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// IndexyClient is a pure HTTP client for the Indexy platform API.
// Auth headers are obtained fresh from the provider on every call.
type IndexyClient struct {
	baseURL string
	auth    auth.Provider
	doer    Doer
	logger  *slog.Logger
}

// Option configures the client.
type Option func(*IndexyClient)

// WithDoer swaps the underlying HTTP client, e.g. for the x402
// payment wrapper or a test double.
func WithDoer(d Doer) Option {
	return func(c *IndexyClient) {
		c.doer = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *IndexyClient) {
		c.logger = l
	}
}

// NewIndexyClient creates a new client for the Indexy platform.
func NewIndexyClient(baseURL string, provider auth.Provider, opts ...Option) *IndexyClient {
	c := &IndexyClient{
		baseURL: baseURL,
		auth:    provider,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// doRequest makes an HTTP request to the platform and returns the response body.
// Non-2xx responses become errors carrying the status code and the raw
// body text verbatim; the remote API's error payload is not reinterpreted.
func (c *IndexyClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Fresh headers per call: wallet modes sign a new timestamp each time.
	headers, err := c.auth.Headers()
	if err != nil {
		return nil, fmt.Errorf("auth headers: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("indexy api call",
		"method", method,
		"url", u.String(),
		"auth_mode", string(c.auth.Mode()),
	)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage(`{}`), nil
	}

	return json.RawMessage(respBody), nil
}

// CreateIndex creates a new index owned by the authenticated account.
func (c *IndexyClient) CreateIndex(ctx context.Context, body map[string]any) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/api/indexes", nil, body)
}

// UpdateIndex partially updates an existing index.
func (c *IndexyClient) UpdateIndex(ctx context.Context, indexID string, body map[string]any) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPatch, "/api/indexes/"+indexID, nil, body)
}

// ListMyIndexes lists the indexes owned by the authenticated account.
func (c *IndexyClient) ListMyIndexes(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/indexes", nil, nil)
}

// GetIndex fetches one of the authenticated account's indexes.
func (c *IndexyClient) GetIndex(ctx context.Context, indexID string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/indexes/"+indexID, nil, nil)
}

// GetPublicIndexes lists publicly visible indexes. featured is "",
// "true" or "false"; limit and offset are always sent.
func (c *IndexyClient) GetPublicIndexes(ctx context.Context, featured string, limit, offset int) (json.RawMessage, error) {
	q := url.Values{}
	if featured != "" {
		q.Set("featured", featured)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return c.doRequest(ctx, http.MethodGet, "/api/public/indexes", q, nil)
}

// GetPublicIndex fetches a single public index.
func (c *IndexyClient) GetPublicIndex(ctx context.Context, indexID string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/public/indexes/"+indexID, nil, nil)
}

// GetKPIsCoins queries coin KPI data, optionally filtered by symbols.
func (c *IndexyClient) GetKPIsCoins(ctx context.Context, symbols string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if symbols != "" {
		q.Set("symbols", symbols)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/api/kpis/coins", q, nil)
}

// GetMindshareCoins queries coin mindshare data.
func (c *IndexyClient) GetMindshareCoins(ctx context.Context, symbols string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if symbols != "" {
		q.Set("symbols", symbols)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/api/mindshare/coins", q, nil)
}

// GetProfile fetches the authenticated account's profile.
func (c *IndexyClient) GetProfile(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/profile", nil, nil)
}

// UpdateProfile updates the authenticated account's profile.
func (c *IndexyClient) UpdateProfile(ctx context.Context, body map[string]any) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPut, "/api/profile", nil, body)
}
