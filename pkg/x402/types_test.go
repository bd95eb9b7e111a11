package x402

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestIs402Response(t *testing.T) {
	assert.True(t, Is402Response(response(402, "")))
	assert.False(t, Is402Response(response(200, "")))
	assert.False(t, Is402Response(response(500, "")))
}

func TestParsePaymentRequirement(t *testing.T) {
	resp := response(402, `{
		"price": "0.05",
		"currency": "USDC",
		"chain": "base",
		"chainId": 8453,
		"recipient": "0xSELLER",
		"contract": "0xUSDC",
		"nonce": "abc123"
	}`)

	req, err := ParsePaymentRequirement(resp)
	require.NoError(t, err)
	assert.Equal(t, "0.05", req.Price)
	assert.Equal(t, "USDC", req.Currency)
	assert.Equal(t, int64(8453), req.ChainID)
	assert.Equal(t, "0xSELLER", req.Recipient)
	assert.Equal(t, "abc123", req.Nonce)
}

func TestParsePaymentRequirement_Not402(t *testing.T) {
	_, err := ParsePaymentRequirement(response(200, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a 402 response")
}

func TestParsePaymentRequirement_BadJSON(t *testing.T) {
	_, err := ParsePaymentRequirement(response(402, `not json`))
	require.Error(t, err)
}

func TestNewPaymentProof(t *testing.T) {
	before := time.Now().Unix()
	proof := NewPaymentProof("0xHASH", "0xFROM", "n1")
	after := time.Now().Unix()

	assert.Equal(t, "0xHASH", proof.TxHash)
	assert.Equal(t, "0xFROM", proof.From)
	assert.Equal(t, "n1", proof.Nonce)
	assert.GreaterOrEqual(t, proof.Timestamp, before)
	assert.LessOrEqual(t, proof.Timestamp, after)
}

func TestAddProofToRequest(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	proof := NewPaymentProof("0xHASH", "0xFROM", "")
	require.NoError(t, AddProofToRequest(req, proof))

	header := req.Header.Get("X-Payment-Proof")
	require.NotEmpty(t, header)

	var decoded PaymentProof
	require.NoError(t, json.Unmarshal([]byte(header), &decoded))
	assert.Equal(t, "0xHASH", decoded.TxHash)
	assert.Equal(t, "0xFROM", decoded.From)
}
