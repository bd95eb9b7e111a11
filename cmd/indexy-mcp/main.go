// Indexy MCP Server - Exposes the Indexy index-management API as MCP tools for LLMs
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/indexy-ai/indexy-mcp/internal/auth"
	"github.com/indexy-ai/indexy-mcp/internal/config"
	"github.com/indexy-ai/indexy-mcp/internal/logging"
	"github.com/indexy-ai/indexy-mcp/internal/mcpserver"
	"github.com/indexy-ai/indexy-mcp/internal/wallet"
	"github.com/indexy-ai/indexy-mcp/pkg/x402"
)

// Build info - set by ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("starting indexy-mcp",
		"version", Version,
		"commit", Commit,
		"api_url", cfg.APIURL,
	)

	// Wallet loading and strategy selection happen here, before the
	// serving loop: no tool call is dispatched unauthenticated.
	provider, err := auth.NewProvider(cfg)
	if err != nil {
		logger.Error("authentication setup failed", "error", err)
		os.Exit(1)
	}

	clientOpts := []mcpserver.Option{mcpserver.WithLogger(logger)}

	if id, ok := auth.WalletIdentity(provider); ok {
		logger.Info("wallet loaded",
			"address", id.Address(),
			"chain", cfg.WalletChain,
			"auth_mode", string(provider.Mode()),
		)

		// Optional x402 collaborator: when it cannot be set up, paid
		// endpoints simply surface their 402 as a request failure.
		tr, err := wallet.NewTransactor(id, wallet.TransactorConfig{
			RPCURL:       cfg.RPCURL,
			ChainID:      cfg.ChainID,
			USDCContract: cfg.USDCContract,
		})
		if err != nil {
			logger.Warn("x402 payment client unavailable, paid endpoints will return 402", "error", err)
		} else {
			pay := x402.NewClient(x402.NewTransferSettler(tr))
			pay.MaxPayment = cfg.X402MaxPayment
			pay.OnPayment = func(req *x402.PaymentRequirement, proof *x402.PaymentProof) {
				logger.Info("settled 402 payment",
					"price", req.Price,
					"recipient", req.Recipient,
					"tx", proof.TxHash,
				)
			}
			clientOpts = append(clientOpts, mcpserver.WithDoer(pay))
		}
	} else {
		logger.Info("using API key authentication", "auth_mode", string(provider.Mode()))
	}

	client := mcpserver.NewIndexyClient(cfg.APIURL, provider, clientOpts...)

	s := mcpserver.NewMCPServer(client, Version)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
