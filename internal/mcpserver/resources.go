package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Static documentation served verbatim by URI.

type resourceDoc struct {
	uri         string
	name        string
	description string
	text        string
}

var resourceDocs = []resourceDoc{
	{
		uri:         "indexy://docs/getting-started",
		name:        "Getting Started",
		description: "How to connect an agent to Indexy and create a first index",
		text: `# Getting Started with Indexy

Indexy lets AI agents create and manage token indexes: weighted
baskets of tokens that rebalance on a schedule.

## Quick start

1. Configure credentials (see the authentication doc). The easiest
   agent setup is a wallet private key.
2. Call ` + "`get_kpis_coins`" + ` or ` + "`get_mindshare_coins`" + ` to research tokens.
3. Call ` + "`create_index`" + ` with a name and an asset list. Weights are
   percentages and must sum to 100.
4. Track your indexes with ` + "`list_my_indexes`" + ` and ` + "`get_index`" + `.

## Example

    create_index {
      "name": "AI Majors",
      "assets": [
        {"symbol": "VIRTUAL", "weight": 60},
        {"symbol": "AI16Z",   "weight": 40}
      ],
      "rebalanceInterval": "weekly"
    }
`,
	},
	{
		uri:         "indexy://docs/authentication",
		name:        "Authentication",
		description: "The three supported authentication modes and their precedence",
		text: `# Authentication

Three modes are supported. When more than one is configured, the
server picks the first of:

1. **Wallet private key** (` + "`INDEXY_WALLET_PRIVATE_KEY`" + `): hex key,
   0x prefix optional. Each API call carries a freshly signed,
   timestamped message.
2. **Wallet keystore** (` + "`INDEXY_WALLET_KEYSTORE`" + ` +
   ` + "`INDEXY_WALLET_KEYSTORE_PASSWORD`" + `): an encrypted keystore file,
   decrypted once at startup.
3. **API key** (` + "`INDEXY_API_KEY`" + `): sent as a bearer token.

With no credentials configured the server refuses to start.

Wallet-signed requests carry the address, chain, signature, the
base64-encoded signed message, and the millisecond timestamp. The
remote API rejects stale timestamps, which is why signatures are
never reused between calls.
`,
	},
	{
		uri:         "indexy://docs/index-creation",
		name:        "Index Creation Rules",
		description: "Validation rules applied to create_index and update_index",
		text: `# Index Creation Rules

The Indexy API validates every create and update server-side:

- Asset weights are percentages and must sum to exactly 100.
- Every symbol must be an eligible, actively traded token; eligibility
  is checked against live market data at submission time.
- An index holds between 2 and 20 assets.
- ` + "`rebalanceInterval`" + ` is one of daily, weekly, monthly.

` + "`update_index`" + ` is a partial update: pass only the fields you want to
change. Passing ` + "`assets`" + ` replaces the whole basket and re-runs the
rules above.
`,
	},
	{
		uri:         "indexy://docs/api-reference",
		name:        "API Reference",
		description: "Tool-to-endpoint mapping for the Indexy MCP server",
		text: `# API Reference

| Tool                  | Method | Endpoint                      |
|-----------------------|--------|-------------------------------|
| create_index          | POST   | /api/indexes                  |
| update_index          | PATCH  | /api/indexes/{indexId}        |
| list_my_indexes       | GET    | /api/indexes                  |
| get_index             | GET    | /api/indexes/{indexId}        |
| get_public_indexes    | GET    | /api/public/indexes           |
| get_public_index      | GET    | /api/public/indexes/{indexId} |
| get_kpis_coins        | GET    | /api/kpis/coins               |
| get_mindshare_coins   | GET    | /api/mindshare/coins          |
| get_profile           | GET    | /api/profile                  |
| update_profile        | PUT    | /api/profile                  |

Responses are relayed verbatim as pretty-printed JSON. Errors from
the API are returned as tool errors carrying the HTTP status and the
raw response body.

Some endpoints are paid and answer 402 Payment Required. With a
wallet configured and an RPC endpoint reachable, payment is settled
automatically in USDC and the call retried; otherwise the 402 is
surfaced like any other API error.
`,
	},
}

func registerResources(s *server.MCPServer) {
	for _, doc := range resourceDocs {
		doc := doc
		s.AddResource(
			mcp.NewResource(doc.uri, doc.name,
				mcp.WithResourceDescription(doc.description),
				mcp.WithMIMEType("text/markdown"),
			),
			func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return []mcp.ResourceContents{
					mcp.TextResourceContents{
						URI:      doc.uri,
						MIMEType: "text/markdown",
						Text:     doc.text,
					},
				}, nil
			},
		)
	}
}
