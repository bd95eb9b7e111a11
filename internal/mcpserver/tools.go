package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the Indexy MCP server.
// Descriptions are what the LLM reads to decide which tool to use.
// Names and shapes are part of the public surface; do not rename.

var assetItems = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"symbol": map[string]any{
			"type":        "string",
			"description": "Token symbol, e.g. 'BTC' or 'VIRTUAL'",
		},
		"weight": map[string]any{
			"type":        "number",
			"description": "Portfolio weight in percent; all weights must sum to 100",
		},
	},
	"required": []string{"symbol", "weight"},
}

var ToolCreateIndex = mcp.NewTool("create_index",
	mcp.WithDescription(
		"Create a new token index on Indexy. "+
			"An index is a weighted basket of tokens; weights must sum to 100. "+
			"Token eligibility is validated server-side."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Display name of the index")),
	mcp.WithString("description",
		mcp.Description("What this index tracks and why")),
	mcp.WithArray("assets",
		mcp.Required(),
		mcp.Description("Tokens in the basket with their weights"),
		mcp.Items(assetItems)),
	mcp.WithString("rebalanceInterval",
		mcp.Description("How often the index rebalances: 'daily', 'weekly', or 'monthly'"),
		mcp.Enum("daily", "weekly", "monthly")),
)

var ToolUpdateIndex = mcp.NewTool("update_index",
	mcp.WithDescription(
		"Update an existing index you own. "+
			"Only the fields you pass are changed; weight and eligibility rules are re-checked server-side."),
	mcp.WithNumber("indexId",
		mcp.Required(),
		mcp.Description("ID of the index to update")),
	mcp.WithString("name",
		mcp.Description("New display name")),
	mcp.WithString("description",
		mcp.Description("New description")),
	mcp.WithArray("assets",
		mcp.Description("Replacement token basket"),
		mcp.Items(assetItems)),
	mcp.WithString("rebalanceInterval",
		mcp.Description("New rebalance interval"),
		mcp.Enum("daily", "weekly", "monthly")),
)

var ToolListMyIndexes = mcp.NewTool("list_my_indexes",
	mcp.WithDescription(
		"List the indexes owned by the authenticated account, with their current composition and status."),
)

var ToolGetIndex = mcp.NewTool("get_index",
	mcp.WithDescription(
		"Get one of your indexes by ID, including assets, weights, and performance data."),
	mcp.WithNumber("indexId",
		mcp.Required(),
		mcp.Description("ID of the index")),
)

var ToolGetPublicIndexes = mcp.NewTool("get_public_indexes",
	mcp.WithDescription(
		"Browse publicly listed indexes on Indexy. Supports pagination and a featured filter."),
	mcp.WithBoolean("featured",
		mcp.Description("Only return featured indexes")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of indexes to return (default 20)")),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset (default 0)")),
)

var ToolGetPublicIndex = mcp.NewTool("get_public_index",
	mcp.WithDescription(
		"Get a single public index by ID, including composition and performance."),
	mcp.WithNumber("indexId",
		mcp.Required(),
		mcp.Description("ID of the public index")),
)

var ToolGetKPIsCoins = mcp.NewTool("get_kpis_coins",
	mcp.WithDescription(
		"Query KPI data (price, market cap, volume, performance) for coins tracked by Indexy."),
	mcp.WithString("symbols",
		mcp.Description("Comma-separated token symbols to filter by, e.g. 'BTC,ETH'")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of coins to return")),
)

var ToolGetMindshareCoins = mcp.NewTool("get_mindshare_coins",
	mcp.WithDescription(
		"Query social mindshare data for coins tracked by Indexy. "+
			"Mindshare reflects how much attention a token currently receives."),
	mcp.WithString("symbols",
		mcp.Description("Comma-separated token symbols to filter by")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of coins to return")),
)

var ToolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription(
		"Get the authenticated account's Indexy profile."),
)

var ToolUpdateProfile = mcp.NewTool("update_profile",
	mcp.WithDescription(
		"Update the authenticated account's Indexy profile. Only the fields you pass are changed."),
	mcp.WithString("displayName",
		mcp.Description("Public display name")),
	mcp.WithString("bio",
		mcp.Description("Short profile bio")),
	mcp.WithString("avatarUrl",
		mcp.Description("URL of the profile avatar image")),
)
