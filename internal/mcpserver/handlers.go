package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
// Every failure is returned as a tool-level error result; a handler
// never returns a Go error, so one bad call cannot take down the
// serving loop.
type Handlers struct {
	client *IndexyClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *IndexyClient) *Handlers {
	return &Handlers{client: client}
}

// HandleCreateIndex creates a new index from the full argument set.
func (h *Handlers) HandleCreateIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if getArgString(args, "name") == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	if args["assets"] == nil {
		return mcp.NewToolResultError("assets is required"), nil
	}

	raw, err := h.client.CreateIndex(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create index: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleUpdateIndex patches an index; indexId goes into the path, the
// remaining arguments form the request body.
func (h *Handlers) HandleUpdateIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	indexID, err := extractIndexID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := make(map[string]any, len(args))
	for k, v := range args {
		if k == "indexId" {
			continue
		}
		body[k] = v
	}

	raw, err := h.client.UpdateIndex(ctx, indexID, body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update index: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleListMyIndexes lists the account's own indexes.
func (h *Handlers) HandleListMyIndexes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListMyIndexes(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list indexes: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetIndex fetches one of the account's indexes.
func (h *Handlers) HandleGetIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	indexID, err := extractIndexID(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.client.GetIndex(ctx, indexID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get index: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetPublicIndexes browses the public index list.
func (h *Handlers) HandleGetPublicIndexes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	featured := ""
	if v, ok := args["featured"]; ok {
		if b, ok := v.(bool); ok {
			featured = strconv.FormatBool(b)
		}
	}
	limit := req.GetInt("limit", 20)
	offset := req.GetInt("offset", 0)

	raw, err := h.client.GetPublicIndexes(ctx, featured, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get public indexes: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetPublicIndex fetches a single public index.
func (h *Handlers) HandleGetPublicIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	indexID, err := extractIndexID(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.client.GetPublicIndex(ctx, indexID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get public index: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetKPIsCoins queries coin KPI data.
func (h *Handlers) HandleGetKPIsCoins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbols := req.GetString("symbols", "")
	limit := req.GetInt("limit", 0)

	raw, err := h.client.GetKPIsCoins(ctx, symbols, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get coin KPIs: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetMindshareCoins queries coin mindshare data.
func (h *Handlers) HandleGetMindshareCoins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbols := req.GetString("symbols", "")
	limit := req.GetInt("limit", 0)

	raw, err := h.client.GetMindshareCoins(ctx, symbols, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get coin mindshare: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleGetProfile fetches the account profile.
func (h *Handlers) HandleGetProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.GetProfile(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get profile: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// HandleUpdateProfile updates the account profile with the full argument set.
func (h *Handlers) HandleUpdateProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.UpdateProfile(ctx, req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update profile: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// --- Helpers ---

// extractIndexID pulls indexId from the arguments and renders it as a
// path segment. JSON numbers arrive as float64.
func extractIndexID(args map[string]any) (string, error) {
	v, ok := args["indexId"]
	if !ok {
		return "", fmt.Errorf("indexId is required")
	}
	switch id := v.(type) {
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case string:
		if id == "" {
			return "", fmt.Errorf("indexId is required")
		}
		return id, nil
	default:
		return "", fmt.Errorf("indexId must be a number")
	}
}

func getArgString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func formatJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
