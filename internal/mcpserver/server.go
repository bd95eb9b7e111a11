package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all Indexy tools
// and documentation resources registered. The client carries the
// authentication strategy; by the time this runs, wallet loading has
// already completed.
func NewMCPServer(client *IndexyClient, version string) *server.MCPServer {
	s := server.NewMCPServer("indexy", version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)
	h := NewHandlers(client)

	s.AddTool(ToolCreateIndex, h.HandleCreateIndex)
	s.AddTool(ToolUpdateIndex, h.HandleUpdateIndex)
	s.AddTool(ToolListMyIndexes, h.HandleListMyIndexes)
	s.AddTool(ToolGetIndex, h.HandleGetIndex)
	s.AddTool(ToolGetPublicIndexes, h.HandleGetPublicIndexes)
	s.AddTool(ToolGetPublicIndex, h.HandleGetPublicIndex)
	s.AddTool(ToolGetKPIsCoins, h.HandleGetKPIsCoins)
	s.AddTool(ToolGetMindshareCoins, h.HandleGetMindshareCoins)
	s.AddTool(ToolGetProfile, h.HandleGetProfile)
	s.AddTool(ToolUpdateProfile, h.HandleUpdateProfile)

	registerResources(s)

	return s
}
