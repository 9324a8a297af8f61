// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/nearspot/internal/config"
	"github.com/tejzpr/nearspot/internal/tools"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
}

// NewMCPServer creates a new MCP server instance and registers the
// nearspot tools against the given dependencies.
func NewMCPServer(cfg *config.Config, toolCtx *tools.ToolContext) *MCPServer {
	mcpServer := server.NewMCPServer(
		"Nearspot",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer: mcpServer,
		config:    cfg,
	}
	srv.registerTools(toolCtx)
	return srv
}

// registerTools registers all nearspot MCP tools
func (s *MCPServer) registerTools(toolCtx *tools.ToolContext) {
	// nearspot_recommend_now: one immediate cycle on the free quota
	s.mcpServer.AddTool(tools.NewRecommendNowTool(), tools.RecommendNowHandler(toolCtx))

	// nearspot_unlock_recommend: rewarded-ad unlock for one extra cycle
	s.mcpServer.AddTool(tools.NewUnlockRecommendTool(), tools.UnlockRecommendHandler(toolCtx))

	// nearspot_save_memo: tag-then-save, no partial write
	s.mcpServer.AddTool(tools.NewSaveMemoTool(), tools.SaveMemoHandler(toolCtx))

	// nearspot_get_memo: one place's memo, or all of them
	s.mcpServer.AddTool(tools.NewGetMemoTool(), tools.GetMemoHandler(toolCtx))

	// nearspot_remove_memo: idempotent delete
	s.mcpServer.AddTool(tools.NewRemoveMemoTool(), tools.RemoveMemoHandler(toolCtx))

	// nearspot_quota_status: today's free-use counter
	s.mcpServer.AddTool(tools.NewQuotaStatusTool(), tools.QuotaStatusHandler(toolCtx))

	// nearspot_position: latest fix and sampling state
	s.mcpServer.AddTool(tools.NewPositionTool(), tools.PositionHandler(toolCtx))
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
