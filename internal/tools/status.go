// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/nearspot/internal/location"
)

// NewQuotaStatusTool creates the nearspot_quota_status tool definition
func NewQuotaStatusTool() mcp.Tool {
	return mcp.NewTool("nearspot_quota_status",
		mcp.WithDescription("Show how many free recommendations were used today and how many remain."),
	)
}

// QuotaStatusHandler handles the nearspot_quota_status tool
func QuotaStatusHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		used, limit, err := ctx.Quota.Status()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read quota: %v", err)), nil
		}
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		return mcp.NewToolResultText(fmt.Sprintf("Free recommendations today: %d used of %d (%d remaining).", used, limit, remaining)), nil
	}
}

// NewPositionTool creates the nearspot_position tool definition
func NewPositionTool() mcp.Tool {
	return mcp.NewTool("nearspot_position",
		mcp.WithDescription("Show the latest known position and whether location sampling is currently working."),
	)
}

// PositionHandler handles the nearspot_position tool
func PositionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pos, ok := ctx.Poller.Latest()
		availability := ctx.Poller.Availability()

		var state string
		switch availability {
		case location.Available:
			state = "available"
		case location.Unavailable:
			state = "unavailable"
		default:
			state = "not sampled yet"
		}

		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("No position known yet (sampling: %s).", state)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Position: %.6f, %.6f (captured %s, sampling: %s)",
			pos.Latitude, pos.Longitude, pos.CapturedAt.Format("15:04:05"), state)), nil
	}
}
