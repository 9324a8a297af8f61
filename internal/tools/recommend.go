// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewRecommendNowTool creates the nearspot_recommend_now tool definition
func NewRecommendNowTool() mcp.Tool {
	return mcp.NewTool("nearspot_recommend_now",
		mcp.WithDescription("Request a place recommendation near the current position right now. Counts against the free daily allotment. Returns nothing when the allotment is used up, no position is known yet, or a request is already in flight."),
	)
}

// RecommendNowHandler handles the nearspot_recommend_now tool
func RecommendNowHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := ctx.Orchestrator.RecommendNow(c)
		if result == nil {
			used, limit, err := ctx.Quota.Status()
			if err == nil && used >= limit {
				return mcp.NewToolResultText(fmt.Sprintf("Daily free recommendations used up (%d/%d). Use nearspot_unlock_recommend to get one more.", used, limit)), nil
			}
			return mcp.NewToolResultText("No recommendation right now: either no position fix yet or a request is already running."), nil
		}
		if !result.Success {
			return mcp.NewToolResultText("The recommendation service did not return a usable place. Try again shortly."), nil
		}

		p := result.Place
		text := fmt.Sprintf("Recommended place: %s\nCategory: %s\nRating: %.1f\nDescription: %s",
			p.Name, p.Category, p.Rating, p.Description)
		return mcp.NewToolResultText(text), nil
	}
}

// NewUnlockRecommendTool creates the nearspot_unlock_recommend tool definition
func NewUnlockRecommendTool() mcp.Tool {
	return mcp.NewTool("nearspot_unlock_recommend",
		mcp.WithDescription("Unlock one extra recommendation after the free daily allotment is used up. Shows a rewarded ad; the extra recommendation runs once the reward is earned."),
	)
}

// UnlockRecommendHandler handles the nearspot_unlock_recommend tool
func UnlockRecommendHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !ctx.Orchestrator.UnlockViaReward(c) {
			return mcp.NewToolResultError("no rewarded ad is loaded yet; try again in a few seconds"), nil
		}
		return mcp.NewToolResultText("Rewarded ad shown. An extra recommendation will appear once the reward is earned."), nil
	}
}
