// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewSaveMemoTool creates the nearspot_save_memo tool definition
func NewSaveMemoTool() mcp.Tool {
	return mcp.NewTool("nearspot_save_memo",
		mcp.WithDescription("Save a memo about a place. The memo content is tagged automatically; if tagging fails nothing is saved and the memo should be retried. Saving again for the same place replaces the previous memo."),
		mcp.WithString("place_name",
			mcp.Required(),
			mcp.Description("Name of the place the memo is about"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The memo text"),
		),
	)
}

// SaveMemoHandler handles the nearspot_save_memo tool
func SaveMemoHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		placeName, err := request.RequireString("place_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if strings.TrimSpace(placeName) == "" || strings.TrimSpace(content) == "" {
			return mcp.NewToolResultError("place_name and content cannot be empty"), nil
		}

		// Tag first; an empty list is how a non-conforming model
		// reply surfaces, so it counts as failure too. Nothing is
		// saved unless tagging produced tags — a retry starts clean.
		hashtags, err := ctx.Gemini.TagMemo(c, content, placeName)
		if err != nil || len(hashtags) == 0 {
			return mcp.NewToolResultError("memo tagging failed; nothing was saved, please retry"), nil
		}

		if err := ctx.Memos.SaveMemo(placeName, content, hashtags, time.Now()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to save memo: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Memo saved for %q with tags: %s", placeName, strings.Join(hashtags, " "))), nil
	}
}

// NewGetMemoTool creates the nearspot_get_memo tool definition
func NewGetMemoTool() mcp.Tool {
	return mcp.NewTool("nearspot_get_memo",
		mcp.WithDescription("Retrieve the memo saved for a place, or list all saved memos when no place is given."),
		mcp.WithString("place_name",
			mcp.Description("Name of the place. Omit to list every saved memo."),
		),
	)
}

// GetMemoHandler handles the nearspot_get_memo tool
func GetMemoHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		placeName := request.GetString("place_name", "")
		if placeName == "" {
			memos, err := ctx.Memos.ListMemos()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to list memos: %v", err)), nil
			}
			if len(memos) == 0 {
				return mcp.NewToolResultText("No memos saved yet."), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Saved memos (%d):\n", len(memos))
			for _, m := range memos {
				fmt.Fprintf(&b, "- %s: %s\n", m.PlaceName, m.Content)
			}
			return mcp.NewToolResultText(b.String()), nil
		}

		memo, err := ctx.Memos.GetMemo(placeName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get memo: %v", err)), nil
		}
		if memo == nil {
			return mcp.NewToolResultText(fmt.Sprintf("No memo saved for %q.", placeName)), nil
		}

		text := fmt.Sprintf("Memo for %s:\n%s", memo.PlaceName, memo.Content)
		if len(memo.Hashtags) > 0 {
			text += "\nTags: " + strings.Join(memo.Hashtags, " ")
		}
		return mcp.NewToolResultText(text), nil
	}
}

// NewRemoveMemoTool creates the nearspot_remove_memo tool definition
func NewRemoveMemoTool() mcp.Tool {
	return mcp.NewTool("nearspot_remove_memo",
		mcp.WithDescription("Delete the memo saved for a place. Removing a place with no memo is not an error."),
		mcp.WithString("place_name",
			mcp.Required(),
			mcp.Description("Name of the place whose memo should be removed"),
		),
	)
}

// RemoveMemoHandler handles the nearspot_remove_memo tool
func RemoveMemoHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		placeName, err := request.RequireString("place_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Memos.RemoveMemo(placeName); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to remove memo: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Memo for %q removed.", placeName)), nil
	}
}
