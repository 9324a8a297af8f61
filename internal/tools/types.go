// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"github.com/tejzpr/nearspot/internal/gemini"
	"github.com/tejzpr/nearspot/internal/location"
	"github.com/tejzpr/nearspot/internal/recommend"
	"github.com/tejzpr/nearspot/internal/store"
)

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	Memos        *store.MemoStore
	Quota        *store.QuotaStore
	Gemini       gemini.Client
	Orchestrator *recommend.Orchestrator
	Poller       *location.Poller
}

// NewToolContext creates a new tool context
func NewToolContext(memos *store.MemoStore, quota *store.QuotaStore, client gemini.Client, orch *recommend.Orchestrator, poller *location.Poller) *ToolContext {
	return &ToolContext{
		Memos:        memos,
		Quota:        quota,
		Gemini:       client,
		Orchestrator: orch,
		Poller:       poller,
	}
}
