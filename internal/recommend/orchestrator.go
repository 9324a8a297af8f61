// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package recommend runs the periodic recommendation cycle: quota
// check, service call, session de-duplication, transient result
// emission. At most one cycle is in flight at any time.
package recommend

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tejzpr/nearspot/internal/ads"
	"github.com/tejzpr/nearspot/internal/gemini"
	"github.com/tejzpr/nearspot/internal/geo"
	"github.com/tejzpr/nearspot/internal/place"
	"github.com/tejzpr/nearspot/internal/store"
	"github.com/tejzpr/nearspot/pkg/scheduler"
)

// PositionSource reads the latest known position at call time. The
// orchestrator must never capture a position value across its long
// timer period; it reads through this live reference on every cycle.
type PositionSource func() (geo.Position, bool)

// Sink receives every emitted cycle result
type Sink func(result place.Result)

// DisplayTimings is the transient result lifetime: fade in, hold,
// fade out, then the result is cleared regardless of interaction.
type DisplayTimings struct {
	FadeIn  time.Duration
	Hold    time.Duration
	FadeOut time.Duration
}

// total returns the full display lifetime
func (d DisplayTimings) total() time.Duration {
	return d.FadeIn + d.Hold + d.FadeOut
}

// Orchestrator drives recommendation cycles on a long fixed period,
// gated on a position existing.
type Orchestrator struct {
	client   gemini.Client
	quota    *store.QuotaStore
	position PositionSource
	rewarded *ads.Rewarded // nil when monetization is disabled
	display  DisplayTimings
	runner   *scheduler.Runner

	mu         sync.Mutex
	fetching   bool
	seen       *place.SeenSet
	current    *place.Result
	clearTimer *time.Timer
	sinks      []Sink
	gatedOnce  bool
}

// NewOrchestrator creates an orchestrator. rewarded may be nil.
func NewOrchestrator(client gemini.Client, quota *store.QuotaStore, position PositionSource, rewarded *ads.Rewarded, interval time.Duration, display DisplayTimings) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		quota:    quota,
		position: position,
		rewarded: rewarded,
		display:  display,
		seen:     place.NewSeenSet(),
	}
	o.runner = scheduler.NewRunner(interval, false, func(ctx context.Context) {
		o.runCycle(ctx, false)
	})
	return o
}

// Start begins the cycle timer. The first cycle does not wait for the
// timer; it fires through OnPositionAvailable as soon as a position
// exists.
func (o *Orchestrator) Start(ctx context.Context) {
	o.runner.Start(ctx)
}

// Stop cancels the cycle timer and any pending result-clear timer
func (o *Orchestrator) Stop() {
	o.runner.Stop()
	o.mu.Lock()
	if o.clearTimer != nil {
		o.clearTimer.Stop()
		o.clearTimer = nil
	}
	o.mu.Unlock()
}

// OnPositionAvailable triggers the immediate first cycle once the
// position gate opens. Subsequent position updates are no-ops; the
// timer owns the cadence from then on.
func (o *Orchestrator) OnPositionAvailable(ctx context.Context) {
	o.mu.Lock()
	if o.gatedOnce {
		o.mu.Unlock()
		return
	}
	o.gatedOnce = true
	o.mu.Unlock()

	go o.runCycle(ctx, false)
}

// RecommendNow runs one cycle on explicit user request, subject to the
// same quota and single-flight rules as a timer tick.
func (o *Orchestrator) RecommendNow(ctx context.Context) *place.Result {
	return o.runCycle(ctx, false)
}

// UnlockViaReward shows a rewarded ad and, when the reward is earned,
// runs one quota-exempt cycle. Only invoked on explicit user action.
// Returns false when monetization is off or no ad is loaded.
func (o *Orchestrator) UnlockViaReward(ctx context.Context) bool {
	if o.rewarded == nil {
		return false
	}
	return o.rewarded.Show(func() {
		o.runCycle(ctx, true)
	})
}

// Subscribe registers a sink for emitted results
func (o *Orchestrator) Subscribe(sink Sink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sinks = append(o.sinks, sink)
}

// Current returns the result still inside its display lifetime, or nil
func (o *Orchestrator) Current() *place.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// SeenCount returns the size of the session's recommended set
func (o *Orchestrator) SeenCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seen.Len()
}

// runCycle executes one idle -> fetching -> {success, failure} -> idle
// pass. Returns the emitted result, or nil when the cycle was skipped
// (no position, quota exhausted, or another cycle in flight).
func (o *Orchestrator) runCycle(ctx context.Context, quotaExempt bool) *place.Result {
	// The position gate: no cycle without a location fix
	pos, ok := o.position()
	if !ok {
		return nil
	}

	o.mu.Lock()
	if o.fetching {
		// A cycle is in flight; this tick is dropped, not queued
		o.mu.Unlock()
		return nil
	}
	o.fetching = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.fetching = false
		o.mu.Unlock()
	}()

	if !quotaExempt {
		canUse, err := o.quota.CanUseFree()
		if err != nil {
			log.Printf("quota check failed: %v", err)
			return nil
		}
		if !canUse {
			// Exhausted: no service call, no UI change
			return nil
		}
		if err := o.quota.IncrementUsage(); err != nil {
			log.Printf("quota increment failed: %v", err)
			return nil
		}
	}

	// Read the position again through the live reference: the check
	// above may predate a fresher sample
	if latest, ok := o.position(); ok {
		pos = latest
	}

	recommended, err := o.client.RecommendPlace(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		log.Printf("recommendation fetch failed: %v", err)
		return o.emit(place.Result{Success: false})
	}
	if recommended == nil {
		return o.emit(place.Result{Success: false})
	}

	o.mu.Lock()
	isNew := o.seen.Add(recommended.Name)
	o.mu.Unlock()
	if !isNew {
		log.Printf("duplicate recommendation %q; marker set unchanged", recommended.Name)
	}

	// A duplicate still reports success so the user gets feedback;
	// only the marker set stays unchanged
	return o.emit(place.Result{Success: true, Place: recommended})
}

// emit publishes a transient result and schedules its clearing after
// the display lifetime
func (o *Orchestrator) emit(result place.Result) *place.Result {
	o.mu.Lock()
	o.current = &result
	if o.clearTimer != nil {
		o.clearTimer.Stop()
	}
	o.clearTimer = time.AfterFunc(o.display.total(), func() {
		o.mu.Lock()
		o.current = nil
		o.mu.Unlock()
	})
	sinks := make([]Sink, len(o.sinks))
	copy(sinks, o.sinks)
	o.mu.Unlock()

	for _, sink := range sinks {
		sink(result)
	}
	return &result
}
