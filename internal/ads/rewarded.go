// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ads manages the rewarded-ad unlock path for the daily
// recommendation quota. Ads are shown only on explicit user action.
package ads

import (
	"log"
	"sync"
	"time"
)

// Events are the callbacks a Network delivers for one loaded ad
type Events struct {
	OnLoaded       func()
	OnEarnedReward func()
	OnClosed       func()
	OnError        func(err error)
}

// Network is the ad-network port. Load prepares one ad and reports its
// lifecycle through Events; Show presents the most recently loaded ad.
type Network interface {
	Load(events Events)
	Show() error
}

// Rewarded keeps one ad loaded, reloading with backoff after it closes
// or errors, and runs the reward callback at most once per show.
type Rewarded struct {
	network     Network
	closeReload time.Duration
	errorReload time.Duration

	mu       sync.Mutex
	loaded   bool
	onReward func()
	stopped  bool
	timer    *time.Timer
}

// NewRewarded creates the manager and starts loading the first ad
func NewRewarded(network Network, closeReload, errorReload time.Duration) *Rewarded {
	r := &Rewarded{
		network:     network,
		closeReload: closeReload,
		errorReload: errorReload,
	}
	r.load()
	return r
}

// load requests a fresh ad from the network
func (r *Rewarded) load() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.loaded = false
	r.mu.Unlock()

	r.network.Load(Events{
		OnLoaded: func() {
			r.mu.Lock()
			r.loaded = true
			r.mu.Unlock()
		},
		OnEarnedReward: func() {
			r.mu.Lock()
			cb := r.onReward
			r.onReward = nil
			r.mu.Unlock()
			if cb != nil {
				cb()
			}
		},
		OnClosed: func() {
			r.mu.Lock()
			r.loaded = false
			r.mu.Unlock()
			r.reloadAfter(r.closeReload)
		},
		OnError: func(err error) {
			log.Printf("rewarded ad failed: %v", err)
			r.mu.Lock()
			r.loaded = false
			r.mu.Unlock()
			r.reloadAfter(r.errorReload)
		},
	})
}

// reloadAfter schedules the next load attempt
func (r *Rewarded) reloadAfter(delay time.Duration) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(delay, r.load)
	r.mu.Unlock()
}

// Ready reports whether an ad is loaded and showable
func (r *Rewarded) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Show presents the loaded ad and arms the reward callback. Returns
// false when no ad is ready; the callback fires at most once.
func (r *Rewarded) Show(onRewardEarned func()) bool {
	r.mu.Lock()
	if !r.loaded {
		r.mu.Unlock()
		log.Printf("rewarded ad not loaded yet")
		return false
	}
	r.onReward = onRewardEarned
	r.mu.Unlock()

	if err := r.network.Show(); err != nil {
		log.Printf("rewarded ad show failed: %v", err)
		r.mu.Lock()
		r.onReward = nil
		r.loaded = false
		r.mu.Unlock()
		r.reloadAfter(r.errorReload)
		return false
	}
	return true
}

// Stop cancels any pending reload timer
func (r *Rewarded) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
