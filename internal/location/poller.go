// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package location samples the device position on a fixed period and
// holds the latest known fix as a single last-writer-wins slot.
package location

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tejzpr/nearspot/internal/geo"
	"github.com/tejzpr/nearspot/pkg/scheduler"
)

// Availability distinguishes "no fix yet" from "tried and failed"
type Availability string

const (
	// NotSampled means no sample has resolved yet
	NotSampled Availability = "not_sampled"
	// Available means a position is held
	Available Availability = "available"
	// Unavailable means both the fast path and a fresh sample failed;
	// a user-triggered Retry is the way out
	Unavailable Availability = "unavailable"
)

// Subscriber receives every successful position update
type Subscriber func(pos geo.Position)

// Poller periodically samples the provider. It must only be started
// after location permission is granted.
type Poller struct {
	provider geo.Provider
	runner   *scheduler.Runner

	mu           sync.Mutex
	latest       geo.Position
	availability Availability
	subscribers  []Subscriber
}

// NewPoller creates a poller sampling at the given interval
func NewPoller(provider geo.Provider, interval time.Duration) *Poller {
	p := &Poller{
		provider:     provider,
		availability: NotSampled,
	}
	p.runner = scheduler.NewRunner(interval, false, p.tick)
	return p
}

// Start seeds the position from the last-known fast path and begins
// periodic sampling. The seed reduces time to first render; if it
// fails the first accurate sample decides availability.
func (p *Poller) Start(ctx context.Context) {
	if seed, err := p.provider.GetLastKnown(ctx); err == nil {
		p.publish(seed)
	} else {
		log.Printf("no last-known position: %v", err)
	}

	p.runner.Start(ctx)

	// First accurate sample fires immediately rather than one period out
	go p.sample(ctx)
}

// Stop releases the poll timer deterministically
func (p *Poller) Stop() {
	p.runner.Stop()
}

// tick is one scheduled sampling attempt
func (p *Poller) tick(ctx context.Context) {
	p.sample(ctx)
}

// sample requests a fresh position. On failure the tick is skipped and
// the previous position, if any, stays authoritative.
func (p *Poller) sample(ctx context.Context) {
	pos, err := p.provider.GetCurrentPosition(ctx)
	if err != nil {
		log.Printf("position sample failed: %v", err)
		p.mu.Lock()
		if p.availability == NotSampled {
			p.availability = Unavailable
		}
		p.mu.Unlock()
		return
	}
	p.publish(pos)
}

// Retry is the user-triggered escape from the Unavailable state
func (p *Poller) Retry(ctx context.Context) {
	p.sample(ctx)
}

// publish overwrites the held position and fans it out to subscribers
func (p *Poller) publish(pos geo.Position) {
	p.mu.Lock()
	p.latest = pos
	p.availability = Available
	subs := make([]Subscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	for _, sub := range subs {
		sub(pos)
	}
}

// Subscribe registers a callback for every successful sample
func (p *Poller) Subscribe(sub Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, sub)
}

// Latest returns the held position and whether one exists. Long-lived
// consumers must call this at use time rather than capturing a value.
func (p *Poller) Latest() (geo.Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.availability == Available
}

// Availability returns the current sampling state
func (p *Poller) Availability() Availability {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availability
}
