// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lifecycle models the app foreground/background signal as an
// explicit observable with edge-triggered subscribers.
package lifecycle

import "sync"

// State is the coarse app-lifecycle state
type State string

const (
	// Active means the app is foregrounded
	Active State = "active"
	// Background covers both the OS "inactive" and "background" states
	Background State = "background"
)

// Callback receives the previous and next state on every transition
type Callback func(prev, next State)

// Notifier fans lifecycle transitions out to subscribers. Subscriber
// ordering is unspecified and must not be relied on.
type Notifier struct {
	mu          sync.Mutex
	state       State
	subscribers []Callback
}

// NewNotifier creates a notifier starting in the Active state
func NewNotifier() *Notifier {
	return &Notifier{state: Active}
}

// State returns the current lifecycle state
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Subscribe registers an edge-triggered callback. Callbacks fire only
// on actual transitions, never on same-state updates.
func (n *Notifier) Subscribe(cb Callback) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, cb)
}

// Set transitions to the given state, notifying subscribers on change
func (n *Notifier) Set(next State) {
	n.mu.Lock()
	prev := n.state
	if prev == next {
		n.mu.Unlock()
		return
	}
	n.state = next
	subs := make([]Callback, len(n.subscribers))
	copy(subs, n.subscribers)
	n.mu.Unlock()

	for _, cb := range subs {
		cb(prev, next)
	}
}
