// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package permission tracks per-capability device permission state.
// State is driven purely from the permission authority; it is never
// inferred, and any authority error is treated as denied.
package permission

import (
	"context"
	"log"
	"sync"
)

// Status is the tracked permission state for one capability
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusGranted Status = "granted"
	StatusDenied  Status = "denied"
)

// Capability identifies an independently-permissioned device feature
type Capability string

const (
	CapabilityLocation      Capability = "location"
	CapabilityNotifications Capability = "notifications"
)

// Authority is the OS permission port. Status can change outside the
// app (the user visits OS settings), so it must be re-read on resume.
type Authority interface {
	// GetStatus reads the current status without triggering an OS dialog
	GetStatus(ctx context.Context, cap Capability) (Status, error)

	// Request triggers the OS permission dialog
	Request(ctx context.Context, cap Capability) (Status, error)
}

// Prompter surfaces the "open OS settings" alert to the user
type Prompter interface {
	PromptOpenSettings(cap Capability)
}

// PrompterFunc adapts a function to the Prompter interface
type PrompterFunc func(cap Capability)

// PromptOpenSettings calls the function
func (f PrompterFunc) PromptOpenSettings(cap Capability) { f(cap) }

// StatusListener observes capability status transitions. Listeners
// fire only on an actual change, with the previous and new status.
type StatusListener func(cap Capability, prev, next Status)

// Manager is the permission state machine for all capabilities
type Manager struct {
	authority Authority
	prompter  Prompter

	mu       sync.Mutex
	statuses map[Capability]Status
	// requestedOnce suppresses the settings alert on the first denial per
	// cold start, to avoid double-prompting right after the OS dialog
	requestedOnce map[Capability]bool
	listeners     []StatusListener
}

// NewManager creates a manager with all capabilities in StatusUnknown
func NewManager(authority Authority, prompter Prompter) *Manager {
	return &Manager{
		authority:     authority,
		prompter:      prompter,
		statuses:      make(map[Capability]Status),
		requestedOnce: make(map[Capability]bool),
	}
}

// SubscribeStatus registers a listener for status transitions. A
// revoked location grant is how the poller learns to stop.
func (m *Manager) SubscribeStatus(l StatusListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// setStatus records a new status and fires listeners on change. The
// caller must not hold the mutex.
func (m *Manager) setStatus(cap Capability, next Status) {
	m.mu.Lock()
	prev, ok := m.statuses[cap]
	if !ok {
		prev = StatusUnknown
	}
	m.statuses[cap] = next
	listeners := make([]StatusListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if prev == next {
		return
	}
	for _, l := range listeners {
		l(cap, prev, next)
	}
}

// Status returns the tracked status for a capability
func (m *Manager) Status(cap Capability) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.statuses[cap]; ok {
		return s
	}
	return StatusUnknown
}

// Ensure requests the capability if it has not been resolved yet and
// returns the resulting status. The first denial per cold start is
// silent; subsequent denials prompt the user toward OS settings.
// Authority errors are logged and fail closed to denied.
func (m *Manager) Ensure(ctx context.Context, cap Capability) Status {
	m.mu.Lock()
	current, ok := m.statuses[cap]
	m.mu.Unlock()

	status := current
	if !ok || current == StatusUnknown {
		s, err := m.authority.Request(ctx, cap)
		if err != nil {
			log.Printf("permission request failed for %s: %v", cap, err)
			s = StatusDenied
		}
		status = s
	} else if current == StatusDenied {
		// Re-request: the only path from denied back to granted
		s, err := m.authority.Request(ctx, cap)
		if err != nil {
			log.Printf("permission request failed for %s: %v", cap, err)
			s = StatusDenied
		}
		status = s
	}

	m.mu.Lock()
	firstDenial := !m.requestedOnce[cap]
	m.requestedOnce[cap] = true
	m.mu.Unlock()
	m.setStatus(cap, status)

	if status != StatusGranted && !firstDenial {
		m.prompter.PromptOpenSettings(cap)
	}

	return status
}

// OnForegroundResume re-reads every capability's status via GetStatus,
// never Request, so the OS dialog is not re-triggered. A capability
// found denied prompts toward OS settings.
func (m *Manager) OnForegroundResume(ctx context.Context) {
	for _, cap := range []Capability{CapabilityLocation, CapabilityNotifications} {
		m.resync(ctx, cap)
	}
}

func (m *Manager) resync(ctx context.Context, cap Capability) {
	status, err := m.authority.GetStatus(ctx, cap)
	if err != nil {
		log.Printf("permission status check failed for %s: %v", cap, err)
		status = StatusDenied
	}

	m.setStatus(cap, status)

	if status != StatusGranted {
		m.prompter.PromptOpenSettings(cap)
	}
}
