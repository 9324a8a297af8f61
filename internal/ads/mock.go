// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ads

import "sync"

// MockNetwork is an ad network with injectable behavior. With no
// overrides set, every Load reports loaded immediately and every Show
// earns the reward and then closes.
type MockNetwork struct {
	LoadFunc func(events Events)
	ShowFunc func() error

	mu        sync.Mutex
	events    Events
	LoadCalls int
	ShowCalls int
}

func (m *MockNetwork) Load(events Events) {
	m.mu.Lock()
	m.LoadCalls++
	m.events = events
	m.mu.Unlock()
	if m.LoadFunc != nil {
		m.LoadFunc(events)
		return
	}
	if events.OnLoaded != nil {
		events.OnLoaded()
	}
}

func (m *MockNetwork) Show() error {
	m.mu.Lock()
	m.ShowCalls++
	events := m.events
	m.mu.Unlock()
	if m.ShowFunc != nil {
		return m.ShowFunc()
	}
	if events.OnEarnedReward != nil {
		events.OnEarnedReward()
	}
	if events.OnClosed != nil {
		events.OnClosed()
	}
	return nil
}
