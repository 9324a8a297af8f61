// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ads

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNetwork records loads and lets tests drive ad lifecycle events
type fakeNetwork struct {
	mu        sync.Mutex
	events    []Events
	showErr   error
	showCalls int
}

func (f *fakeNetwork) Load(events Events) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events)
}

func (f *fakeNetwork) Show() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showCalls++
	return f.showErr
}

func (f *fakeNetwork) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeNetwork) lastEvents() Events {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

func TestRewarded_LoadsOnCreation(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, time.Millisecond, time.Millisecond)
	defer r.Stop()

	assert.Equal(t, 1, net.loadCount())
	assert.False(t, r.Ready())

	net.lastEvents().OnLoaded()
	assert.True(t, r.Ready())
}

func TestRewarded_ShowBeforeLoadedReturnsFalse(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, time.Millisecond, time.Millisecond)
	defer r.Stop()

	rewarded := false
	assert.False(t, r.Show(func() { rewarded = true }))
	assert.False(t, rewarded)
	assert.Equal(t, 0, net.showCalls)
}

func TestRewarded_RewardCallbackFiresOnce(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, time.Millisecond, time.Millisecond)
	defer r.Stop()

	net.lastEvents().OnLoaded()

	rewards := 0
	require.True(t, r.Show(func() { rewards++ }))

	ev := net.lastEvents()
	ev.OnEarnedReward()
	ev.OnEarnedReward()
	assert.Equal(t, 1, rewards, "reward callback must fire at most once per show")
}

func TestRewarded_ReloadsAfterClose(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, 5*time.Millisecond, time.Hour)
	defer r.Stop()

	net.lastEvents().OnLoaded()
	require.True(t, r.Show(func() {}))
	net.lastEvents().OnClosed()

	assert.False(t, r.Ready())
	assert.Eventually(t, func() bool {
		return net.loadCount() == 2
	}, time.Second, time.Millisecond, "a new ad loads shortly after close")
}

func TestRewarded_ReloadsAfterError(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, time.Hour, 5*time.Millisecond)
	defer r.Stop()

	net.lastEvents().OnError(errors.New("no fill"))

	assert.Eventually(t, func() bool {
		return net.loadCount() == 2
	}, time.Second, time.Millisecond, "a new ad loads after the error backoff")
}

func TestRewarded_ShowErrorDisarmsReward(t *testing.T) {
	net := &fakeNetwork{showErr: errors.New("not ready")}
	r := NewRewarded(net, time.Hour, time.Hour)
	defer r.Stop()

	net.lastEvents().OnLoaded()

	rewarded := false
	assert.False(t, r.Show(func() { rewarded = true }))

	net.lastEvents().OnEarnedReward()
	assert.False(t, rewarded)
}

func TestRewarded_StopCancelsReload(t *testing.T) {
	net := &fakeNetwork{}
	r := NewRewarded(net, 50*time.Millisecond, 50*time.Millisecond)

	net.lastEvents().OnClosed()
	r.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, net.loadCount(), "no reloads after Stop")
}
