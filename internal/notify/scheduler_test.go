// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/nearspot/internal/lifecycle"
	"github.com/tejzpr/nearspot/internal/permission"
)

func newScheduler(t *testing.T, primitive Primitive, count, gap int) (*BackgroundScheduler, *permission.MockAuthority) {
	t.Helper()
	auth := &permission.MockAuthority{}
	perms := permission.NewManager(auth, permission.PrompterFunc(func(cap permission.Capability) {}))
	messages, err := LoadMessages("")
	require.NoError(t, err)
	return NewBackgroundScheduler(primitive, perms, messages, count, gap), auth
}

func TestOnBackground_SchedulesBurst(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, _ := newScheduler(t, primitive, 50, 20)

	sched.OnBackground()

	assert.Equal(t, 50, primitive.PendingCount())

	offsets := primitive.PendingOffsets()
	require.Len(t, offsets, 50)
	for i, offset := range offsets {
		assert.Equal(t, 20*(i+1), offset, "offsets increase by the burst interval")
	}

	for _, content := range primitive.PendingContents() {
		assert.Equal(t, "background_recommendation", content.Data[TypeKey])
		assert.Equal(t, "nearspot://webview?url="+NearbySearchURL+"&title=주변 장소 탐색", content.Data[DeepLinkKey])
		assert.NotEmpty(t, content.Body)
	}
}

func TestForegroundReturn_CancelsWholeBatch(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, auth := newScheduler(t, primitive, 50, 20)

	notifier := lifecycle.NewNotifier()
	sched.Attach(notifier)

	notifier.Set(lifecycle.Background)
	require.Equal(t, 50, primitive.PendingCount())

	// Return before any notification fires: pending count drops to 0
	notifier.Set(lifecycle.Active)
	assert.Equal(t, 0, primitive.PendingCount())

	// Foreground return re-checks permissions via GetStatus
	assert.Equal(t, 2, auth.GetStatusCalls)
	assert.Equal(t, 0, auth.RequestCalls)
}

func TestOnBackground_ReplacesPriorBatch(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, _ := newScheduler(t, primitive, 10, 20)

	sched.OnBackground()
	sched.OnBackground()

	// Never partially edited: cancel-all then re-create
	assert.Equal(t, 10, primitive.PendingCount())
}

func TestOnBackground_FailedCancelStillSchedules(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, _ := newScheduler(t, primitive, 5, 20)

	primitive.FailCancel(errors.New("cancel broken"))
	sched.OnBackground()

	assert.Equal(t, 5, primitive.PendingCount(), "cancel failure must not prevent scheduling")
}

func TestOnBackground_ScheduleErrorIsNonFatal(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, _ := newScheduler(t, primitive, 5, 20)

	primitive.FailNextSchedule(errors.New("scheduling broken"))
	sched.OnBackground()

	// The failed slot is skipped; the rest of the burst lands
	assert.Equal(t, 4, primitive.PendingCount())
}

func TestOnForeground_CancelErrorIsNonFatal(t *testing.T) {
	primitive := NewMockPrimitive()
	sched, auth := newScheduler(t, primitive, 5, 20)

	primitive.FailCancel(errors.New("cancel broken"))
	sched.OnForeground(context.Background())

	// Permission re-check still runs
	assert.Equal(t, 2, auth.GetStatusCalls)
}

func TestHandleTap_ExtractsDeepLink(t *testing.T) {
	var navigated string
	HandleTap(map[string]string{
		TypeKey:     "background_recommendation",
		DeepLinkKey: "nearspot://webview?url=x",
	}, func(url string) { navigated = url })

	assert.Equal(t, "nearspot://webview?url=x", navigated)
}

func TestHandleTap_NoDeepLinkNoNavigation(t *testing.T) {
	navigated := false
	HandleTap(map[string]string{TypeKey: "other"}, func(url string) { navigated = true })
	assert.False(t, navigated)
}

func TestLoadMessages_Defaults(t *testing.T) {
	messages, err := LoadMessages("")
	require.NoError(t, err)
	assert.Len(t, messages, 8)
}
