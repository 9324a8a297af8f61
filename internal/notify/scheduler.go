// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package notify

import (
	"context"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/tejzpr/nearspot/internal/lifecycle"
	"github.com/tejzpr/nearspot/internal/permission"
)

// newHandle mints a unique notification handle
func newHandle() string {
	return uuid.NewString()
}

// NearbySearchURL is the deep-link target for background notifications
const NearbySearchURL = "https://www.google.com/maps/search/nearby"

// backgroundDeepLink is the webview deep link carried by every
// background notification. Every message in the pool points at the
// same nearby-search screen.
const backgroundDeepLink = "nearspot://webview?url=" + NearbySearchURL + "&title=주변 장소 탐색"

// BackgroundScheduler schedules a bounded notification burst on
// background entry and wholly invalidates it on foreground return.
// Scheduling and cancellation are best effort, never fatal.
type BackgroundScheduler struct {
	primitive   Primitive
	permissions *permission.Manager
	messages    []string
	burstCount  int
	burstGapSec int
}

// NewBackgroundScheduler creates the scheduler. The message pool must
// not be empty.
func NewBackgroundScheduler(primitive Primitive, permissions *permission.Manager, messages []string, burstCount, burstGapSec int) *BackgroundScheduler {
	return &BackgroundScheduler{
		primitive:   primitive,
		permissions: permissions,
		messages:    messages,
		burstCount:  burstCount,
		burstGapSec: burstGapSec,
	}
}

// Attach subscribes to the lifecycle notifier. The permission state
// machine subscribes independently; relative ordering is unspecified.
func (b *BackgroundScheduler) Attach(notifier *lifecycle.Notifier) {
	notifier.Subscribe(func(prev, next lifecycle.State) {
		switch {
		case prev == lifecycle.Active && next == lifecycle.Background:
			b.OnBackground()
		case prev == lifecycle.Background && next == lifecycle.Active:
			b.OnForeground(context.Background())
		}
	})
}

// OnBackground cancels any previous batch and schedules a fresh burst.
// A failed cancel must not prevent the schedule attempt.
func (b *BackgroundScheduler) OnBackground() {
	if err := b.primitive.CancelAll(); err != nil {
		log.Printf("failed to cancel previous notification batch: %v", err)
	}

	scheduled := 0
	for i := 1; i <= b.burstCount; i++ {
		message := b.messages[rand.Intn(len(b.messages))]
		content := Content{
			Title: "📍 주변 장소 알림",
			Body:  message,
			Data: map[string]string{
				TypeKey:     "background_recommendation",
				DeepLinkKey: backgroundDeepLink,
			},
		}

		if _, err := b.primitive.ScheduleAt(b.burstGapSec*i, content); err != nil {
			log.Printf("failed to schedule notification %d: %v", i, err)
			continue
		}
		scheduled++
	}

	log.Printf("scheduled %d background notifications at %ds intervals", scheduled, b.burstGapSec)
}

// OnForeground cancels the whole pending batch (it was only valid
// while away) and re-checks permissions.
func (b *BackgroundScheduler) OnForeground(ctx context.Context) {
	if err := b.primitive.CancelAll(); err != nil {
		log.Printf("failed to cancel background notifications: %v", err)
	}
	b.permissions.OnForegroundResume(ctx)
}

// HandleTap extracts the deep-link payload from a tapped notification
// and hands it to the navigation layer. No other business logic.
func HandleTap(data map[string]string, navigate func(url string)) {
	url, ok := data[DeepLinkKey]
	if !ok || url == "" {
		return
	}
	navigate(url)
}
