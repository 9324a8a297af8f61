// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notify schedules the background notification burst that
// bridges the gap while the app is away, and routes notification taps
// back into the app via their deep-link payload.
package notify

import "sync"

// Handle identifies one scheduled notification
type Handle string

// Content is the notification payload handed to the primitive
type Content struct {
	Title string
	Body  string
	Data  map[string]string
}

// DeepLinkKey is the Data key carrying the tap deep link
const DeepLinkKey = "deepLinkUrl"

// TypeKey tags the notification kind in Data
const TypeKey = "type"

// Primitive is the OS local-notification port
type Primitive interface {
	// ScheduleAt schedules one notification offsetSeconds from now
	ScheduleAt(offsetSeconds int, content Content) (Handle, error)

	// CancelAll cancels every pending scheduled notification
	CancelAll() error
}

// MockPrimitive is an in-memory primitive for tests and headless wiring
type MockPrimitive struct {
	mu        sync.Mutex
	pending   map[Handle]scheduled
	order     []Handle
	failNext  error
	cancelErr error
}

type scheduled struct {
	OffsetSeconds int
	Content       Content
}

// NewMockPrimitive creates an empty mock primitive
func NewMockPrimitive() *MockPrimitive {
	return &MockPrimitive{pending: make(map[Handle]scheduled)}
}

// ScheduleAt records a pending notification
func (m *MockPrimitive) ScheduleAt(offsetSeconds int, content Content) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}
	h := Handle(newHandle())
	m.pending[h] = scheduled{OffsetSeconds: offsetSeconds, Content: content}
	m.order = append(m.order, h)
	return h, nil
}

// CancelAll drops every pending notification
func (m *MockPrimitive) CancelAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.pending = make(map[Handle]scheduled)
	m.order = nil
	return nil
}

// PendingCount returns the number of pending notifications
func (m *MockPrimitive) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// PendingOffsets returns the offsets of pending notifications in
// scheduling order
func (m *MockPrimitive) PendingOffsets() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	offsets := make([]int, 0, len(m.order))
	for _, h := range m.order {
		offsets = append(offsets, m.pending[h].OffsetSeconds)
	}
	return offsets
}

// PendingContents returns the contents of pending notifications in
// scheduling order
func (m *MockPrimitive) PendingContents() []Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents := make([]Content, 0, len(m.order))
	for _, h := range m.order {
		contents = append(contents, m.pending[h].Content)
	}
	return contents
}

// FailNextSchedule makes the next ScheduleAt call return err
func (m *MockPrimitive) FailNextSchedule(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// FailCancel makes CancelAll return err until cleared
func (m *MockPrimitive) FailCancel(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelErr = err
}
