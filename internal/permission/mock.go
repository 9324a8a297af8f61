// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package permission

import "context"

// MockAuthority is a scriptable authority for tests and headless wiring
type MockAuthority struct {
	GetStatusFunc func(ctx context.Context, cap Capability) (Status, error)
	RequestFunc   func(ctx context.Context, cap Capability) (Status, error)

	GetStatusCalls int
	RequestCalls   int
}

// GetStatus calls the mock function
func (m *MockAuthority) GetStatus(ctx context.Context, cap Capability) (Status, error) {
	m.GetStatusCalls++
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, cap)
	}
	return StatusGranted, nil
}

// Request calls the mock function
func (m *MockAuthority) Request(ctx context.Context, cap Capability) (Status, error) {
	m.RequestCalls++
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, cap)
	}
	return StatusGranted, nil
}
