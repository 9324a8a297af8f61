// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package geo defines the geolocation provider port consumed by the
// location poller. The device-facing implementation lives outside the
// core; tests and the default wiring use MockProvider.
package geo

import (
	"context"
	"errors"
	"time"
)

// Position is the latest known device position. It is held as a single
// overwritten slot and never persisted.
type Position struct {
	Latitude   float64
	Longitude  float64
	CapturedAt time.Time
}

// Sentinel errors surfaced by providers
var (
	// ErrPermissionDenied indicates location access is not granted
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrPositionUnavailable indicates the provider could not produce a fix
	ErrPositionUnavailable = errors.New("position unavailable")
)

// PermissionResult is the outcome of a provider-level permission request
type PermissionResult string

const (
	PermissionGranted PermissionResult = "granted"
	PermissionDenied  PermissionResult = "denied"
)

// Provider exposes device geolocation to the core
type Provider interface {
	// RequestPermission asks the OS for foreground location access
	RequestPermission(ctx context.Context) (PermissionResult, error)

	// GetLastKnown returns a cached position fast path, or
	// ErrPositionUnavailable when no cached fix exists
	GetLastKnown(ctx context.Context) (Position, error)

	// GetCurrentPosition resolves a fresh position fix
	GetCurrentPosition(ctx context.Context) (Position, error)
}

// MockProvider is a scriptable implementation for tests and headless wiring
type MockProvider struct {
	RequestPermissionFunc  func(ctx context.Context) (PermissionResult, error)
	GetLastKnownFunc       func(ctx context.Context) (Position, error)
	GetCurrentPositionFunc func(ctx context.Context) (Position, error)
	CurrentCalls           int
}

// RequestPermission calls the mock function
func (m *MockProvider) RequestPermission(ctx context.Context) (PermissionResult, error) {
	if m.RequestPermissionFunc != nil {
		return m.RequestPermissionFunc(ctx)
	}
	return PermissionGranted, nil
}

// GetLastKnown calls the mock function
func (m *MockProvider) GetLastKnown(ctx context.Context) (Position, error) {
	if m.GetLastKnownFunc != nil {
		return m.GetLastKnownFunc(ctx)
	}
	return Position{}, ErrPositionUnavailable
}

// GetCurrentPosition calls the mock function
func (m *MockProvider) GetCurrentPosition(ctx context.Context) (Position, error) {
	m.CurrentCalls++
	if m.GetCurrentPositionFunc != nil {
		return m.GetCurrentPositionFunc(ctx)
	}
	return Position{}, ErrPositionUnavailable
}
