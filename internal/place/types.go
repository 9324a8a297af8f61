// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package place holds the recommendation domain types shared by the
// orchestrator, the gemini client and the control surface.
package place

// Place is a recommended point of interest. Immutable once created;
// Name is the identity key (case-sensitive exact match).
type Place struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Result is the transient outcome of one recommendation cycle. It is
// displayed for a fixed lifetime and then cleared; it is never stored.
type Result struct {
	Success bool   `json:"success"`
	Place   *Place `json:"place,omitempty"`
}
