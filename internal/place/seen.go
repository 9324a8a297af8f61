// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package place

// SeenSet is the session-scoped set of recommended place names used
// for de-duplication. It is not persisted; a process restart starts
// from an empty set.
type SeenSet struct {
	names map[string]struct{}
}

// NewSeenSet creates an empty session set
func NewSeenSet() *SeenSet {
	return &SeenSet{names: make(map[string]struct{})}
}

// Add records a place name and reports whether it was new
func (s *SeenSet) Add(name string) bool {
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// Contains reports whether a name was already recommended this session
func (s *SeenSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct recommended places this session
func (s *SeenSet) Len() int {
	return len(s.names)
}
