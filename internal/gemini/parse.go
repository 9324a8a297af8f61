// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gemini

import "encoding/json"

// FirstJSONObject extracts the first top-level JSON object from free
// text, tolerating prose and markdown fences around it. Returns nil
// when no parseable object exists; that is not an error condition.
func FirstJSONObject(text string) []byte {
	return firstBalanced(text, '{', '}')
}

// FirstJSONArray extracts the first top-level JSON array from free text
func FirstJSONArray(text string) []byte {
	return firstBalanced(text, '[', ']')
}

// firstBalanced scans for the first balanced open..close span that
// validates as JSON, skipping brackets inside string literals
func firstBalanced(text string, open, closing byte) []byte {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case closing:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidate := []byte(text[start : i+1])
				if json.Valid(candidate) {
					return candidate
				}
				// Malformed span; keep scanning after it
				start = -1
			}
		}
	}

	return nil
}
