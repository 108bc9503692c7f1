// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sections

// Direction for Move.
type Direction int

const (
	Up Direction = iota
	Down
)

// Toggle enables or disables k. Disabling removes it wherever it is.
// Enabling appends it, except countdown which goes right after hero (or
// first when hero is disabled). The input slice is not modified.
func Toggle(enabled []Key, k Key) []Key {
	out := make([]Key, 0, len(enabled)+1)
	if Contains(enabled, k) {
		for _, have := range enabled {
			if have != k {
				out = append(out, have)
			}
		}
		return out
	}

	if k != KeyCountdown {
		out = append(out, enabled...)
		return append(out, k)
	}

	at := 0
	for i, have := range enabled {
		if have == KeyHero {
			at = i + 1
			break
		}
	}
	out = append(out, enabled[:at]...)
	out = append(out, k)
	return append(out, enabled[at:]...)
}

// Move swaps the section at index with its neighbour in direction d.
// Out-of-range moves return an unchanged copy.
func Move(enabled []Key, index int, d Direction) []Key {
	out := make([]Key, len(enabled))
	copy(out, enabled)

	target := index - 1
	if d == Down {
		target = index + 1
	}
	if index < 0 || index >= len(out) || target < 0 || target >= len(out) {
		return out
	}
	out[index], out[target] = out[target], out[index]
	return out
}
