// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sections defines the wedding page content schema: the closed set
// of section keys, one typed record per section, and the decoding and editor
// rules applied to a wedding's enabled sections and their stored content.
package sections

// Key identifies a section of a wedding page.
type Key string

// Known section keys. Countdown carries no content of its own; it is driven
// by the wedding date.
const (
	KeyHero      Key = "hero"
	KeyCountdown Key = "countdown"
	KeyItinerary Key = "itinerary"
	KeyPhotos    Key = "photos"
	KeyLocation  Key = "location"
	KeyLodging   Key = "lodging"
	KeyDressCode Key = "dressCode"
	KeyGifts     Key = "gifts"
	KeyRSVP      Key = "rsvp"
)

// CanonicalOrder is the fixed order in which content sections appear on a
// page for templates that do not honor the stored order.
var CanonicalOrder = []Key{
	KeyHero,
	KeyItinerary,
	KeyPhotos,
	KeyLocation,
	KeyLodging,
	KeyDressCode,
	KeyGifts,
	KeyRSVP,
}

var known = map[Key]bool{
	KeyHero:      true,
	KeyCountdown: true,
	KeyItinerary: true,
	KeyPhotos:    true,
	KeyLocation:  true,
	KeyLodging:   true,
	KeyDressCode: true,
	KeyGifts:     true,
	KeyRSVP:      true,
}

// DefaultEnabled returns the section list assigned to a new wedding.
func DefaultEnabled() []Key {
	out := make([]Key, len(CanonicalOrder))
	copy(out, CanonicalOrder)
	return out
}

// Valid reports whether k is one of the known section keys.
func (k Key) Valid() bool {
	return known[k]
}

// HasContent reports whether the section stores its own content record.
func (k Key) HasContent() bool {
	return k.Valid() && k != KeyCountdown
}

// ParseKey converts a stored string into a Key.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	return k, k.Valid()
}

// Strings converts keys back to their stored representation.
func Strings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// Contains reports whether keys includes k.
func Contains(keys []Key, k Key) bool {
	for _, have := range keys {
		if have == k {
			return true
		}
	}
	return false
}
