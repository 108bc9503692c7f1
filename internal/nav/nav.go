// Package nav derives a wedding page's navigation bar from its sections.
package nav

import "github.com/roblesbraun/braunstudio/internal/sections"

// Item is one navigation link.
type Item struct {
	Key   sections.Key
	Label string
	Href  string
}

// order is the curated display order. Hero, countdown and photos are never
// linked from the navbar.
var order = []sections.Key{
	sections.KeyItinerary,
	sections.KeyLocation,
	sections.KeyLodging,
	sections.KeyDressCode,
	sections.KeyGifts,
	sections.KeyRSVP,
}

var defaultLabels = map[sections.Key]string{
	sections.KeyHero:      "Home",
	sections.KeyCountdown: "Countdown",
	sections.KeyItinerary: "Itinerary",
	sections.KeyPhotos:    "Photos",
	sections.KeyLocation:  "Location",
	sections.KeyLodging:   "Lodging",
	sections.KeyDressCode: "Dress Code",
	sections.KeyGifts:     "Gifts",
	sections.KeyRSVP:      "RSVP",
}

// DefaultLabel returns the static label for a section.
func DefaultLabel(k sections.Key) string {
	return defaultLabels[k]
}

// Build returns the nav items for the enabled sections. The result order
// comes from the curated list, not from enabled.
func Build(enabled []sections.Key, content sections.Contents) []Item {
	var items []Item
	for _, k := range order {
		if !sections.Contains(enabled, k) {
			continue
		}
		label := content.Title(k)
		if label == "" {
			label = defaultLabels[k]
		}
		items = append(items, Item{Key: k, Label: label, Href: "#" + string(k)})
	}
	return items
}
