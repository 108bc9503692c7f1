package nav

import (
	"reflect"
	"testing"

	"github.com/roblesbraun/braunstudio/internal/sections"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		enabled []sections.Key
		content sections.Contents
		want    []Item
	}{
		{
			name:    "nothing enabled",
			enabled: nil,
			want:    nil,
		},
		{
			name:    "hero countdown photos never appear",
			enabled: []sections.Key{sections.KeyHero, sections.KeyCountdown, sections.KeyPhotos},
			want:    nil,
		},
		{
			name:    "curated order ignores stored order",
			enabled: []sections.Key{sections.KeyRSVP, sections.KeyGifts, sections.KeyItinerary},
			want: []Item{
				{sections.KeyItinerary, "Itinerary", "#itinerary"},
				{sections.KeyGifts, "Gifts", "#gifts"},
				{sections.KeyRSVP, "RSVP", "#rsvp"},
			},
		},
		{
			name:    "content titles override defaults",
			enabled: sections.CanonicalOrder,
			content: sections.Contents{
				sections.KeyDressCode: &sections.DressCode{Title: "What to wear"},
				sections.KeyLocation:  &sections.Location{},
			},
			want: []Item{
				{sections.KeyItinerary, "Itinerary", "#itinerary"},
				{sections.KeyLocation, "Location", "#location"},
				{sections.KeyLodging, "Lodging", "#lodging"},
				{sections.KeyDressCode, "What to wear", "#dressCode"},
				{sections.KeyGifts, "Gifts", "#gifts"},
				{sections.KeyRSVP, "RSVP", "#rsvp"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.enabled, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultLabel(t *testing.T) {
	if got := DefaultLabel(sections.KeyDressCode); got != "Dress Code" {
		t.Errorf("DefaultLabel(dressCode) = %q", got)
	}
	if got := DefaultLabel(sections.KeyHero); got != "Home" {
		t.Errorf("DefaultLabel(hero) = %q", got)
	}
}
