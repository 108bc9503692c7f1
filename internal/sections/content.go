// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sections

// Content is one decoded section record. The set of implementations is
// closed: only the record types in this package satisfy it.
type Content interface {
	Key() Key
	heading() string
}

// Hero is the full-height opening banner.
type Hero struct {
	Title           string `json:"title,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	Date            string `json:"date,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	CTAText         string `json:"ctaText,omitempty"`
	CTALink         string `json:"ctaLink,omitempty"`
}

// ItineraryItem is one event of the wedding day.
type ItineraryItem struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Itinerary lists the events of the day in order.
type Itinerary struct {
	Title string          `json:"title,omitempty"`
	Items []ItineraryItem `json:"items"`
}

// Image is a single gallery photo.
type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Photos is the couple's gallery.
type Photos struct {
	Title  string  `json:"title,omitempty"`
	Images []Image `json:"images"`
}

// Location describes the venue.
type Location struct {
	Title      string `json:"title,omitempty"`
	VenueName  string `json:"venueName"`
	Address    string `json:"address"`
	MapURL     string `json:"mapUrl,omitempty"`
	Directions string `json:"directions,omitempty"`
}

// LodgingItem is a recommended hotel.
type LodgingItem struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Lodging lists hotels near the venue.
type Lodging struct {
	Title string        `json:"title,omitempty"`
	Items []LodgingItem `json:"items"`
}

// DressCode describes the expected attire.
type DressCode struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
}

// Gift modes.
const (
	GiftModeWishlist = "wishlist"
	GiftModeGifts    = "gifts"
)

// GiftItem is a gift guests can contribute towards.
type GiftItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PriceInCents int64  `json:"priceInCents"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ExternalURL  string `json:"externalUrl,omitempty"`
}

// Gifts is either a link to an external wishlist or an internal gift list.
type Gifts struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Mode        string     `json:"mode"`
	WishlistURL string     `json:"wishlistUrl,omitempty"`
	Items       []GiftItem `json:"items,omitempty"`
}

// Item returns the gift with the given id, or nil.
func (g *Gifts) Item(id string) *GiftItem {
	if g == nil {
		return nil
	}
	for i := range g.Items {
		if g.Items[i].ID == id {
			return &g.Items[i]
		}
	}
	return nil
}

// RSVP holds the copy around the attendance form.
type RSVP struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

func (*Hero) Key() Key      { return KeyHero }
func (*Itinerary) Key() Key { return KeyItinerary }
func (*Photos) Key() Key    { return KeyPhotos }
func (*Location) Key() Key  { return KeyLocation }
func (*Lodging) Key() Key   { return KeyLodging }
func (*DressCode) Key() Key { return KeyDressCode }
func (*Gifts) Key() Key     { return KeyGifts }
func (*RSVP) Key() Key      { return KeyRSVP }

func (c *Hero) heading() string      { return c.Title }
func (c *Itinerary) heading() string { return c.Title }
func (c *Photos) heading() string    { return c.Title }
func (c *Location) heading() string  { return c.Title }
func (c *Lodging) heading() string   { return c.Title }
func (c *DressCode) heading() string { return c.Title }
func (c *Gifts) heading() string     { return c.Title }
func (c *RSVP) heading() string      { return c.Title }

// newRecord returns an empty record for k, or nil for keys without content.
func newRecord(k Key) Content {
	switch k {
	case KeyHero:
		return &Hero{}
	case KeyItinerary:
		return &Itinerary{}
	case KeyPhotos:
		return &Photos{}
	case KeyLocation:
		return &Location{}
	case KeyLodging:
		return &Lodging{}
	case KeyDressCode:
		return &DressCode{}
	case KeyGifts:
		return &Gifts{Mode: GiftModeWishlist}
	case KeyRSVP:
		return &RSVP{}
	}
	return nil
}

// Contents maps section keys to their decoded records. A missing key means
// the section has no content.
type Contents map[Key]Content

// Title returns the content-provided heading for k, or "".
func (c Contents) Title(k Key) string {
	if v, ok := c[k]; ok && v != nil {
		return v.heading()
	}
	return ""
}

func (c Contents) Hero() *Hero {
	v, _ := c[KeyHero].(*Hero)
	return v
}

func (c Contents) Itinerary() *Itinerary {
	v, _ := c[KeyItinerary].(*Itinerary)
	return v
}

func (c Contents) Photos() *Photos {
	v, _ := c[KeyPhotos].(*Photos)
	return v
}

func (c Contents) Location() *Location {
	v, _ := c[KeyLocation].(*Location)
	return v
}

func (c Contents) Lodging() *Lodging {
	v, _ := c[KeyLodging].(*Lodging)
	return v
}

func (c Contents) DressCode() *DressCode {
	v, _ := c[KeyDressCode].(*DressCode)
	return v
}

func (c Contents) Gifts() *Gifts {
	v, _ := c[KeyGifts].(*Gifts)
	return v
}

func (c Contents) RSVP() *RSVP {
	v, _ := c[KeyRSVP].(*RSVP)
	return v
}
