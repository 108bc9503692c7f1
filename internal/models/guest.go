package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVPStatus is a guest's answer.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// Guest is someone who answered (or was invited to answer) a wedding's RSVP.
// A phone number identifies a guest within one wedding.
type Guest struct {
	ID              uuid.UUID  `json:"id"`
	WeddingID       uuid.UUID  `json:"wedding_id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	RSVPStatus      RSVPStatus `json:"rsvp_status"`
	PlusOnes        int        `json:"plus_ones"`
	Dietary         string     `json:"dietary,omitempty"`
	WhatsappConsent bool       `json:"whatsapp_consent"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GuestStats summarizes RSVP answers for a wedding.
type GuestStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Declined  int `json:"declined"`
	Pending   int `json:"pending"`
	Attending int `json:"attending"` // confirmed guests plus their plus-ones
}

// GuestImport reports a bulk import. Guests whose phone is already on the
// list are skipped.
type GuestImport struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
