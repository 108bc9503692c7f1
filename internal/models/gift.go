package models

import (
	"time"

	"github.com/google/uuid"
)

// ContributionStatus tracks a gift pledge.
type ContributionStatus string

const (
	ContributionPending   ContributionStatus = "pending"
	ContributionSucceeded ContributionStatus = "succeeded"
	ContributionFailed    ContributionStatus = "failed"
)

// GiftContribution is a guest's pledge towards an item of the gift list.
type GiftContribution struct {
	ID          uuid.UUID          `json:"id"`
	WeddingID   uuid.UUID          `json:"wedding_id"`
	GiftID      string             `json:"gift_id"`
	GuestName   string             `json:"guest_name"`
	Phone       string             `json:"phone,omitempty"`
	AmountCents int64              `json:"amount_cents"`
	Status      ContributionStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// GiftTotal aggregates contributions for one gift.
type GiftTotal struct {
	GiftID       string `json:"gift_id"`
	PledgedCents int64  `json:"pledged_cents"`
	Count        int    `json:"count"`
}
