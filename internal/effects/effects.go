// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package effects is the boundary between guest-facing forms and anything
// that changes the outside world: recording RSVPs, pledging gifts, sending
// verification codes. Handlers obtain capabilities only through a Gate, and
// a preview request always receives the simulated set.
package effects

import (
	"context"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
)

// RSVP is a verified guest's answer.
type RSVP struct {
	WeddingID       uuid.UUID
	Name            string
	Phone           string
	Email           string
	Attending       bool
	PlusOnes        int
	Dietary         string
	WhatsappConsent bool
}

// Status maps the answer to the stored RSVP status.
func (r RSVP) Status() models.RSVPStatus {
	if r.Attending {
		return models.RSVPConfirmed
	}
	return models.RSVPDeclined
}

// Pledge is a guest's contribution towards a gift.
type Pledge struct {
	WeddingID   uuid.UUID
	GiftID      string
	GuestName   string
	Phone       string
	AmountCents int64
}

// RSVPResult is the outcome of recording an RSVP.
type RSVPResult struct {
	Guest     *models.Guest
	Simulated bool
}

// PledgeResult is the outcome of a contribution.
type PledgeResult struct {
	Contribution *models.GiftContribution
	Simulated    bool
}

// RSVPRecorder stores guest answers.
type RSVPRecorder interface {
	Record(ctx context.Context, r RSVP) (RSVPResult, error)
}

// Payments takes gift contributions.
type Payments interface {
	Contribute(ctx context.Context, p Pledge) (PledgeResult, error)
}

// Messenger delivers verification codes to guests.
type Messenger interface {
	SendCode(ctx context.Context, weddingName, phone, code string) error
}

// Codes issues and checks guest verification codes.
type Codes interface {
	Issue(ctx context.Context, weddingID uuid.UUID, phone string) (string, error)
	Verify(ctx context.Context, weddingID uuid.UUID, phone, code string) error
}

// Set is one complete group of capabilities.
type Set struct {
	RSVPs     RSVPRecorder
	Payments  Payments
	Messenger Messenger
	Codes     Codes
	Simulated bool
}

// Gate hands out capabilities. Live is used for public requests only.
type Gate struct {
	Live Set
}

// For returns the capabilities for a request. Preview requests get the
// simulated set regardless of what Live holds.
func (g Gate) For(preview bool) Set {
	if preview {
		return Simulated()
	}
	return g.Live
}

func modeLabel(simulated bool) string {
	if simulated {
		return "simulated"
	}
	return "live"
}
