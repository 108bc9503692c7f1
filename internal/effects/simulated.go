// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package effects

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/guestauth"
	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/models"
)

// SimulatedCode is the code "sent" on preview pages.
const SimulatedCode = "000000"

// Simulated returns the capability set used by previews. Nothing it does
// leaves the process.
func Simulated() Set {
	return Set{
		RSVPs:     simRSVPs{},
		Payments:  simPayments{},
		Messenger: simMessenger{},
		Codes:     simCodes{},
		Simulated: true,
	}
}

type simRSVPs struct{}

func (simRSVPs) Record(_ context.Context, r RSVP) (RSVPResult, error) {
	metrics.Effects.WithLabelValues("rsvps.record", modeLabel(true)).Inc()
	now := time.Now()
	return RSVPResult{
		Guest: &models.Guest{
			WeddingID:  r.WeddingID,
			Name:       r.Name,
			Phone:      r.Phone,
			Email:      r.Email,
			RSVPStatus: r.Status(),
			PlusOnes:   r.PlusOnes,
			Dietary:    r.Dietary,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Simulated: true,
	}, nil
}

type simPayments struct{}

func (simPayments) Contribute(_ context.Context, p Pledge) (PledgeResult, error) {
	metrics.Effects.WithLabelValues("payments.contribute", modeLabel(true)).Inc()
	return PledgeResult{
		Contribution: &models.GiftContribution{
			WeddingID:   p.WeddingID,
			GiftID:      p.GiftID,
			GuestName:   p.GuestName,
			Phone:       p.Phone,
			AmountCents: p.AmountCents,
			Status:      models.ContributionPending,
			CreatedAt:   time.Now(),
		},
		Simulated: true,
	}, nil
}

type simMessenger struct{}

func (simMessenger) SendCode(context.Context, string, string, string) error {
	metrics.Effects.WithLabelValues("messenger.send_code", modeLabel(true)).Inc()
	return nil
}

// simCodes always issues SimulatedCode and accepts only it.
type simCodes struct{}

func (simCodes) Issue(context.Context, uuid.UUID, string) (string, error) {
	metrics.Effects.WithLabelValues("codes.issue", modeLabel(true)).Inc()
	return SimulatedCode, nil
}

func (simCodes) Verify(_ context.Context, _ uuid.UUID, _, code string) error {
	metrics.Effects.WithLabelValues("codes.verify", modeLabel(true)).Inc()
	if code != SimulatedCode {
		return guestauth.ErrInvalidCode
	}
	return nil
}
