// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package effects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/models"
)

// GuestWriter is the subset of store.GuestStore used for RSVPs.
type GuestWriter interface {
	RecordRSVP(ctx context.Context, g *models.Guest) (*models.Guest, error)
}

// GiftWriter is the subset of store.GiftStore used for pledges.
type GiftWriter interface {
	Record(ctx context.Context, c *models.GiftContribution) (*models.GiftContribution, error)
}

// StoreRSVPs records RSVPs in the guests table.
type StoreRSVPs struct {
	Guests GuestWriter
}

func (s StoreRSVPs) Record(ctx context.Context, r RSVP) (RSVPResult, error) {
	metrics.Effects.WithLabelValues("rsvps.record", modeLabel(false)).Inc()
	plusOnes := r.PlusOnes
	if !r.Attending {
		plusOnes = 0
	}
	g, err := s.Guests.RecordRSVP(ctx, &models.Guest{
		WeddingID:       r.WeddingID,
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		RSVPStatus:      r.Status(),
		PlusOnes:        plusOnes,
		Dietary:         r.Dietary,
		WhatsappConsent: r.WhatsappConsent,
	})
	if err != nil {
		return RSVPResult{}, fmt.Errorf("record rsvp: %w", err)
	}
	return RSVPResult{Guest: g}, nil
}

// LedgerPayments records pledges as pending ledger entries. Collecting the
// money happens outside the platform.
type LedgerPayments struct {
	Gifts GiftWriter
}

func (l LedgerPayments) Contribute(ctx context.Context, p Pledge) (PledgeResult, error) {
	metrics.Effects.WithLabelValues("payments.contribute", modeLabel(false)).Inc()
	c, err := l.Gifts.Record(ctx, &models.GiftContribution{
		WeddingID:   p.WeddingID,
		GiftID:      p.GiftID,
		GuestName:   p.GuestName,
		Phone:       p.Phone,
		AmountCents: p.AmountCents,
		Status:      models.ContributionPending,
	})
	if err != nil {
		return PledgeResult{}, fmt.Errorf("record pledge: %w", err)
	}
	return PledgeResult{Contribution: c}, nil
}

// LogMessenger writes codes to the log instead of sending them. The code is
// included only when LogCodes is set, which is meant for development.
type LogMessenger struct {
	LogCodes bool
}

func (m LogMessenger) SendCode(ctx context.Context, weddingName, phone, code string) error {
	metrics.Effects.WithLabelValues("messenger.send_code", modeLabel(false)).Inc()
	attrs := []any{"wedding", weddingName, "phone", MaskPhone(phone)}
	if m.LogCodes {
		attrs = append(attrs, "code", code)
	}
	slog.InfoContext(ctx, "guest verification code issued", attrs...)
	return nil
}

// MaskPhone keeps the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
