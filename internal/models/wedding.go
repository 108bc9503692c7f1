// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// WeddingStatus is the publication state of a wedding site.
type WeddingStatus string

const (
	StatusDraft          WeddingStatus = "draft"
	StatusPendingPayment WeddingStatus = "pending_payment"
	StatusLive           WeddingStatus = "live"
)

// transitions lists the allowed status changes. Live is terminal.
var transitions = map[WeddingStatus][]WeddingStatus{
	StatusDraft:          {StatusPendingPayment, StatusLive},
	StatusPendingPayment: {StatusLive, StatusDraft},
	StatusLive:           {},
}

// Valid reports whether s is a known status.
func (s WeddingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a wedding may move from s to next.
func (s WeddingStatus) CanTransition(next WeddingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the platform invoice for a wedding.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentNotApplicable PaymentStatus = "na"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentNotApplicable:
		return true
	}
	return false
}

// slugRe is the allowed slug shape; slugs double as subdomain labels.
var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s can be used as a wedding slug.
func ValidSlug(s string) bool {
	return len(s) <= 63 && slugRe.MatchString(s) && s != "www" && s != "app"
}

// Wedding is a tenant: one couple's site.
type Wedding struct {
	ID              uuid.UUID                  `json:"id"`
	Name            string                     `json:"name"`
	Slug            string                     `json:"slug"`
	Status          WeddingStatus              `json:"status"`
	TemplateID      string                     `json:"template_id"`
	TemplateVersion string                     `json:"template_version"`
	EnabledSections []string                   `json:"enabled_sections"`
	SectionContent  map[string]json.RawMessage `json:"section_content"`
	Theme           theme.Theme                `json:"theme"`
	PaymentStatus   PaymentStatus              `json:"payment_status"`
	CoupleEmails    []string                   `json:"couple_emails"`
	LogoLightKey    *string                    `json:"logo_light_key,omitempty"`
	LogoDarkKey     *string                    `json:"logo_dark_key,omitempty"`
	WeddingDate     *string                    `json:"wedding_date,omitempty"` // yyyy-MM-dd
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// IsLive returns true once the site is published.
func (w *Wedding) IsLive() bool {
	return w.Status == StatusLive
}

// IsDraft returns true while the site is still being set up.
func (w *Wedding) IsDraft() bool {
	return w.Status == StatusDraft
}

// HasCoupleEmail reports whether email belongs to the couple, ignoring case.
func (w *Wedding) HasCoupleEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, e := range w.CoupleEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// Sections decodes the stored section data for rendering.
func (w *Wedding) Sections() sections.Bundle {
	return sections.Decode(w.EnabledSections, w.SectionContent)
}

// Date returns the wedding date or "".
func (w *Wedding) Date() string {
	if w.WeddingDate == nil {
		return ""
	}
	return *w.WeddingDate
}
