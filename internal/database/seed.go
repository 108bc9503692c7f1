// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	seedAdminEmail = "admin@braunstud.io"
	seedDemoSlug   = "sarah-and-john"
)

const demoEnabledSections = `["hero","countdown","itinerary","photos","location","lodging","dressCode","gifts","rsvp"]`

const demoSectionContent = `{
  "hero": {"title": "Sarah & John", "subtitle": "are getting married", "ctaText": "RSVP", "ctaLink": "#rsvp"},
  "itinerary": {"items": [
    {"time": "4:00 PM", "title": "Ceremony", "description": "Garden terrace"},
    {"time": "5:30 PM", "title": "Cocktail hour"},
    {"time": "7:00 PM", "title": "Dinner & dancing"}
  ]},
  "photos": {"images": [
    {"url": "https://images.braunstud.io/demo/1.jpg", "alt": "Sarah and John at the beach"},
    {"url": "https://images.braunstud.io/demo/2.jpg", "alt": "The proposal"},
    {"url": "https://images.braunstud.io/demo/3.jpg", "alt": "Engagement party"}
  ]},
  "location": {"venueName": "Villa Rosa", "address": "123 Vineyard Rd, Napa, CA", "mapUrl": "https://maps.google.com/?q=Villa+Rosa+Napa"},
  "lodging": {"items": [{"name": "Napa Inn", "address": "45 Main St, Napa, CA", "url": "https://napainn.example.com", "notes": "Use code SJ2026"}]},
  "dressCode": {"description": "**Garden formal.** Comfortable shoes recommended.", "examples": ["Suits", "Cocktail dresses"]},
  "gifts": {"mode": "gifts", "items": [
    {"id": "honeymoon", "name": "Honeymoon fund", "description": "Help us get to Lisbon", "priceInCents": 50000},
    {"id": "espresso", "name": "Espresso machine", "priceInCents": 24999}
  ]},
  "rsvp": {"description": "We can't wait to celebrate with you.", "deadline": "May 1, 2026"}
}`

// Seed populates the database with initial development data: a platform
// admin account and a live demo wedding. Both steps are skipped when the
// rows already exist.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedDemoWedding(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, seedAdminEmail, string(hash), "Admin", "platform_admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with platform admin",
		"email", seedAdminEmail,
		"password", "admin",
	)
	return nil
}

func seedDemoWedding(db *sql.DB) error {
	res, err := db.Exec(`
		INSERT INTO weddings (name, slug, status, template_id, template_version,
			enabled_sections, section_content, payment_status, couple_emails, wedding_date)
		VALUES ($1, $2, 'live', 'classic', 'v2', $3::jsonb, $4::jsonb, 'na', $5::jsonb, $6)
		ON CONFLICT (slug) DO NOTHING
	`, "Sarah & John", seedDemoSlug, demoEnabledSections, demoSectionContent,
		`["sarah@example.com","john@example.com"]`, "2026-06-14")
	if err != nil {
		return fmt.Errorf("seed insert demo wedding: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("database seeded with demo wedding", "slug", seedDemoSlug)
	}
	return nil
}
