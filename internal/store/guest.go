// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
)

const guestColumns = `id, wedding_id, name, phone, email, rsvp_status, plus_ones,
	dietary, whatsapp_consent, created_at, updated_at`

// GuestStore keeps each wedding's guest list and RSVP answers.
type GuestStore struct {
	db *sql.DB
}

// NewGuestStore creates a new GuestStore with the given database connection.
func NewGuestStore(db *sql.DB) *GuestStore {
	return &GuestStore{db: db}
}

func scanGuest(row rowScanner) (*models.Guest, error) {
	g := &models.Guest{}
	err := row.Scan(&g.ID, &g.WeddingID, &g.Name, &g.Phone, &g.Email, &g.RSVPStatus,
		&g.PlusOnes, &g.Dietary, &g.WhatsappConsent, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RecordRSVP inserts the guest or, when the phone already answered for this
// wedding, overwrites the previous answer.
func (s *GuestStore) RecordRSVP(ctx context.Context, g *models.Guest) (*models.Guest, error) {
	saved, err := scanGuest(s.db.QueryRowContext(ctx, `
		INSERT INTO guests (wedding_id, name, phone, email, rsvp_status, plus_ones, dietary, whatsapp_consent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (wedding_id, phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			rsvp_status = EXCLUDED.rsvp_status,
			plus_ones = EXCLUDED.plus_ones,
			dietary = EXCLUDED.dietary,
			whatsapp_consent = EXCLUDED.whatsapp_consent,
			updated_at = NOW()
		RETURNING `+guestColumns,
		g.WeddingID, g.Name, g.Phone, g.Email, g.RSVPStatus, g.PlusOnes, g.Dietary, g.WhatsappConsent,
	))
	if err != nil {
		return nil, fmt.Errorf("record rsvp: %w", err)
	}
	return saved, nil
}

// FindByID returns a guest of the wedding, or (nil, nil) when the wedding
// has no such guest.
func (s *GuestStore) FindByID(ctx context.Context, weddingID, guestID uuid.UUID) (*models.Guest, error) {
	g, err := scanGuest(s.db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = $1 AND wedding_id = $2`, guestID, weddingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find guest: %w", err)
	}
	return g, nil
}

// Add puts a guest on the list with a pending RSVP.
func (s *GuestStore) Add(ctx context.Context, g *models.Guest) (*models.Guest, error) {
	saved, err := scanGuest(s.db.QueryRowContext(ctx, `
		INSERT INTO guests (wedding_id, name, phone, email, rsvp_status, whatsapp_consent)
		VALUES ($1, $2, $3, $4, 'pending', $5)
		RETURNING `+guestColumns,
		g.WeddingID, g.Name, g.Phone, g.Email, g.WhatsappConsent,
	))
	if isUniqueViolation(err) {
		return nil, ErrPhoneTaken
	}
	if err != nil {
		return nil, fmt.Errorf("add guest: %w", err)
	}
	return saved, nil
}

// AddBulk adds guests in one transaction. A phone already on the list, or
// repeated within the batch, is skipped and reported.
func (s *GuestStore) AddBulk(ctx context.Context, weddingID uuid.UUID, guests []models.Guest) (models.GuestImport, error) {
	res := models.GuestImport{Errors: []string{}}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin guest import: %w", err)
	}
	defer tx.Rollback()

	for _, g := range guests {
		r, err := tx.ExecContext(ctx, `
			INSERT INTO guests (wedding_id, name, phone, email, rsvp_status, whatsapp_consent)
			VALUES ($1, $2, $3, $4, 'pending', $5)
			ON CONFLICT (wedding_id, phone) DO NOTHING`,
			weddingID, g.Name, g.Phone, g.Email, g.WhatsappConsent)
		if err != nil {
			return models.GuestImport{}, fmt.Errorf("import guest: %w", err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return models.GuestImport{}, fmt.Errorf("import guest: %w", err)
		}
		if n == 0 {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("guest with phone %s already exists", g.Phone))
			continue
		}
		res.Added++
	}
	if err := tx.Commit(); err != nil {
		return models.GuestImport{}, fmt.Errorf("commit guest import: %w", err)
	}
	return res, nil
}

// Update saves a guest's contact details. RSVP answers only change through
// RecordRSVP.
func (s *GuestStore) Update(ctx context.Context, g *models.Guest) error {
	r, err := s.db.ExecContext(ctx, `
		UPDATE guests SET name = $1, phone = $2, email = $3, whatsapp_consent = $4, updated_at = NOW()
		WHERE id = $5 AND wedding_id = $6`,
		g.Name, g.Phone, g.Email, g.WhatsappConsent, g.ID, g.WeddingID)
	if isUniqueViolation(err) {
		return ErrPhoneTaken
	}
	if err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	if err := checkAffected(r.RowsAffected()); err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	return nil
}

// Delete removes a guest from the wedding's list.
func (s *GuestStore) Delete(ctx context.Context, weddingID, guestID uuid.UUID) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM guests WHERE id = $1 AND wedding_id = $2`, guestID, weddingID)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if err := checkAffected(r.RowsAffected()); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

// ListForWedding returns the guests of a wedding ordered by name.
func (s *GuestStore) ListForWedding(ctx context.Context, weddingID uuid.UUID) ([]models.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE wedding_id = $1 ORDER BY name ASC, created_at ASC`, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []models.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

// Stats counts answers by status. Attending includes plus-ones of
// confirmed guests.
func (s *GuestStore) Stats(ctx context.Context, weddingID uuid.UUID) (models.GuestStats, error) {
	var st models.GuestStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE rsvp_status = 'confirmed'),
			COUNT(*) FILTER (WHERE rsvp_status = 'declined'),
			COUNT(*) FILTER (WHERE rsvp_status = 'pending'),
			COALESCE(SUM(1 + plus_ones) FILTER (WHERE rsvp_status = 'confirmed'), 0)
		FROM guests WHERE wedding_id = $1`, weddingID,
	).Scan(&st.Total, &st.Confirmed, &st.Declined, &st.Pending, &st.Attending)
	if err != nil {
		return st, fmt.Errorf("guest stats: %w", err)
	}
	return st, nil
}
