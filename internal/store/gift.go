// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
)

const giftColumns = `id, wedding_id, gift_id, guest_name, phone, amount_cents, status, created_at`

// GiftStore is the contribution ledger.
type GiftStore struct {
	db *sql.DB
}

// NewGiftStore creates a new GiftStore with the given database connection.
func NewGiftStore(db *sql.DB) *GiftStore {
	return &GiftStore{db: db}
}

func scanContribution(row rowScanner) (*models.GiftContribution, error) {
	c := &models.GiftContribution{}
	err := row.Scan(&c.ID, &c.WeddingID, &c.GiftID, &c.GuestName, &c.Phone, &c.AmountCents, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Record appends a contribution to the ledger.
func (s *GiftStore) Record(ctx context.Context, c *models.GiftContribution) (*models.GiftContribution, error) {
	saved, err := scanContribution(s.db.QueryRowContext(ctx, `
		INSERT INTO gift_contributions (wedding_id, gift_id, guest_name, phone, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+giftColumns,
		c.WeddingID, c.GiftID, c.GuestName, c.Phone, c.AmountCents, c.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("record contribution: %w", err)
	}
	return saved, nil
}

// ListForWedding returns the ledger of a wedding, newest first.
func (s *GiftStore) ListForWedding(ctx context.Context, weddingID uuid.UUID) ([]models.GiftContribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+giftColumns+` FROM gift_contributions WHERE wedding_id = $1 ORDER BY created_at DESC`, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var out []models.GiftContribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// TotalsByGift sums non-failed contributions per gift.
func (s *GiftStore) TotalsByGift(ctx context.Context, weddingID uuid.UUID) ([]models.GiftTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gift_id, COALESCE(SUM(amount_cents), 0), COUNT(*)
		FROM gift_contributions
		WHERE wedding_id = $1 AND status <> 'failed'
		GROUP BY gift_id
		ORDER BY gift_id`, weddingID)
	if err != nil {
		return nil, fmt.Errorf("gift totals: %w", err)
	}
	defer rows.Close()

	var out []models.GiftTotal
	for rows.Next() {
		var t models.GiftTotal
		if err := rows.Scan(&t.GiftID, &t.PledgedCents, &t.Count); err != nil {
			return nil, fmt.Errorf("scan gift total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
