// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

const weddingColumns = `id, name, slug, status, template_id, template_version,
	enabled_sections, section_content, theme, payment_status, couple_emails,
	logo_light_key, logo_dark_key, wedding_date, created_at, updated_at`

// WeddingStore handles tenant rows.
type WeddingStore struct {
	db *sql.DB
}

// NewWeddingStore creates a new WeddingStore with the given database connection.
func NewWeddingStore(db *sql.DB) *WeddingStore {
	return &WeddingStore{db: db}
}

func scanWedding(row rowScanner) (*models.Wedding, error) {
	w := &models.Wedding{}
	var enabled, content, th, emails []byte
	err := row.Scan(
		&w.ID, &w.Name, &w.Slug, &w.Status, &w.TemplateID, &w.TemplateVersion,
		&enabled, &content, &th, &w.PaymentStatus, &emails,
		&w.LogoLightKey, &w.LogoDarkKey, &w.WeddingDate, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalColumn(enabled, &w.EnabledSections); err != nil {
		return nil, fmt.Errorf("enabled_sections: %w", err)
	}
	if err := unmarshalColumn(content, &w.SectionContent); err != nil {
		return nil, fmt.Errorf("section_content: %w", err)
	}
	if err := unmarshalColumn(th, &w.Theme); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	if err := unmarshalColumn(emails, &w.CoupleEmails); err != nil {
		return nil, fmt.Errorf("couple_emails: %w", err)
	}
	return w, nil
}

func unmarshalColumn(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

func (s *WeddingStore) findOne(ctx context.Context, where string, arg any) (*models.Wedding, error) {
	w, err := scanWedding(s.db.QueryRowContext(ctx, `SELECT `+weddingColumns+` FROM weddings WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// FindBySlug retrieves a wedding by slug. Returns nil if not found.
func (s *WeddingStore) FindBySlug(ctx context.Context, slug string) (*models.Wedding, error) {
	w, err := s.findOne(ctx, `slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("find wedding by slug: %w", err)
	}
	return w, nil
}

// FindByID retrieves a wedding by UUID. Returns nil if not found.
func (s *WeddingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	w, err := s.findOne(ctx, `id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find wedding by id: %w", err)
	}
	return w, nil
}

func (s *WeddingStore) list(ctx context.Context, query string, args ...any) ([]models.Wedding, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Wedding
	for rows.Next() {
		w, err := scanWedding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wedding: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// List returns every wedding, newest first.
func (s *WeddingStore) List(ctx context.Context) ([]models.Wedding, error) {
	out, err := s.list(ctx, `SELECT `+weddingColumns+` FROM weddings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}
	return out, nil
}

// ListForEmail returns the weddings whose couple emails contain email,
// compared case-insensitively.
func (s *WeddingStore) ListForEmail(ctx context.Context, email string) ([]models.Wedding, error) {
	out, err := s.list(ctx, `
		SELECT `+weddingColumns+` FROM weddings
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(couple_emails) AS e(email)
			WHERE LOWER(TRIM(e.email)) = LOWER(TRIM($1))
		)
		ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("list weddings for email: %w", err)
	}
	return out, nil
}

// weddingArgs encodes the jsonb columns shared by Create and Update.
func weddingArgs(w *models.Wedding) (enabled, content, emails string, err error) {
	if enabled, err = jsonArg(w.EnabledSections); err != nil {
		return
	}
	if content, err = jsonArg(w.SectionContent); err != nil {
		return
	}
	emails, err = jsonArg(w.CoupleEmails)
	return
}

// Create inserts a wedding. A duplicate slug yields ErrSlugTaken.
func (s *WeddingStore) Create(ctx context.Context, w *models.Wedding) (*models.Wedding, error) {
	enabled, content, emails, err := weddingArgs(w)
	if err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	th, err := jsonArg(w.Theme)
	if err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}

	created, err := scanWedding(s.db.QueryRowContext(ctx, `
		INSERT INTO weddings (name, slug, status, template_id, template_version,
			enabled_sections, section_content, theme, payment_status, couple_emails, wedding_date)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9, $10::jsonb, $11)
		RETURNING `+weddingColumns,
		w.Name, w.Slug, w.Status, w.TemplateID, w.TemplateVersion,
		enabled, content, th, w.PaymentStatus, emails, w.WeddingDate,
	))
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	return created, nil
}

// Update saves the editable fields of w. Slug and status are not touched;
// status moves only through UpdateStatus. The template of a live wedding is
// locked: a write that would change it matches no row and returns
// ErrTemplateLocked, even if the wedding went live after w was read.
func (s *WeddingStore) Update(ctx context.Context, w *models.Wedding) error {
	enabled, content, emails, err := weddingArgs(w)
	if err != nil {
		return fmt.Errorf("update wedding: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE weddings SET
			name = $1, template_id = $2, template_version = $3,
			enabled_sections = $4::jsonb, section_content = $5::jsonb,
			payment_status = $6, couple_emails = $7::jsonb, wedding_date = $8,
			updated_at = NOW()
		WHERE id = $9
		  AND (status <> 'live' OR (template_id = $2 AND template_version = $3))`,
		w.Name, w.TemplateID, w.TemplateVersion, enabled, content,
		w.PaymentStatus, emails, w.WeddingDate, w.ID,
	)
	if err != nil {
		return fmt.Errorf("update wedding: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update wedding: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM weddings WHERE id = $1)`, w.ID).Scan(&exists); err != nil {
		return fmt.Errorf("update wedding: %w", err)
	}
	if exists {
		return ErrTemplateLocked
	}
	return ErrNotFound
}

// UpdateTheme replaces the stored palettes.
func (s *WeddingStore) UpdateTheme(ctx context.Context, id uuid.UUID, t theme.Theme) error {
	th, err := jsonArg(t)
	if err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE weddings SET theme = $1::jsonb, updated_at = NOW() WHERE id = $2`, th, id)
	if err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	if err := checkAffected(res.RowsAffected()); err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	return nil
}

// UpdateStatus moves a wedding from one status to the next. The write only
// applies while the stored status still equals from; otherwise
// ErrStatusConflict is returned. Callers validate the transition.
func (s *WeddingStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.WeddingStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE weddings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return ErrStatusConflict
	}
	return nil
}

// UpdateLogo sets or clears (key == nil) the logo for one color mode.
func (s *WeddingStore) UpdateLogo(ctx context.Context, id uuid.UUID, mode theme.Mode, key *string) error {
	column := "logo_light_key"
	if mode == theme.Dark {
		column = "logo_dark_key"
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE weddings SET `+column+` = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	if err := checkAffected(res.RowsAffected()); err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	return nil
}

// Delete removes a draft wedding. Weddings in any other status are kept
// and ErrNotDraft is returned.
func (s *WeddingStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM weddings WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("delete wedding: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete wedding: %w", err)
	}
	if n == 0 {
		return ErrNotDraft
	}
	return nil
}
