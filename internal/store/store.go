// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Braun Studio
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookups by key return (nil, nil) when the row does not exist.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlugTaken is returned when a wedding slug is already in use.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrNotDraft is returned when deleting a wedding that left draft.
	ErrNotDraft = errors.New("only draft weddings can be deleted")
	// ErrStatusConflict is returned when the stored status changed under a
	// transition.
	ErrStatusConflict = errors.New("wedding status changed concurrently")
	// ErrPhoneTaken is returned when a wedding already lists the phone.
	ErrPhoneTaken = errors.New("a guest with this phone number already exists")
	// ErrTemplateLocked is returned when an update would change the
	// template of a live wedding.
	ErrTemplateLocked = errors.New("template of a live wedding cannot change")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// jsonArg encodes v for a jsonb placeholder. Nil slices and maps are stored
// as empty JSON values rather than null.
func jsonArg(v any) (string, error) {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return "[]", nil
		}
	case map[string]json.RawMessage:
		if t == nil {
			return "{}", nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode jsonb: %w", err)
	}
	return string(b), nil
}

// checkAffected maps a zero-row update to ErrNotFound.
func checkAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
